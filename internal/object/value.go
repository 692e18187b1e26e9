package object

import "github.com/shpp-lang/shpp/internal/ast"

// Value is the capability every Shell++ object exposes (§4.1). Go's
// garbage collector stands in for the spec's strong-reference-counting
// ownership model, so Value
// carries no refcount bookkeeping of its own; the only place the spec's
// "weak self-handle" matters is Instance's self field (see instance.go),
// which is a plain Go pointer since the collector already breaks the
// method-closure cycle a manual weak handle would have prevented.
type Value interface {
	Kind() Kind
	Type() *TypeDescriptor
	Attr(name string) (Value, bool)
	AttrRef(name string) (Ref, bool)
}

// Ref is an assignable reference to a storage slot: an attribute, a
// variable, an array element. Grounded on the lvalue pattern in
// SimonWaldherr-nanoGo's expression evaluator (varRef/fieldRef/
// sliceIndexRef), generalized here to any settable Value slot.
type Ref interface {
	Get() Value
	Set(Value) error
}

// simpleRef is the common Ref implementation for a slot backed by a
// pointer to a Value or by getter/setter closures.
type simpleRef struct {
	get func() Value
	set func(Value) error
}

func (r simpleRef) Get() Value        { return r.get() }
func (r simpleRef) Set(v Value) error { return r.set(v) }

// NewRef builds a Ref from a get/set pair.
func NewRef(get func() Value, set func(Value) error) Ref {
	return simpleRef{get: get, set: set}
}

// base is embedded by every built-in Value to provide a shared,
// lazily-allocated attribute table without repeating the bookkeeping in
// every concrete type.
type base struct {
	attrs map[string]Value
}

func (b *base) Attr(name string) (Value, bool) {
	if b.attrs == nil {
		return nil, false
	}
	v, ok := b.attrs[name]
	return v, ok
}

func (b *base) AttrRef(name string) (Ref, bool) {
	if b.attrs == nil {
		b.attrs = map[string]Value{}
	}
	return NewRef(
		func() Value { return b.attrs[name] },
		func(v Value) error { b.attrs[name] = v; return nil },
	), true
}

// Pos is re-exported for convenience so callers building shpperr values
// against object results don't need a separate ast import.
type Pos = ast.Pos
