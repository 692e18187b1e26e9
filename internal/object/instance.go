package object

import "github.com/shpp-lang/shpp/internal/shpperr"

// Instance is a declared-class instance (§3, §4.4). self is a plain Go
// pointer to the instance itself rather than a manual weak reference:
// spec.md's "weak self-handle" exists in the original to avoid a
// reference-counting cycle through bound methods, but Go's tracing
// collector already reclaims cycles it can't reach, so no bookkeeping is
// needed here.
type Instance struct {
	base
	Desc *TypeDescriptor
	self *Instance
}

// NewInstance allocates a bare instance of desc. Called from
// desc.Construct (wired by internal/class), never directly by the
// evaluator, so that abstract/interface construction rejection (§4.4)
// stays centralized in one place.
func NewInstance(desc *TypeDescriptor) *Instance {
	inst := &Instance{Desc: desc, base: base{attrs: map[string]Value{}}}
	inst.self = inst
	return inst
}

func (i *Instance) Kind() Kind            { return KindDeclInstance }
func (i *Instance) Type() *TypeDescriptor { return i.Desc }

// Attr implements §4.4's "Attribute access on an instance": own table
// first (functions found there are still returned unbound, since a
// per-instance function attribute is data, not a class method); otherwise
// SearchAttr on the type, binding class methods to self.
func (i *Instance) Attr(name string) (Value, bool) {
	if v, ok := i.base.Attr(name); ok {
		return v, true
	}
	v, ok := i.Desc.SearchAttr(name)
	if !ok {
		return nil, false
	}
	fn, ok := v.(*Func)
	if !ok {
		return v, true
	}
	if !fn.Declared {
		return fn, true
	}
	if fn.Static {
		return nil, false // static method must not be called by object (§4.4)
	}
	return NewWrapperFunc(fn, i.self), true
}

// AttrRef implements §4.4's assignment rule: assignment always targets
// the instance's own table, creating the slot if absent.
func (i *Instance) AttrRef(name string) (Ref, bool) {
	return i.base.AttrRef(name)
}

// dunder resolves method on the instance's *type* (not its own attribute
// table, per §4.5) and, if present, calls it with self prepended.
func (i *Instance) dunder(name string, args ...Value) (Value, error) {
	v, ok := i.Desc.SearchAttr(name)
	if !ok {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s has no method %s", i.Desc.Name, name)
	}
	fn, ok := v.(*Func)
	if !ok {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s.%s is not callable", i.Desc.Name, name)
	}
	full := make([]Value, 0, len(args)+1)
	full = append(full, i.self)
	full = append(full, args...)
	return fn.Call(full, nil)
}

func (i *Instance) hasDunder(name string) bool {
	_, ok := i.Desc.SearchAttr(name)
	return ok
}

func (i *Instance) Add(o Value) (Value, error)      { return i.dunder("__add__", o) }
func (i *Instance) Sub(o Value) (Value, error)      { return i.dunder("__sub__", o) }
func (i *Instance) Mul(o Value) (Value, error)      { return i.dunder("__mul__", o) }
func (i *Instance) Div(o Value) (Value, error)      { return i.dunder("__div__", o) }
func (i *Instance) Mod(o Value) (Value, error)      { return i.dunder("__mod__", o) }
func (i *Instance) Lshift(o Value) (Value, error)   { return i.dunder("__lshift__", o) }
func (i *Instance) Rshift(o Value) (Value, error)   { return i.dunder("__rshift__", o) }
func (i *Instance) And(o Value) (Value, error)      { return i.dunder("__rand__", o) }
func (i *Instance) Or(o Value) (Value, error)       { return i.dunder("__ror__", o) }
func (i *Instance) Xor(o Value) (Value, error)      { return i.dunder("__rxor__", o) }
func (i *Instance) Invert() (Value, error)          { return i.dunder("__rinvert__") }
func (i *Instance) LogicalAnd(o Value) (Value, error) { return i.dunder("__and__", o) }
func (i *Instance) LogicalOr(o Value) (Value, error)  { return i.dunder("__or__", o) }
func (i *Instance) Neg() (Value, error)             { return i.dunder("__neg__") }
func (i *Instance) Pos() (Value, error)             { return i.dunder("__pos__") }
func (i *Instance) Not() (Value, error)             { return i.dunder("__invert__") }

func (i *Instance) Call(args []Value, kwargs map[string]Value) (Value, error) {
	v, ok := i.Desc.SearchAttr("__call__")
	if !ok {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s is not callable", i.Desc.Name)
	}
	fn, ok := v.(*Func)
	if !ok {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s.__call__ is not callable", i.Desc.Name)
	}
	full := append([]Value{i.self}, args...)
	return fn.Call(full, kwargs)
}

func (i *Instance) boolResult(name string, args ...Value) (bool, error) {
	v, err := i.dunder(name, args...)
	if err != nil {
		return false, err
	}
	b, ok := v.(*Bool)
	if !ok {
		return false, shpperr.IncompatibleTypef(Pos{}, "%s.%s must return bool", i.Desc.Name, name)
	}
	return b.Val, nil
}

func (i *Instance) Lt(o Value) (bool, error) { return i.boolResult("__lt__", o) }
func (i *Instance) Gt(o Value) (bool, error) { return i.boolResult("__gt__", o) }
func (i *Instance) Le(o Value) (bool, error) { return i.boolResult("__le__", o) }
func (i *Instance) Ge(o Value) (bool, error) { return i.boolResult("__ge__", o) }

func (i *Instance) Equal(other Value) bool {
	if !i.hasDunder("__eq__") {
		oi, ok := other.(*Instance)
		return ok && oi == i
	}
	v, err := i.dunder("__eq__", other)
	if err != nil {
		return false
	}
	b, ok := v.(*Bool)
	return ok && b.Val
}

func (i *Instance) NotEqual(other Value) (bool, error) {
	if !i.hasDunder("__ne__") {
		return !i.Equal(other), nil
	}
	return i.boolResult("__ne__", other)
}

func (i *Instance) Contains(key Value) (bool, error) { return i.boolResult("__contains__", key) }

func (i *Instance) GetItem(key Value) (Value, error) { return i.dunder("__getitem__", key) }
func (i *Instance) SetItem(Value, Value) error {
	return shpperr.IncompatibleTypef(Pos{}, "%s does not support item assignment", i.Desc.Name)
}
func (i *Instance) DelItem(Value) error {
	_, err := i.dunder("__del__")
	return err
}

func (i *Instance) Len() int {
	v, err := i.dunder("__len__")
	if err != nil {
		return 0
	}
	n, ok := v.(*Int)
	if !ok {
		return 0
	}
	return int(n.Val)
}

func (i *Instance) Hash() (int64, error) {
	v, err := i.dunder("__hash__")
	if err != nil {
		return 0, err
	}
	n, ok := v.(*Int)
	if !ok || n.Val < 0 {
		return 0, shpperr.IncompatibleTypef(Pos{}, "%s.__hash__ must return a non-negative int", i.Desc.Name)
	}
	return n.Val, nil
}

func (i *Instance) ToBool() (bool, error) {
	if !i.hasDunder("__bool__") {
		return true, nil
	}
	return i.boolResult("__bool__")
}

func (i *Instance) ToStr() (string, error) {
	v, err := i.dunder("__str__")
	if err != nil {
		return "", err
	}
	s, ok := v.(*Str)
	if !ok {
		return "", shpperr.IncompatibleTypef(Pos{}, "%s.__str__ must return string", i.Desc.Name)
	}
	return s.Val, nil
}

func (i *Instance) ToInt() (int64, error) {
	return 0, shpperr.IncompatibleTypef(Pos{}, "%s has no int conversion", i.Desc.Name)
}
func (i *Instance) ToReal() (float64, error) {
	return 0, shpperr.IncompatibleTypef(Pos{}, "%s has no real conversion", i.Desc.Name)
}

func (i *Instance) ToCmd() ([]string, error) {
	v, err := i.dunder("__cmd__")
	if err != nil {
		return nil, err
	}
	c, ok := v.(Converter)
	if !ok {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s.__cmd__ must return a command-convertible value", i.Desc.Name)
	}
	return c.ToCmd()
}

func (i *Instance) Print() (string, error) {
	v, err := i.dunder("__print__")
	if err != nil {
		return "", err
	}
	s, ok := v.(*Str)
	if !ok {
		return "", shpperr.IncompatibleTypef(Pos{}, "%s.__print__ must return string", i.Desc.Name)
	}
	return s.Val, nil
}

type instanceIterator struct {
	inst *Instance
}

func (it *instanceIterator) HasNext() bool {
	v, err := it.inst.dunder("__has_next__")
	if err != nil {
		return false
	}
	b, ok := v.(*Bool)
	return ok && b.Val
}
func (it *instanceIterator) Next() (Value, error) {
	return it.inst.dunder("__next__")
}

func (i *Instance) Iter() (Iterator, error) {
	if !i.hasDunder("__iter__") {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s is not iterable", i.Desc.Name)
	}
	self, err := i.dunder("__iter__")
	if err != nil {
		return nil, err
	}
	iterInst, ok := self.(*Instance)
	if !ok {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s.__iter__ must return an instance", i.Desc.Name)
	}
	return &instanceIterator{inst: iterInst}, nil
}

// Begin and End implement §4.5's begin()/end() protocol pair, used by
// range-style for loops over declared-class containers.
func (i *Instance) Begin() (Value, error) { return i.dunder("__begin__") }
func (i *Instance) End() (Value, error)   { return i.dunder("__end__") }
