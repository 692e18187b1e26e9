package object

import "fmt"

// AbstractSignature is the triple from spec.md §3 used to check that a
// concrete override satisfies an abstract method's contract.
type AbstractSignature struct {
	NumParams        int
	NumDefaultParams int
	Variadic         bool
}

// Compatible implements §3's equality rule between an abstract signature
// and a concrete function's shape: when variadic, all three fields must
// match; otherwise NumParams and Variadic must match (defaults are
// absorbed into NumParams on the concrete side already).
func (sig AbstractSignature) Compatible(concrete AbstractSignature) bool {
	if sig.Variadic || concrete.Variadic {
		return sig.NumParams == concrete.NumParams &&
			sig.NumDefaultParams == concrete.NumDefaultParams &&
			sig.Variadic == concrete.Variadic
	}
	return sig.NumParams == concrete.NumParams
}

// TypeDescriptor represents a type: built-in or user-declared (§3).
type TypeDescriptor struct {
	Name       string
	Base       *TypeDescriptor
	Interfaces []*InterfaceDescriptor
	Attrs      map[string]Value
	Abstract   bool
	Declared   bool

	// AbstractMethods maps a method name to the signature it must satisfy
	// before this type may be instantiated. Populated by internal/class
	// during declaration (§4.4); empty for built-in types.
	AbstractMethods map[string]AbstractSignature

	// Construct implements §4.4's "the type's construct(args, kwargs)":
	// allocate a new instance, inject self, run __init__. Wired by
	// internal/class for declared classes; nil (construction refused) for
	// interfaces and most built-in types.
	Construct func(args []Value, kwargs map[string]Value) (Value, error)

	kind Kind // the runtime Kind instances of this type carry
}

// NewBuiltinType registers a non-declared type descriptor for one of the
// fixed built-in kinds (§4.3).
func NewBuiltinType(name string, kind Kind) *TypeDescriptor {
	return &TypeDescriptor{Name: name, Attrs: map[string]Value{}, kind: kind}
}

// Kind reports the runtime Kind values of this type carry. Declared
// classes report KindDeclInstance for their instances and KindDeclType
// for the type value itself.
func (t *TypeDescriptor) Kind() Kind {
	if t.Declared {
		return KindDeclInstance
	}
	return t.kind
}

// SearchAttr implements §4.3's method-resolution walk: own attribute
// table, then base type's SearchAttr, then failure. Interfaces are never
// consulted here — they constrain construction (§4.4) but do not
// contribute lookups.
func (t *TypeDescriptor) SearchAttr(name string) (Value, bool) {
	for cur := t; cur != nil; cur = cur.Base {
		if v, ok := cur.Attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// AddAbstractMethod implements §4.4 step 4's guard: the type must be
// abstract, the name must not already be an abstract method, and it must
// not collide with any attribute resolvable via SearchAttr.
func (t *TypeDescriptor) AddAbstractMethod(name string, sig AbstractSignature) error {
	if !t.Abstract {
		return fmt.Errorf("abstract method %q declared on non-abstract type %q", name, t.Name)
	}
	if _, exists := t.AbstractMethods[name]; exists {
		return fmt.Errorf("duplicate abstract method %q on type %q", name, t.Name)
	}
	if _, exists := t.SearchAttr(name); exists {
		return fmt.Errorf("abstract method %q collides with a concrete attribute on type %q", name, t.Name)
	}
	if t.AbstractMethods == nil {
		t.AbstractMethods = map[string]AbstractSignature{}
	}
	t.AbstractMethods[name] = sig
	return nil
}

// TypeValue wraps a *TypeDescriptor so it can flow through the
// interpreter as an ordinary Value (KindType or KindDeclType, per the
// name a type value carries into decl-instance construction).
type TypeValue struct {
	base
	Desc *TypeDescriptor
}

func NewTypeValue(desc *TypeDescriptor) *TypeValue { return &TypeValue{Desc: desc} }

func (t *TypeValue) Kind() Kind            { return desiredTypeKind(t.Desc) }
func (t *TypeValue) Type() *TypeDescriptor { return MetaTypeType }

func desiredTypeKind(d *TypeDescriptor) Kind {
	if d.Declared {
		return KindDeclType
	}
	return KindType
}

// InterfaceDescriptor is like TypeDescriptor but never instantiable
// (§3); it carries a transitively-inherited map of required method
// signatures.
type InterfaceDescriptor struct {
	Name              string
	Bases             []*InterfaceDescriptor
	RequiredMethods   map[string]AbstractSignature
}

// Flatten returns the full set of required methods, inherited
// transitively from base interfaces. Duplicate names across distinct
// bases are an error per §3.
func (i *InterfaceDescriptor) Flatten() (map[string]AbstractSignature, error) {
	out := map[string]AbstractSignature{}
	var walk func(iface *InterfaceDescriptor) error
	walk = func(iface *InterfaceDescriptor) error {
		for _, b := range iface.Bases {
			if err := walk(b); err != nil {
				return err
			}
		}
		for name, sig := range iface.RequiredMethods {
			if _, ok := out[name]; ok {
				return fmt.Errorf("interface %q: duplicate inherited method %q", i.Name, name)
			}
			out[name] = sig
		}
		return nil
	}
	if err := walk(i); err != nil {
		return nil, err
	}
	return out, nil
}
