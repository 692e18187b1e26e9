// Package class implements Shell++'s Class & Interface Semantics (§4.4):
// the declaration algorithm that turns a class/interface body into a
// *object.TypeDescriptor / *object.InterfaceDescriptor, plus the
// construction rule wired onto that descriptor's Construct field.
//
// Grounded step-for-step on
// original_source/src/objects/decl-class-object.cc's
// DeclClassType constructor, AddAbstractMethod,
// CheckAbstractMethodsCompatibility, and CheckInterfaceCompatibility.
package class

import (
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/scope"
	"github.com/shpp-lang/shpp/internal/shpperr"
)

// Member is one class-body declaration to insert into the new type's
// attribute table: either a concrete function/value or an abstract
// method signature (Abstract == true, Value == nil).
type Member struct {
	Name     string
	Value    object.Value
	Abstract bool
	Sig      object.AbstractSignature
}

// DeclareClass implements §4.4 steps 1-6. base may be nil (no base
// type); ifaces may be empty.
func DeclareClass(name string, base *object.TypeDescriptor, ifaces []*object.InterfaceDescriptor, abstract bool, members []Member) (*object.TypeDescriptor, error) {
	// Step 1: create descriptor with name, base, interface list.
	desc := &object.TypeDescriptor{
		Name:       name,
		Base:       base,
		Interfaces: ifaces,
		Attrs:      map[string]object.Value{},
		Abstract:   abstract,
		Declared:   true,
	}

	// Step 2: push a fresh CLASS_TABLE scope onto the type's symbol
	// stack. internal/eval owns the actual scope.Stack instance used
	// while evaluating the class body; class.go's contribution is just
	// making sure the table it pushes is marked scope.Table{Class: true}
	// per §4.2 — callers do this via NewClassBodyTable.

	// Step 3: inherit abstract-method map from a declared base.
	if base != nil && base.Declared {
		desc.AbstractMethods = map[string]object.AbstractSignature{}
		for methodName, sig := range base.AbstractMethods {
			if _, dup := desc.AbstractMethods[methodName]; dup {
				return nil, shpperr.IncompatibleTypef(object.Pos{}, "not allowed same name %q method on class", methodName)
			}
			desc.AbstractMethods[methodName] = sig
		}
	}

	// Step 4: insert members declared in the body.
	for _, m := range members {
		if m.Abstract {
			if err := desc.AddAbstractMethod(m.Name, m.Sig); err != nil {
				return nil, shpperr.IncompatibleTypef(object.Pos{}, "%s", err.Error())
			}
			continue
		}
		if _, dup := desc.Attrs[m.Name]; dup {
			return nil, shpperr.IncompatibleTypef(object.Pos{}, "duplicate member %q on class %q", m.Name, name)
		}
		desc.Attrs[m.Name] = m.Value
	}

	// Step 5: if not abstract, every inherited abstract method must now
	// resolve to a compatible concrete function.
	if !abstract {
		if err := checkAbstractMethodsCompatibility(desc); err != nil {
			return nil, err
		}
	}
	if err := checkInterfaceCompatibility(desc); err != nil {
		return nil, err
	}

	desc.Construct = makeConstructor(desc)
	return desc, nil
}

// NewClassBodyTable builds the CLASS_TABLE-tagged scope pushed while
// evaluating a class body (§4.4 step 2 / §4.2's lookup-skip rule).
func NewClassBodyTable() *scope.Table {
	t := scope.NewTable()
	t.Class = true
	return t
}

func checkAbstractMethodsCompatibility(desc *object.TypeDescriptor) error {
	for name, sig := range desc.AbstractMethods {
		v, ok := desc.SearchAttr(name)
		if !ok {
			return shpperr.IncompatibleTypef(object.Pos{}, "class %q does not implement abstract method %q", desc.Name, name)
		}
		fn, ok := v.(*object.Func)
		if !ok {
			return shpperr.IncompatibleTypef(object.Pos{}, "attribute %q is not a method", name)
		}
		if !sig.Compatible(fn.Signature()) {
			return shpperr.IncompatibleTypef(object.Pos{}, "method %q has wrong number of parameters", name)
		}
	}
	return nil
}

func checkInterfaceCompatibility(desc *object.TypeDescriptor) error {
	for _, iface := range desc.Interfaces {
		required, err := iface.Flatten()
		if err != nil {
			return shpperr.IncompatibleTypef(object.Pos{}, "%s", err.Error())
		}
		for name, sig := range required {
			// (a) remains abstract on this class, which is only legal if
			// the class itself stays abstract.
			if abstractSig, stillAbstract := desc.AbstractMethods[name]; stillAbstract && desc.Abstract {
				if abstractSig.Compatible(sig) {
					continue
				}
			}
			// (b) resolves via SearchAttr with a matching signature.
			v, ok := desc.SearchAttr(name)
			if !ok {
				return shpperr.IncompatibleTypef(object.Pos{}, "class %q does not implement interface method %q", desc.Name, name)
			}
			fn, ok := v.(*object.Func)
			if !ok {
				return shpperr.IncompatibleTypef(object.Pos{}, "attribute %q is not a method", name)
			}
			if !sig.Compatible(fn.Signature()) {
				return shpperr.IncompatibleTypef(object.Pos{}, "method %q has wrong number of parameters for interface", name)
			}
		}
	}
	return nil
}

// DeclareInterface implements §3's interface descriptor: required
// methods inherited transitively from base interfaces, duplicate names
// across distinct bases rejected.
func DeclareInterface(name string, bases []*object.InterfaceDescriptor, required map[string]object.AbstractSignature) (*object.InterfaceDescriptor, error) {
	iface := &object.InterfaceDescriptor{Name: name, Bases: bases, RequiredMethods: required}
	if _, err := iface.Flatten(); err != nil {
		return nil, shpperr.IncompatibleTypef(object.Pos{}, "%s", err.Error())
	}
	return iface, nil
}

// makeConstructor implements §4.4's "Instantiation": allocate a new
// instance, inject self as the first positional argument, call __init__
// if present. Abstract classes and interfaces refuse construction (an
// InterfaceDescriptor never gets a Construct closure at all).
func makeConstructor(desc *object.TypeDescriptor) func(args []object.Value, kwargs map[string]object.Value) (object.Value, error) {
	return func(args []object.Value, kwargs map[string]object.Value) (object.Value, error) {
		if desc.Abstract {
			return nil, shpperr.IncompatibleTypef(object.Pos{}, "cannot instantiate abstract class %q", desc.Name)
		}
		inst := object.NewInstance(desc)
		if initFn, ok := desc.SearchAttr("__init__"); ok {
			fn, ok := initFn.(*object.Func)
			if !ok {
				return nil, shpperr.IncompatibleTypef(object.Pos{}, "%s.__init__ is not a method", desc.Name)
			}
			full := make([]object.Value, 0, len(args)+1)
			full = append(full, inst)
			full = append(full, args...)
			if _, err := fn.Call(full, kwargs); err != nil {
				return nil, err
			}
		}
		return inst, nil
	}
}
