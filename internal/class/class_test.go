package class

import (
	"testing"

	"github.com/shpp-lang/shpp/internal/object"
)

func nativeMethod(name string, numParams int) *object.Func {
	fn := object.NewNativeFunc(name, numParams, false, func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		return object.NewInt(0), nil
	})
	fn.Declared = true
	return fn
}

func TestDeclareClassAbstractInheritance(t *testing.T) {
	base, err := DeclareClass("Animal", nil, nil, true, []Member{
		{Name: "speak", Abstract: true, Sig: object.AbstractSignature{NumParams: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(base.AbstractMethods) != 1 {
		t.Fatalf("expected 1 abstract method, got %d", len(base.AbstractMethods))
	}

	// A concrete subclass must implement speak with a matching signature.
	dog, err := DeclareClass("Dog", base, nil, false, []Member{
		{Name: "speak", Value: nativeMethod("speak", 1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := dog.SearchAttr("speak"); !ok {
		t.Fatal("expected Dog to resolve speak via its own attribute table")
	}
}

func TestDeclareClassRejectsIncompleteAbstractImplementation(t *testing.T) {
	base, err := DeclareClass("Animal", nil, nil, true, []Member{
		{Name: "speak", Abstract: true, Sig: object.AbstractSignature{NumParams: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := DeclareClass("Dog", base, nil, false, nil); err == nil {
		t.Fatal("expected error: concrete class did not implement inherited abstract method")
	}
}

func TestDeclareClassRejectsWrongArity(t *testing.T) {
	base, err := DeclareClass("Animal", nil, nil, true, []Member{
		{Name: "speak", Abstract: true, Sig: object.AbstractSignature{NumParams: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = DeclareClass("Dog", base, nil, false, []Member{
		{Name: "speak", Value: nativeMethod("speak", 2)},
	})
	if err == nil {
		t.Fatal("expected error: wrong number of parameters for abstract override")
	}
}

func TestAddAbstractMethodCollidesWithConcreteAttribute(t *testing.T) {
	_, err := DeclareClass("Bad", nil, nil, true, []Member{
		{Name: "run", Value: object.NewInt(1)},
		{Name: "run", Abstract: true, Sig: object.AbstractSignature{}},
	})
	if err == nil {
		t.Fatal("expected duplicate member name to fail")
	}
}

func TestDeclareInterfaceInheritance(t *testing.T) {
	base, err := DeclareInterface("Speaker", nil, map[string]object.AbstractSignature{
		"speak": {NumParams: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	derived, err := DeclareInterface("LoudSpeaker", []*object.InterfaceDescriptor{base}, map[string]object.AbstractSignature{
		"shout": {NumParams: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	flat, err := derived.Flatten()
	if err != nil {
		t.Fatal(err)
	}
	if len(flat) != 2 {
		t.Fatalf("expected 2 required methods (inherited + own), got %d", len(flat))
	}
}

func TestDeclareClassInterfaceCompatibility(t *testing.T) {
	iface, err := DeclareInterface("Speaker", nil, map[string]object.AbstractSignature{
		"speak": {NumParams: 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := DeclareClass("Mute", nil, []*object.InterfaceDescriptor{iface}, false, nil); err == nil {
		t.Fatal("expected error: class does not implement required interface method")
	}

	cls, err := DeclareClass("Talker", nil, []*object.InterfaceDescriptor{iface}, false, []Member{
		{Name: "speak", Value: nativeMethod("speak", 1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if cls.Construct == nil {
		t.Fatal("expected a wired Construct closure on a concrete class")
	}
}

func TestConstructRejectsAbstractClass(t *testing.T) {
	abs, err := DeclareClass("Animal", nil, nil, true, []Member{
		{Name: "speak", Abstract: true, Sig: object.AbstractSignature{NumParams: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := abs.Construct(nil, nil); err == nil {
		t.Fatal("expected error constructing an abstract class")
	}
}

func TestConstructCallsInit(t *testing.T) {
	initCalled := false
	initFn := object.NewNativeFunc("__init__", 2, false, func(args []object.Value, _ map[string]object.Value) (object.Value, error) {
		initCalled = true
		self := args[0].(*object.Instance)
		ref, _ := self.AttrRef("x")
		_ = ref.Set(args[1])
		return object.TheNull, nil
	})
	initFn.Declared = true

	desc, err := DeclareClass("Point", nil, nil, false, []Member{
		{Name: "__init__", Value: initFn},
	})
	if err != nil {
		t.Fatal(err)
	}

	v, err := desc.Construct([]object.Value{object.NewInt(9)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !initCalled {
		t.Fatal("expected __init__ to be invoked during construction")
	}
	inst := v.(*object.Instance)
	x, _ := inst.Attr("x")
	if x.(*object.Int).Val != 9 {
		t.Fatalf("expected x == 9, got %v", x)
	}
}
