package types

import (
	"testing"

	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/scope"
)

func TestRegisterInsertsEveryBuiltinType(t *testing.T) {
	root := scope.NewStack()
	if err := Register(root); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{
		"int", "real", "bool", "string", "array", "map", "tuple",
		"func", "cmdobj", "cmd_iter", "array_iter", "module", "type", "null_t",
	} {
		v, ok := root.Lookup(name)
		if !ok {
			t.Fatalf("built-in type %q was not registered", name)
		}
		if _, ok := v.(*object.TypeValue); !ok {
			t.Fatalf("%q registered as %T, want *object.TypeValue", name, v)
		}
	}
}

func TestRegisterRejectsDoubleRegistration(t *testing.T) {
	root := scope.NewStack()
	if err := Register(root); err != nil {
		t.Fatal(err)
	}
	if err := Register(root); err == nil {
		t.Fatal("expected registering built-ins twice into the same scope to fail")
	}
}
