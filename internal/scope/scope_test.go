package scope

import (
	"testing"

	"github.com/shpp-lang/shpp/internal/object"
)

func TestInsertAndLookup(t *testing.T) {
	s := NewStack()
	if err := s.Insert("x", object.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	v, ok := s.Lookup("x")
	if !ok || v.(*object.Int).Val != 1 {
		t.Fatalf("lookup x = %v, ok=%v", v, ok)
	}
}

func TestDuplicateInsertRejected(t *testing.T) {
	s := NewStack()
	if err := s.Insert("x", object.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := s.Insert("x", object.NewInt(2)); err == nil {
		t.Fatal("expected duplicate insert to fail")
	}
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	s := NewStack()
	_ = s.Insert("x", object.NewInt(1))
	s.Push(NewTable())
	_ = s.Insert("x", object.NewInt(2))

	v, _ := s.Lookup("x")
	if v.(*object.Int).Val != 2 {
		t.Fatalf("expected inner binding to shadow, got %v", v)
	}

	s.Pop()
	v, _ = s.Lookup("x")
	if v.(*object.Int).Val != 1 {
		t.Fatalf("expected outer binding after pop, got %v", v)
	}
}

func TestLookupWritableRebindsExisting(t *testing.T) {
	s := NewStack()
	_ = s.Insert("x", object.NewInt(1))
	s.Push(NewTable())

	ref := s.LookupWritable("x")
	if err := ref.Set(object.NewInt(42)); err != nil {
		t.Fatal(err)
	}

	s.Pop()
	v, _ := s.Lookup("x")
	if v.(*object.Int).Val != 42 {
		t.Fatalf("expected outer x rebound to 42, got %v", v)
	}
}

func TestLookupWritableCreatesInInnermostWhenMissing(t *testing.T) {
	s := NewStack()
	s.Push(NewTable())

	ref := s.LookupWritable("y")
	_ = ref.Set(object.NewInt(7))

	if s.Top().names["y"] == nil {
		t.Fatal("expected y to be created in the innermost scope")
	}
	s.Pop()
	if s.Exists("y") {
		t.Fatal("y should not have leaked into the outer scope")
	}
}

func TestClassTableSkippedForWritableLookup(t *testing.T) {
	s := NewStack()
	_ = s.Insert("x", object.NewInt(1))

	classTable := NewTable()
	classTable.Class = true
	s.Push(classTable)
	_ = s.Insert("x", object.NewInt(99)) // class member named x

	s.Push(NewTable()) // method body scope
	ref := s.LookupWritable("x")
	if err := ref.Set(object.NewInt(5)); err != nil {
		t.Fatal(err)
	}

	// The class table's x must be untouched; the write should have
	// skipped past it to the outer local.
	s.Pop() // method body
	classVal, _ := s.Top().names["x"], true
	if classVal.val.(*object.Int).Val != 99 {
		t.Fatalf("class table's x was mutated: %v", classVal.val)
	}
	s.Pop() // class table
	outerVal, _ := s.Lookup("x")
	if outerVal.(*object.Int).Val != 5 {
		t.Fatalf("expected outer x updated to 5, got %v", outerVal)
	}
}

func TestSnapshotSharesLiveTables(t *testing.T) {
	s := NewStack()
	_ = s.Insert("x", object.NewInt(1))
	closure := s.Snapshot()

	s.Push(NewTable())
	ref := s.LookupWritable("x")
	_ = ref.Set(object.NewInt(2))
	s.Pop()

	v, _ := closure.Lookup("x")
	if v.(*object.Int).Val != 2 {
		t.Fatalf("snapshot should observe later mutation through shared table, got %v", v)
	}
}

func TestExportFlag(t *testing.T) {
	s := NewStack()
	_ = s.Insert("PATH", object.NewStr("/bin"))
	if s.IsExported("PATH") {
		t.Fatal("should not be exported by default")
	}
	if !s.SetExported("PATH") {
		t.Fatal("expected SetExported to find PATH")
	}
	if !s.IsExported("PATH") {
		t.Fatal("expected PATH to be exported")
	}
}
