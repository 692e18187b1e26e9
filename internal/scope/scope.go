// Package scope implements Shell++'s symbol table stack (§4.2): an
// ordered list of lexical scopes with innermost-first lookup, writable
// references for assignment, and closure snapshotting.
//
// Grounded on other_examples/SimonWaldherr-nanoGo's Env/get/set/declare
// chain-of-maps pattern, extended with §4.2's CLASS_TABLE skip rule and
// the object.Ref lvalue contract from internal/object.
package scope

import (
	"fmt"

	"github.com/shpp-lang/shpp/internal/object"
)

// entry is one variable binding: a value slot plus §3's scope-entry
// flags (currently just Exported, used by internal/builtins' `export`).
type entry struct {
	val      object.Value
	exported bool
}

// Table is a single lexical scope: a flat map of names to entries. A
// Table tagged Class marks a class-body scope for §4.2's lookup-skip
// rule.
type Table struct {
	names map[string]*entry
	Class bool
}

func NewTable() *Table { return &Table{names: map[string]*entry{}} }

// Stack is an ordered, innermost-first list of scopes. The zero value is
// not usable; construct with NewStack.
type Stack struct {
	tables []*Table
}

// NewStack builds a stack with a single root table.
func NewStack() *Stack {
	return &Stack{tables: []*Table{NewTable()}}
}

// Push adds a new innermost scope.
func (s *Stack) Push(t *Table) { s.tables = append(s.tables, t) }

// Pop removes the innermost scope.
func (s *Stack) Pop() {
	if len(s.tables) == 0 {
		return
	}
	s.tables = s.tables[:len(s.tables)-1]
}

// Top returns the innermost scope.
func (s *Stack) Top() *Table { return s.tables[len(s.tables)-1] }

// Insert adds name to the innermost scope. Duplicate names within that
// single scope are rejected per §4.2.
func (s *Stack) Insert(name string, val object.Value) error {
	return s.Top().insert(name, val)
}

func (t *Table) insert(name string, val object.Value) error {
	if _, exists := t.names[name]; exists {
		return fmt.Errorf("duplicate name %q in scope", name)
	}
	t.names[name] = &entry{val: val}
	return nil
}

// Exists reports whether name resolves anywhere on the stack.
func (s *Stack) Exists(name string) bool {
	_, ok := s.find(name, false)
	return ok
}

// Lookup reads name innermost-to-outermost; the CLASS_TABLE skip rule
// (§4.2) applies only to writable lookups from method bodies, so a plain
// read walks every scope including class tables.
func (s *Stack) Lookup(name string) (object.Value, bool) {
	e, ok := s.find(name, false)
	if !ok {
		return nil, false
	}
	return e.val, true
}

// LookupWritable returns a Ref to name's storage slot, walking outward
// and skipping any CLASS_TABLE scope so that a function body nested
// inside a class doesn't accidentally rebind a class member as if it
// were an enclosing local (§4.2). If no scope holds name, one is created
// in the innermost non-class scope.
func (s *Stack) LookupWritable(name string) object.Ref {
	if e, ok := s.find(name, true); ok {
		return entryRef(e)
	}
	target := s.innermostWritable()
	e := &entry{}
	target.names[name] = e
	return entryRef(e)
}

func entryRef(e *entry) object.Ref {
	return object.NewRef(
		func() object.Value { return e.val },
		func(v object.Value) error { e.val = v; return nil },
	)
}

func (s *Stack) innermostWritable() *Table {
	for i := len(s.tables) - 1; i >= 0; i-- {
		if !s.tables[i].Class {
			return s.tables[i]
		}
	}
	return s.tables[0]
}

func (s *Stack) find(name string, skipClass bool) (*entry, bool) {
	for i := len(s.tables) - 1; i >= 0; i-- {
		t := s.tables[i]
		if skipClass && t.Class {
			continue
		}
		if e, ok := t.names[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// SetExported marks name (which must already exist somewhere on the
// stack) as exported, for internal/builtins' `export` command.
func (s *Stack) SetExported(name string) bool {
	e, ok := s.find(name, false)
	if !ok {
		return false
	}
	e.exported = true
	return true
}

func (s *Stack) IsExported(name string) bool {
	e, ok := s.find(name, false)
	return ok && e.exported
}

// Snapshot implements §4.2's closure capture: "the current stack is
// snapshotted by handle-sharing". Since Table is reference-shared (a
// *Table, not a value copy), a snapshot is just a copy of the slice of
// pointers — captured scopes stay live and mutable exactly like the
// spec requires, because Go's collector keeps them alive as long as the
// returned Stack (held by the closure) references them.
func (s *Stack) Snapshot() *Stack {
	tables := make([]*Table, len(s.tables))
	copy(tables, s.tables)
	return &Stack{tables: tables}
}

// Depth reports how many scopes are currently pushed, for tests and
// diagnostics.
func (s *Stack) Depth() int { return len(s.tables) }
