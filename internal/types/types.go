// Package types implements the built-in type registry from spec.md §4.3:
// inserting every fixed built-in type (int, real, bool, string, array,
// map, tuple, func, cmdobj, cmd_iter, array_iter, module, type, null_t)
// into a root scope at interpreter startup, each bound to its
// object.TypeDescriptor as a first-class type value.
package types

import (
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/scope"
)

// Register inserts every built-in type into root's scope, keyed by its
// registered name, as a *object.TypeValue — making `int`, `string`, etc.
// resolvable identifiers the evaluator can call to convert/construct
// values, per spec.md §4.3's "registered at startup in a root scope".
func Register(root *scope.Stack) error {
	for _, desc := range object.BuiltinTypes() {
		if err := root.Insert(desc.Name, object.NewTypeValue(desc)); err != nil {
			return err
		}
	}
	return nil
}
