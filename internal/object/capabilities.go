package object

// The capability interfaces below decompose §4.1's polymorphic operation
// set into small, independently-satisfiable Go interfaces — the same
// shape the teacher's core/vos capability composition (VNetwork+VEnv+VIO+
// VProc+VFS, see DESIGN.md) uses to let a value support only the
// operations meaningful for its kind. A Value that doesn't implement the
// relevant interface fails the operation with INCOMPATIBLE_TYPE at the
// call site (internal/eval), exactly as §4.1 specifies for unsupported
// operations.

type Adder interface{ Add(Value) (Value, error) }
type Subber interface{ Sub(Value) (Value, error) }
type Muler interface{ Mul(Value) (Value, error) }
type Diver interface{ Div(Value) (Value, error) }
type Moder interface{ Mod(Value) (Value, error) }
type Shifter interface {
	Lshift(Value) (Value, error)
	Rshift(Value) (Value, error)
}
type Bitwise interface {
	And(Value) (Value, error)
	Or(Value) (Value, error)
	Xor(Value) (Value, error)
	Invert() (Value, error)
}
type Logical interface {
	LogicalAnd(Value) (Value, error)
	LogicalOr(Value) (Value, error)
}
type Comparer interface {
	Lt(Value) (bool, error)
	Gt(Value) (bool, error)
	Le(Value) (bool, error)
	Ge(Value) (bool, error)
}
type Equaler interface{ Equal(Value) bool }
type Hasher interface{ Hash() (int64, error) }
type Negator interface {
	Neg() (Value, error)
	Pos() (Value, error)
}
type Notter interface{ Not() (Value, error) }
type Caller interface {
	Call(args []Value, kwargs map[string]Value) (Value, error)
}

// Container covers §4.1's `len`/`get_item`/`set_item`/`del_item`/
// `contains` protocol.
type Container interface {
	Len() int
	GetItem(key Value) (Value, error)
	SetItem(key, val Value) error
	DelItem(key Value) error
	Contains(key Value) (bool, error)
}

// Sliceable supports Python/bash-style `a[low:high:step]` slicing;
// distinct from Container because tuples and strings support slicing
// without supporting SetItem/DelItem.
type Sliceable interface {
	Slice(low, high, step int) (Value, error)
}

// Iterator is the concrete cursor returned by Iterable.Iter — it maps
// directly onto §4.5's begin/end/next/has_next dunder quartet.
type Iterator interface {
	HasNext() bool
	Next() (Value, error)
}

type Iterable interface{ Iter() (Iterator, error) }

// Converter covers §4.1's conversion suite. Every method may fail with
// INCOMPATIBLE_TYPE for a kind that has no sensible conversion.
type Converter interface {
	ToStr() (string, error)
	ToBool() (bool, error)
	ToInt() (int64, error)
	ToReal() (float64, error)
	// ToCmd yields the argv words this value contributes when spliced
	// into a command position (§4.1's `to_cmd`).
	ToCmd() ([]string, error)
}

// Printer implements §4.1's `print()`; distinct from Converter.ToStr
// because a declared class may define __print__ without __str__.
type Printer interface{ Print() (string, error) }
