package object

import (
	"strconv"

	"github.com/shpp-lang/shpp/internal/shpperr"
)

type Int struct {
	base
	Val int64
}

func NewInt(v int64) *Int { return &Int{Val: v} }

func (i *Int) Kind() Kind            { return KindInt }
func (i *Int) Type() *TypeDescriptor { return IntType }

func (i *Int) Equal(other Value) bool {
	switch o := other.(type) {
	case *Int:
		return o.Val == i.Val
	case *Real:
		return o.Val == float64(i.Val)
	default:
		return false
	}
}

func (i *Int) Hash() (int64, error) { return i.Val, nil }

func (i *Int) ToBool() (bool, error)   { return i.Val != 0, nil }
func (i *Int) ToInt() (int64, error)   { return i.Val, nil }
func (i *Int) ToReal() (float64, error) { return float64(i.Val), nil }
func (i *Int) ToStr() (string, error)  { return strconv.FormatInt(i.Val, 10), nil }
func (i *Int) Print() (string, error)  { return i.ToStr() }
func (i *Int) ToCmd() ([]string, error) {
	s, _ := i.ToStr()
	return []string{s}, nil
}

func (i *Int) asReal(other Value) (float64, bool) {
	if r, ok := other.(*Real); ok {
		return r.Val, true
	}
	return 0, false
}

func (i *Int) Add(other Value) (Value, error) {
	if o, ok := other.(*Int); ok {
		return NewInt(i.Val + o.Val), nil
	}
	if r, ok := i.asReal(other); ok {
		return NewReal(float64(i.Val) + r), nil
	}
	return nil, incompatible("int", "+", other)
}
func (i *Int) Sub(other Value) (Value, error) {
	if o, ok := other.(*Int); ok {
		return NewInt(i.Val - o.Val), nil
	}
	if r, ok := i.asReal(other); ok {
		return NewReal(float64(i.Val) - r), nil
	}
	return nil, incompatible("int", "-", other)
}
func (i *Int) Mul(other Value) (Value, error) {
	if o, ok := other.(*Int); ok {
		return NewInt(i.Val * o.Val), nil
	}
	if r, ok := i.asReal(other); ok {
		return NewReal(float64(i.Val) * r), nil
	}
	return nil, incompatible("int", "*", other)
}
func (i *Int) Div(other Value) (Value, error) {
	if o, ok := other.(*Int); ok {
		if o.Val == 0 {
			return nil, shpperr.ZeroDivf(Pos{}, "division by zero")
		}
		return NewInt(i.Val / o.Val), nil
	}
	if r, ok := i.asReal(other); ok {
		if r == 0 {
			return nil, shpperr.ZeroDivf(Pos{}, "division by zero")
		}
		return NewReal(float64(i.Val) / r), nil
	}
	return nil, incompatible("int", "/", other)
}
func (i *Int) Mod(other Value) (Value, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, incompatible("int", "%", other)
	}
	if o.Val == 0 {
		return nil, shpperr.ZeroDivf(Pos{}, "modulo by zero")
	}
	return NewInt(i.Val % o.Val), nil
}

func (i *Int) Lshift(other Value) (Value, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, incompatible("int", "<<", other)
	}
	return NewInt(i.Val << uint(o.Val)), nil
}
func (i *Int) Rshift(other Value) (Value, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, incompatible("int", ">>", other)
	}
	return NewInt(i.Val >> uint(o.Val)), nil
}

func (i *Int) And(other Value) (Value, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, incompatible("int", "&", other)
	}
	return NewInt(i.Val & o.Val), nil
}
func (i *Int) Or(other Value) (Value, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, incompatible("int", "|", other)
	}
	return NewInt(i.Val | o.Val), nil
}
func (i *Int) Xor(other Value) (Value, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, incompatible("int", "^", other)
	}
	return NewInt(i.Val ^ o.Val), nil
}
func (i *Int) Invert() (Value, error) { return NewInt(^i.Val), nil }

func (i *Int) Neg() (Value, error) { return NewInt(-i.Val), nil }
func (i *Int) Pos() (Value, error) { return i, nil }

func (i *Int) Lt(other Value) (bool, error) { return numCompare(i, other, "<") }
func (i *Int) Gt(other Value) (bool, error) { return numCompare(i, other, ">") }
func (i *Int) Le(other Value) (bool, error) { return numCompare(i, other, "<=") }
func (i *Int) Ge(other Value) (bool, error) { return numCompare(i, other, ">=") }

func numCompare(a Value, b Value, op string) (bool, error) {
	af, aok := numAsFloat(a)
	bf, bok := numAsFloat(b)
	if !aok || !bok {
		return false, incompatible(a.Kind().String(), op, b)
	}
	switch op {
	case "<":
		return af < bf, nil
	case ">":
		return af > bf, nil
	case "<=":
		return af <= bf, nil
	case ">=":
		return af >= bf, nil
	}
	return false, nil
}

func numAsFloat(v Value) (float64, bool) {
	switch o := v.(type) {
	case *Int:
		return float64(o.Val), true
	case *Real:
		return o.Val, true
	default:
		return 0, false
	}
}

func incompatible(selfKind, op string, other Value) error {
	return shpperr.IncompatibleTypef(Pos{}, "unsupported operand for %s %s %s", selfKind, op, other.Kind())
}
