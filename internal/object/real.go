package object

import (
	"strconv"

	"github.com/shpp-lang/shpp/internal/shpperr"
)

type Real struct {
	base
	Val float64
}

func NewReal(v float64) *Real { return &Real{Val: v} }

func (r *Real) Kind() Kind            { return KindReal }
func (r *Real) Type() *TypeDescriptor { return RealType }

func (r *Real) Equal(other Value) bool {
	f, ok := numAsFloat(other)
	return ok && f == r.Val
}

func (r *Real) Hash() (int64, error) { return int64(r.Val * 1e6), nil }

func (r *Real) ToBool() (bool, error)   { return r.Val != 0, nil }
func (r *Real) ToInt() (int64, error)   { return int64(r.Val), nil }
func (r *Real) ToReal() (float64, error) { return r.Val, nil }
func (r *Real) ToStr() (string, error)  { return strconv.FormatFloat(r.Val, 'g', -1, 64), nil }
func (r *Real) Print() (string, error)  { return r.ToStr() }
func (r *Real) ToCmd() ([]string, error) {
	s, _ := r.ToStr()
	return []string{s}, nil
}

func (r *Real) Add(other Value) (Value, error) {
	f, ok := numAsFloat(other)
	if !ok {
		return nil, incompatible("real", "+", other)
	}
	return NewReal(r.Val + f), nil
}
func (r *Real) Sub(other Value) (Value, error) {
	f, ok := numAsFloat(other)
	if !ok {
		return nil, incompatible("real", "-", other)
	}
	return NewReal(r.Val - f), nil
}
func (r *Real) Mul(other Value) (Value, error) {
	f, ok := numAsFloat(other)
	if !ok {
		return nil, incompatible("real", "*", other)
	}
	return NewReal(r.Val * f), nil
}
func (r *Real) Div(other Value) (Value, error) {
	f, ok := numAsFloat(other)
	if !ok {
		return nil, incompatible("real", "/", other)
	}
	if f == 0 {
		return nil, shpperr.ZeroDivf(Pos{}, "division by zero")
	}
	return NewReal(r.Val / f), nil
}

func (r *Real) Neg() (Value, error) { return NewReal(-r.Val), nil }
func (r *Real) Pos() (Value, error) { return r, nil }

func (r *Real) Lt(other Value) (bool, error) { return numCompare(r, other, "<") }
func (r *Real) Gt(other Value) (bool, error) { return numCompare(r, other, ">") }
func (r *Real) Le(other Value) (bool, error) { return numCompare(r, other, "<=") }
func (r *Real) Ge(other Value) (bool, error) { return numCompare(r, other, ">=") }
