package object

import "github.com/shpp-lang/shpp/internal/shpperr"

type Bool struct {
	base
	Val bool
}

var (
	True  = &Bool{Val: true}
	False = &Bool{Val: false}
)

// NewBool returns the shared True/False singleton for v.
func NewBool(v bool) *Bool {
	if v {
		return True
	}
	return False
}

func (b *Bool) Kind() Kind            { return KindBool }
func (b *Bool) Type() *TypeDescriptor { return BoolType }
func (b *Bool) Equal(other Value) bool {
	o, ok := other.(*Bool)
	return ok && o.Val == b.Val
}
func (b *Bool) Hash() (int64, error) {
	if b.Val {
		return 1, nil
	}
	return 0, nil
}
func (b *Bool) ToBool() (bool, error) { return b.Val, nil }
func (b *Bool) ToInt() (int64, error) {
	if b.Val {
		return 1, nil
	}
	return 0, nil
}
func (b *Bool) ToReal() (float64, error) {
	if b.Val {
		return 1, nil
	}
	return 0, nil
}
func (b *Bool) ToStr() (string, error) {
	if b.Val {
		return "true", nil
	}
	return "false", nil
}
func (b *Bool) Print() (string, error) { return b.ToStr() }
func (b *Bool) ToCmd() ([]string, error) {
	s, _ := b.ToStr()
	return []string{s}, nil
}
func (b *Bool) Not() (Value, error) { return NewBool(!b.Val), nil }
func (b *Bool) LogicalAnd(other Value) (Value, error) {
	o, err := toBool(other)
	if err != nil {
		return nil, err
	}
	return NewBool(b.Val && o), nil
}
func (b *Bool) LogicalOr(other Value) (Value, error) {
	o, err := toBool(other)
	if err != nil {
		return nil, err
	}
	return NewBool(b.Val || o), nil
}

func toBool(v Value) (bool, error) {
	c, ok := v.(Converter)
	if !ok {
		return false, shpperr.IncompatibleTypef(Pos{}, "%s has no boolean conversion", v.Kind())
	}
	return c.ToBool()
}
