package object

import "github.com/shpp-lang/shpp/internal/shpperr"

// Null is Shell++'s single null value; every reference compares equal.
type Null struct{ base }

var TheNull = &Null{}

func (n *Null) Kind() Kind                 { return KindNull }
func (n *Null) Type() *TypeDescriptor      { return NullType }
func (n *Null) Equal(other Value) bool     { _, ok := other.(*Null); return ok }
func (n *Null) Hash() (int64, error)       { return 0, nil }
func (n *Null) ToBool() (bool, error)      { return false, nil }
func (n *Null) ToStr() (string, error)     { return "null", nil }
func (n *Null) Print() (string, error)     { return "null", nil }
func (n *Null) ToInt() (int64, error) {
	return 0, shpperr.IncompatibleTypef(Pos{}, "cannot convert null to int")
}
func (n *Null) ToReal() (float64, error) {
	return 0, shpperr.IncompatibleTypef(Pos{}, "cannot convert null to real")
}
func (n *Null) ToCmd() ([]string, error) {
	return nil, shpperr.IncompatibleTypef(Pos{}, "cannot convert null to command arguments")
}
