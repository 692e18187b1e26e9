package object

import (
	"strings"

	"github.com/shpp-lang/shpp/internal/shpperr"
)

// Array is Shell++'s mutable sequence value.
type Array struct {
	base
	Elems []Value
}

func NewArray(elems []Value) *Array { return &Array{Elems: elems} }

func (a *Array) Kind() Kind            { return KindArray }
func (a *Array) Type() *TypeDescriptor { return ArrayType }

func (a *Array) Equal(other Value) bool {
	o, ok := other.(*Array)
	if !ok || len(o.Elems) != len(a.Elems) {
		return false
	}
	for i, e := range a.Elems {
		eq, ok := e.(Equaler)
		if !ok || !eq.Equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

func (a *Array) ToBool() (bool, error) { return len(a.Elems) > 0, nil }
func (a *Array) ToStr() (string, error) {
	return a.Print()
}
func (a *Array) Print() (string, error) {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		p, ok := e.(Printer)
		if !ok {
			return "", shpperr.IncompatibleTypef(Pos{}, "%s has no print representation", e.Kind())
		}
		s, err := p.Print()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}
func (a *Array) ToCmd() ([]string, error) {
	var out []string
	for _, e := range a.Elems {
		c, ok := e.(Converter)
		if !ok {
			return nil, shpperr.IncompatibleTypef(Pos{}, "%s cannot appear in command position", e.Kind())
		}
		words, err := c.ToCmd()
		if err != nil {
			return nil, err
		}
		out = append(out, words...)
	}
	return out, nil
}

func (a *Array) Add(other Value) (Value, error) {
	o, ok := other.(*Array)
	if !ok {
		return nil, incompatible("array", "+", other)
	}
	combined := make([]Value, 0, len(a.Elems)+len(o.Elems))
	combined = append(combined, a.Elems...)
	combined = append(combined, o.Elems...)
	return NewArray(combined), nil
}

func (a *Array) Len() int { return len(a.Elems) }

func (a *Array) GetItem(key Value) (Value, error) {
	idx, err := indexOf(key, len(a.Elems))
	if err != nil {
		return nil, err
	}
	return a.Elems[idx], nil
}
func (a *Array) SetItem(key, val Value) error {
	idx, err := indexOf(key, len(a.Elems))
	if err != nil {
		return err
	}
	a.Elems[idx] = val
	return nil
}
func (a *Array) DelItem(key Value) error {
	idx, err := indexOf(key, len(a.Elems))
	if err != nil {
		return err
	}
	a.Elems = append(a.Elems[:idx], a.Elems[idx+1:]...)
	return nil
}
func (a *Array) Contains(key Value) (bool, error) {
	for _, e := range a.Elems {
		eq, ok := e.(Equaler)
		if ok && eq.Equal(key) {
			return true, nil
		}
	}
	return false, nil
}

func (a *Array) Slice(low, high, step int) (Value, error) {
	if step == 0 {
		return nil, shpperr.ZeroDivf(Pos{}, "slice step must not be zero")
	}
	var out []Value
	if step > 0 {
		for i := low; i < high && i < len(a.Elems); i += step {
			if i >= 0 {
				out = append(out, a.Elems[i])
			}
		}
	} else {
		for i := low; i > high && i >= 0; i += step {
			if i < len(a.Elems) {
				out = append(out, a.Elems[i])
			}
		}
	}
	return NewArray(out), nil
}

func (a *Array) Iter() (Iterator, error) {
	return &arrayIter{elems: a.Elems}, nil
}

type arrayIter struct {
	elems []Value
	pos   int
}

func (it *arrayIter) HasNext() bool { return it.pos < len(it.elems) }
func (it *arrayIter) Next() (Value, error) {
	if !it.HasNext() {
		return nil, shpperr.OutOfRangef(Pos{}, "iterator exhausted")
	}
	v := it.elems[it.pos]
	it.pos++
	return v, nil
}

// Tuple is Array's immutable counterpart; it shares element storage
// semantics but rejects mutation, exactly like Str.
type Tuple struct {
	base
	Elems []Value
}

func NewTuple(elems []Value) *Tuple { return &Tuple{Elems: elems} }

func (t *Tuple) Kind() Kind            { return KindTuple }
func (t *Tuple) Type() *TypeDescriptor { return TupleType }

func (t *Tuple) Equal(other Value) bool {
	o, ok := other.(*Tuple)
	if !ok || len(o.Elems) != len(t.Elems) {
		return false
	}
	for i, e := range t.Elems {
		eq, ok := e.(Equaler)
		if !ok || !eq.Equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

func (t *Tuple) ToBool() (bool, error) { return len(t.Elems) > 0, nil }
func (t *Tuple) Print() (string, error) {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		p, ok := e.(Printer)
		if !ok {
			return "", shpperr.IncompatibleTypef(Pos{}, "%s has no print representation", e.Kind())
		}
		s, err := p.Print()
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}
func (t *Tuple) ToStr() (string, error) { return t.Print() }

func (t *Tuple) Len() int { return len(t.Elems) }
func (t *Tuple) GetItem(key Value) (Value, error) {
	idx, err := indexOf(key, len(t.Elems))
	if err != nil {
		return nil, err
	}
	return t.Elems[idx], nil
}
func (t *Tuple) SetItem(Value, Value) error {
	return shpperr.IncompatibleTypef(Pos{}, "tuple is immutable")
}
func (t *Tuple) DelItem(Value) error {
	return shpperr.IncompatibleTypef(Pos{}, "tuple is immutable")
}
func (t *Tuple) Contains(key Value) (bool, error) {
	for _, e := range t.Elems {
		eq, ok := e.(Equaler)
		if ok && eq.Equal(key) {
			return true, nil
		}
	}
	return false, nil
}
func (t *Tuple) Slice(low, high, step int) (Value, error) {
	arr, err := (&Array{Elems: t.Elems}).Slice(low, high, step)
	if err != nil {
		return nil, err
	}
	return NewTuple(arr.(*Array).Elems), nil
}
func (t *Tuple) Iter() (Iterator, error) { return &arrayIter{elems: t.Elems}, nil }
