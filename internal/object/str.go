package object

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/shpp-lang/shpp/internal/shpperr"
)

type Str struct {
	base
	Val string
}

func NewStr(v string) *Str { return &Str{Val: v} }

func (s *Str) Kind() Kind            { return KindString }
func (s *Str) Type() *TypeDescriptor { return StringType }

func (s *Str) Equal(other Value) bool {
	o, ok := other.(*Str)
	return ok && o.Val == s.Val
}

func (s *Str) Hash() (int64, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.Val))
	return int64(h.Sum64() &^ (1 << 63)), nil
}

func (s *Str) ToBool() (bool, error)  { return s.Val != "", nil }
func (s *Str) ToStr() (string, error) { return s.Val, nil }
func (s *Str) Print() (string, error) { return s.Val, nil }
func (s *Str) ToInt() (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s.Val), 10, 64)
	if err != nil {
		return 0, shpperr.IncompatibleTypef(Pos{}, "cannot convert %q to int", s.Val)
	}
	return n, nil
}
func (s *Str) ToReal() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s.Val), 64)
	if err != nil {
		return 0, shpperr.IncompatibleTypef(Pos{}, "cannot convert %q to real", s.Val)
	}
	return f, nil
}
func (s *Str) ToCmd() ([]string, error) { return []string{s.Val}, nil }

func (s *Str) Add(other Value) (Value, error) {
	o, ok := other.(*Str)
	if !ok {
		return nil, incompatible("string", "+", other)
	}
	return NewStr(s.Val + o.Val), nil
}
func (s *Str) Mul(other Value) (Value, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, incompatible("string", "*", other)
	}
	if o.Val < 0 {
		return nil, shpperr.OutOfRangef(Pos{}, "string repeat count must be non-negative, got %d", o.Val)
	}
	return NewStr(strings.Repeat(s.Val, int(o.Val))), nil
}

func (s *Str) Lt(other Value) (bool, error) { return strCompare(s, other, "<") }
func (s *Str) Gt(other Value) (bool, error) { return strCompare(s, other, ">") }
func (s *Str) Le(other Value) (bool, error) { return strCompare(s, other, "<=") }
func (s *Str) Ge(other Value) (bool, error) { return strCompare(s, other, ">=") }

func strCompare(a *Str, b Value, op string) (bool, error) {
	o, ok := b.(*Str)
	if !ok {
		return false, incompatible("string", op, b)
	}
	switch op {
	case "<":
		return a.Val < o.Val, nil
	case ">":
		return a.Val > o.Val, nil
	case "<=":
		return a.Val <= o.Val, nil
	case ">=":
		return a.Val >= o.Val, nil
	}
	return false, nil
}

func (s *Str) Len() int { return len([]rune(s.Val)) }

func (s *Str) GetItem(key Value) (Value, error) {
	idx, err := indexOf(key, s.Len())
	if err != nil {
		return nil, err
	}
	r := []rune(s.Val)
	return NewStr(string(r[idx])), nil
}
func (s *Str) SetItem(Value, Value) error {
	return shpperr.IncompatibleTypef(Pos{}, "string is immutable")
}
func (s *Str) DelItem(Value) error {
	return shpperr.IncompatibleTypef(Pos{}, "string is immutable")
}
func (s *Str) Contains(key Value) (bool, error) {
	sub, ok := key.(*Str)
	if !ok {
		return false, incompatible("string", "in", key)
	}
	return strings.Contains(s.Val, sub.Val), nil
}

func (s *Str) Slice(low, high, step int) (Value, error) {
	r := []rune(s.Val)
	sliced, err := sliceRunes(r, low, high, step)
	if err != nil {
		return nil, err
	}
	return NewStr(string(sliced)), nil
}

func (s *Str) Iter() (Iterator, error) {
	return &strIter{runes: []rune(s.Val)}, nil
}

type strIter struct {
	runes []rune
	pos   int
}

func (it *strIter) HasNext() bool { return it.pos < len(it.runes) }
func (it *strIter) Next() (Value, error) {
	if !it.HasNext() {
		return nil, shpperr.OutOfRangef(Pos{}, "iterator exhausted")
	}
	v := NewStr(string(it.runes[it.pos]))
	it.pos++
	return v, nil
}

// indexOf resolves a possibly-negative index against length n (Python/bash
// style negative indexing), bounds-checking per §4.1's OUT_OF_RANGE rule.
func indexOf(key Value, n int) (int, error) {
	iv, ok := key.(*Int)
	if !ok {
		return 0, shpperr.IncompatibleTypef(Pos{}, "index must be int, got %s", key.Kind())
	}
	idx := int(iv.Val)
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, shpperr.OutOfRangef(Pos{}, "index %d out of range for length %d", iv.Val, n)
	}
	return idx, nil
}

// sliceRunes resolves low:high:step against a rune slice using the
// already-normalized bounds contract expected from internal/eval (which
// applies Python-style slice defaulting before calling in).
func sliceRunes(r []rune, low, high, step int) ([]rune, error) {
	if step == 0 {
		return nil, shpperr.ZeroDivf(Pos{}, "slice step must not be zero")
	}
	var out []rune
	if step > 0 {
		for i := low; i < high && i < len(r); i += step {
			if i >= 0 {
				out = append(out, r[i])
			}
		}
	} else {
		for i := low; i > high && i >= 0; i += step {
			if i < len(r) {
				out = append(out, r[i])
			}
		}
	}
	return out, nil
}
