package object

import (
	"sort"
	"strings"

	"github.com/shpp-lang/shpp/internal/shpperr"
)

// mapEntry is one bucket slot; buckets chain on hash collision the way a
// hand-rolled hashmap over an arbitrary Value key needs to, since Go maps
// cannot key on an interface whose equality is user-overridable (§4.5's
// __hash__/__eq__ dunders on declared-class instances).
type mapEntry struct {
	key, val Value
}

// Map is Shell++'s hash map, keyed by any Value whose Hasher/Equaler
// capabilities are implemented.
type Map struct {
	base
	buckets map[int64][]mapEntry
	size    int
}

func NewMap() *Map { return &Map{buckets: map[int64][]mapEntry{}} }

func (m *Map) Kind() Kind            { return KindMap }
func (m *Map) Type() *TypeDescriptor { return MapType }

func (m *Map) hashKey(key Value) (int64, error) {
	h, ok := key.(Hasher)
	if !ok {
		return 0, shpperr.IncompatibleTypef(Pos{}, "%s is not hashable", key.Kind())
	}
	return h.Hash()
}

func (m *Map) Len() int { return m.size }

func (m *Map) GetItem(key Value) (Value, error) {
	h, err := m.hashKey(key)
	if err != nil {
		return nil, err
	}
	eq, ok := key.(Equaler)
	if !ok {
		return nil, shpperr.IncompatibleTypef(Pos{}, "%s is not comparable", key.Kind())
	}
	for _, e := range m.buckets[h] {
		if eq.Equal(e.key) {
			return e.val, nil
		}
	}
	return nil, shpperr.KeyNotFoundf(Pos{}, "key not found")
}

func (m *Map) SetItem(key, val Value) error {
	h, err := m.hashKey(key)
	if err != nil {
		return err
	}
	eq, ok := key.(Equaler)
	if !ok {
		return shpperr.IncompatibleTypef(Pos{}, "%s is not comparable", key.Kind())
	}
	bucket := m.buckets[h]
	for i, e := range bucket {
		if eq.Equal(e.key) {
			bucket[i].val = val
			return nil
		}
	}
	m.buckets[h] = append(bucket, mapEntry{key: key, val: val})
	m.size++
	return nil
}

func (m *Map) DelItem(key Value) error {
	h, err := m.hashKey(key)
	if err != nil {
		return err
	}
	eq, ok := key.(Equaler)
	if !ok {
		return shpperr.IncompatibleTypef(Pos{}, "%s is not comparable", key.Kind())
	}
	bucket := m.buckets[h]
	for i, e := range bucket {
		if eq.Equal(e.key) {
			m.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			m.size--
			return nil
		}
	}
	return shpperr.KeyNotFoundf(Pos{}, "key not found")
}

func (m *Map) Contains(key Value) (bool, error) {
	_, err := m.GetItem(key)
	if err != nil {
		if rerr, ok := err.(*shpperr.RuntimeError); ok && rerr.Kind == shpperr.KeyNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// entries returns a deterministically-ordered snapshot (sorted by hash,
// then insertion order within a bucket) so iteration and printing are
// stable across runs, matching the teacher's habit of sorting map output
// in report.go rather than depending on native map ordering.
func (m *Map) entries() []mapEntry {
	hashes := make([]int64, 0, len(m.buckets))
	for h := range m.buckets {
		hashes = append(hashes, h)
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	var out []mapEntry
	for _, h := range hashes {
		out = append(out, m.buckets[h]...)
	}
	return out
}

func (m *Map) Equal(other Value) bool {
	o, ok := other.(*Map)
	if !ok || o.size != m.size {
		return false
	}
	for _, e := range m.entries() {
		ov, err := o.GetItem(e.key)
		if err != nil {
			return false
		}
		eq, ok := e.val.(Equaler)
		if !ok || !eq.Equal(ov) {
			return false
		}
	}
	return true
}

func (m *Map) ToBool() (bool, error) { return m.size > 0, nil }

func (m *Map) Print() (string, error) {
	var parts []string
	for _, e := range m.entries() {
		kp, ok := e.key.(Printer)
		if !ok {
			return "", shpperr.IncompatibleTypef(Pos{}, "%s has no print representation", e.key.Kind())
		}
		vp, ok := e.val.(Printer)
		if !ok {
			return "", shpperr.IncompatibleTypef(Pos{}, "%s has no print representation", e.val.Kind())
		}
		ks, err := kp.Print()
		if err != nil {
			return "", err
		}
		vs, err := vp.Print()
		if err != nil {
			return "", err
		}
		parts = append(parts, ks+": "+vs)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}
func (m *Map) ToStr() (string, error) { return m.Print() }

func (m *Map) Iter() (Iterator, error) {
	entries := m.entries()
	keys := make([]Value, len(entries))
	for i, e := range entries {
		keys[i] = e.key
	}
	return &arrayIter{elems: keys}, nil
}
