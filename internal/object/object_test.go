package object

import "testing"

func TestIntArithmetic(t *testing.T) {
	a, b := NewInt(7), NewInt(2)

	sum, err := a.Add(b)
	if err != nil {
		t.Fatal(err)
	}
	if sum.(*Int).Val != 9 {
		t.Fatalf("7+2 = %d, want 9", sum.(*Int).Val)
	}

	quot, err := a.Div(b)
	if err != nil {
		t.Fatal(err)
	}
	if quot.(*Int).Val != 3 {
		t.Fatalf("7/2 = %d, want 3", quot.(*Int).Val)
	}

	if _, err := a.Div(NewInt(0)); err == nil {
		t.Fatal("expected ZERO_DIV error dividing by zero")
	}
}

func TestIntRealMixedArithmetic(t *testing.T) {
	sum, err := NewInt(2).Add(NewReal(0.5))
	if err != nil {
		t.Fatal(err)
	}
	r, ok := sum.(*Real)
	if !ok || r.Val != 2.5 {
		t.Fatalf("2+0.5 = %v, want real 2.5", sum)
	}
}

func TestStrIndexingAndSlicing(t *testing.T) {
	s := NewStr("hello")

	c, err := s.GetItem(NewInt(-1))
	if err != nil {
		t.Fatal(err)
	}
	if c.(*Str).Val != "o" {
		t.Fatalf("s[-1] = %q, want %q", c.(*Str).Val, "o")
	}

	sliced, err := s.Slice(1, 4, 1)
	if err != nil {
		t.Fatal(err)
	}
	if sliced.(*Str).Val != "ell" {
		t.Fatalf("s[1:4] = %q, want %q", sliced.(*Str).Val, "ell")
	}

	if _, err := s.GetItem(NewInt(10)); err == nil {
		t.Fatal("expected OUT_OF_RANGE error")
	}
}

func TestArrayMutation(t *testing.T) {
	arr := NewArray([]Value{NewInt(1), NewInt(2), NewInt(3)})

	if err := arr.SetItem(NewInt(1), NewStr("x")); err != nil {
		t.Fatal(err)
	}
	got, _ := arr.GetItem(NewInt(1))
	if got.(*Str).Val != "x" {
		t.Fatalf("arr[1] = %v, want %q", got, "x")
	}

	if err := arr.DelItem(NewInt(0)); err != nil {
		t.Fatal(err)
	}
	if arr.Len() != 2 {
		t.Fatalf("len after delete = %d, want 2", arr.Len())
	}
}

func TestMapBasics(t *testing.T) {
	m := NewMap()
	if err := m.SetItem(NewStr("a"), NewInt(1)); err != nil {
		t.Fatal(err)
	}
	if err := m.SetItem(NewStr("b"), NewInt(2)); err != nil {
		t.Fatal(err)
	}

	v, err := m.GetItem(NewStr("a"))
	if err != nil {
		t.Fatal(err)
	}
	if v.(*Int).Val != 1 {
		t.Fatalf("m[a] = %d, want 1", v.(*Int).Val)
	}

	ok, err := m.Contains(NewStr("z"))
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("map should not contain key z")
	}

	if err := m.DelItem(NewStr("a")); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 {
		t.Fatalf("len after delete = %d, want 1", m.Len())
	}
}

func TestTupleIsImmutable(t *testing.T) {
	tup := NewTuple([]Value{NewInt(1), NewInt(2)})
	if err := tup.SetItem(NewInt(0), NewInt(9)); err == nil {
		t.Fatal("expected error setting item on a tuple")
	}
}

func TestTypeDescriptorSearchAttr(t *testing.T) {
	base := &TypeDescriptor{Name: "Base", Attrs: map[string]Value{"greet": NewStr("hi")}}
	derived := &TypeDescriptor{Name: "Derived", Base: base, Attrs: map[string]Value{}}

	v, ok := derived.SearchAttr("greet")
	if !ok || v.(*Str).Val != "hi" {
		t.Fatalf("expected inherited attribute, got %v ok=%v", v, ok)
	}

	if _, ok := derived.SearchAttr("missing"); ok {
		t.Fatal("expected missing attribute lookup to fail")
	}
}

func TestAddAbstractMethodGuards(t *testing.T) {
	concrete := &TypeDescriptor{Name: "Concrete", Attrs: map[string]Value{}}
	if err := concrete.AddAbstractMethod("run", AbstractSignature{}); err == nil {
		t.Fatal("expected error adding abstract method to a non-abstract type")
	}

	abs := &TypeDescriptor{Name: "Abstract", Abstract: true, Attrs: map[string]Value{"run": NewInt(1)}}
	if err := abs.AddAbstractMethod("run", AbstractSignature{}); err == nil {
		t.Fatal("expected error colliding with a concrete attribute")
	}

	abs2 := &TypeDescriptor{Name: "Abstract2", Abstract: true, Attrs: map[string]Value{}}
	if err := abs2.AddAbstractMethod("run", AbstractSignature{NumParams: 1}); err != nil {
		t.Fatal(err)
	}
	if err := abs2.AddAbstractMethod("run", AbstractSignature{NumParams: 1}); err == nil {
		t.Fatal("expected error re-declaring the same abstract method")
	}
}

func TestAbstractSignatureCompatible(t *testing.T) {
	sig := AbstractSignature{NumParams: 2, NumDefaultParams: 1, Variadic: false}
	if !sig.Compatible(AbstractSignature{NumParams: 2, NumDefaultParams: 0, Variadic: false}) {
		t.Fatal("non-variadic signatures should compare by NumParams and Variadic only")
	}
	if sig.Compatible(AbstractSignature{NumParams: 3}) {
		t.Fatal("mismatched NumParams should not be compatible")
	}

	variadicSig := AbstractSignature{NumParams: 1, NumDefaultParams: 0, Variadic: true}
	if !variadicSig.Compatible(AbstractSignature{NumParams: 1, NumDefaultParams: 0, Variadic: true}) {
		t.Fatal("identical variadic signatures should be compatible")
	}
	if variadicSig.Compatible(AbstractSignature{NumParams: 1, NumDefaultParams: 1, Variadic: true}) {
		t.Fatal("variadic signatures must match all three fields")
	}
}

func TestInstanceDunderDispatch(t *testing.T) {
	pointType := &TypeDescriptor{Name: "Point", Declared: true, Attrs: map[string]Value{}}
	pointType.Attrs["__add__"] = NewNativeFunc("__add__", 2, false, func(args []Value, _ map[string]Value) (Value, error) {
		self := args[0].(*Instance)
		other := args[1].(*Instance)
		sx, _ := self.Attr("x")
		ox, _ := other.Attr("x")
		result := NewInstance(pointType)
		sum, err := sx.(*Int).Add(ox)
		if err != nil {
			return nil, err
		}
		ref, _ := result.AttrRef("x")
		_ = ref.Set(sum)
		return result, nil
	})

	a := NewInstance(pointType)
	aRef, _ := a.AttrRef("x")
	_ = aRef.Set(NewInt(3))

	b := NewInstance(pointType)
	bRef, _ := b.AttrRef("x")
	_ = bRef.Set(NewInt(4))

	sum, err := a.Add(b)
	if err != nil {
		t.Fatal(err)
	}
	sumInst := sum.(*Instance)
	x, _ := sumInst.Attr("x")
	if x.(*Int).Val != 7 {
		t.Fatalf("point sum x = %v, want 7", x)
	}
}

func TestInstanceMissingDunderIsIncompatibleType(t *testing.T) {
	emptyType := &TypeDescriptor{Name: "Empty", Declared: true, Attrs: map[string]Value{}}
	inst := NewInstance(emptyType)
	if _, err := inst.Add(NewInt(1)); err == nil {
		t.Fatal("expected INCOMPATIBLE_TYPE for missing __add__")
	}
}

func TestInstanceStaticMethodNotBound(t *testing.T) {
	typ := &TypeDescriptor{Name: "T", Declared: true, Attrs: map[string]Value{}}
	staticFn := NewNativeFunc("helper", 0, false, func([]Value, map[string]Value) (Value, error) {
		return NewInt(1), nil
	})
	staticFn.Declared = true
	staticFn.Static = true
	typ.Attrs["helper"] = staticFn

	inst := NewInstance(typ)
	if _, ok := inst.Attr("helper"); ok {
		t.Fatal("a static method should not resolve as an instance attribute")
	}
}

func TestWrapperFuncPrependsSelf(t *testing.T) {
	fn := NewNativeFunc("m", 1, false, func(args []Value, _ map[string]Value) (Value, error) {
		return args[0], nil
	})
	self := NewStr("me")
	wrapper := NewWrapperFunc(fn, self)

	result, err := wrapper.Call(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.(*Str).Val != "me" {
		t.Fatalf("bound call did not prepend self: got %v", result)
	}
}
