package object

import "github.com/shpp-lang/shpp/internal/shpperr"

// Func is Shell++'s callable value. It stays deliberately ignorant of
// internal/ast and internal/scope's concrete types — AST and Env are
// opaque to this package and type-asserted back by internal/eval, which
// is the only package that needs to walk a function body against a
// closure scope. This keeps the package dependency order acyclic
// (procexec -> object -> scope -> types -> class -> eval) while still
// letting object.Func satisfy the Caller capability.
type Func struct {
	base
	Name             string
	NumParams        int
	NumDefaultParams int
	Variadic         bool
	Static           bool
	Declared         bool

	AST interface{} // *ast.FuncDecl or *ast.FuncLit
	Env interface{} // closure environment, e.g. *scope.Stack

	invoke func(fn *Func, args []Value, kwargs map[string]Value) (Value, error)
}

// Signature reports this function's shape as an AbstractSignature, for
// checking against an inherited abstract method (§4.4 step 5).
func (f *Func) Signature() AbstractSignature {
	return AbstractSignature{
		NumParams:        f.NumParams,
		NumDefaultParams: f.NumDefaultParams,
		Variadic:         f.Variadic,
	}
}

func (f *Func) Kind() Kind            { return KindFunc }
func (f *Func) Type() *TypeDescriptor { return FuncType }

func (f *Func) Call(args []Value, kwargs map[string]Value) (Value, error) {
	if f.invoke == nil {
		return nil, shpperr.IncompatibleTypef(Pos{}, "function %q has no implementation bound", f.Name)
	}
	return f.invoke(f, args, kwargs)
}

func (f *Func) ToBool() (bool, error)  { return true, nil }
func (f *Func) ToStr() (string, error) { return "<func " + f.Name + ">", nil }
func (f *Func) Print() (string, error) { return f.ToStr() }

// NewNativeFunc builds a built-in function backed by a Go closure, for
// attributes such as dunder methods or Module entries that Go code
// supplies. internal/builtins' shell commands are procexec.BuiltinCommand
// closures instead, and internal/types registers TypeValues, not Funcs.
func NewNativeFunc(name string, numParams int, variadic bool, impl func(args []Value, kwargs map[string]Value) (Value, error)) *Func {
	f := &Func{Name: name, NumParams: numParams, Variadic: variadic}
	f.invoke = func(_ *Func, args []Value, kwargs map[string]Value) (Value, error) {
		return impl(args, kwargs)
	}
	return f
}

// NewDeclaredFunc builds a user-declared function whose body will be
// executed by invoke against astNode/env — internal/eval supplies invoke
// when it lowers an ast.FuncDecl/ast.FuncLit into a callable value.
func NewDeclaredFunc(name string, numParams, numDefaultParams int, variadic, static bool, astNode, env interface{}, invoke func(fn *Func, args []Value, kwargs map[string]Value) (Value, error)) *Func {
	return &Func{
		Name:             name,
		NumParams:        numParams,
		NumDefaultParams: numDefaultParams,
		Variadic:         variadic,
		Static:           static,
		Declared:         true,
		AST:              astNode,
		Env:              env,
		invoke:           invoke,
	}
}

// WrapperFunc is §3's bound method: a function value paired with a self
// value, prepending self to positional arguments on Call.
type WrapperFunc struct {
	base
	Fn   *Func
	Self Value
}

func NewWrapperFunc(fn *Func, self Value) *WrapperFunc {
	return &WrapperFunc{Fn: fn, Self: self}
}

func (w *WrapperFunc) Kind() Kind            { return KindWrapperFunc }
func (w *WrapperFunc) Type() *TypeDescriptor { return WrapperType }

func (w *WrapperFunc) Call(args []Value, kwargs map[string]Value) (Value, error) {
	full := make([]Value, 0, len(args)+1)
	full = append(full, w.Self)
	full = append(full, args...)
	return w.Fn.Call(full, kwargs)
}

func (w *WrapperFunc) ToBool() (bool, error)  { return true, nil }
func (w *WrapperFunc) ToStr() (string, error) { return "<bound method " + w.Fn.Name + ">", nil }
func (w *WrapperFunc) Print() (string, error) { return w.ToStr() }
