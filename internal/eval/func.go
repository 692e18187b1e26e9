package eval

import (
	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/scope"
	"github.com/shpp-lang/shpp/internal/shpperr"
)

// declareFunc lowers an ast.FuncDecl into a callable object.Func,
// snapshotting the declaring executor's scope stack as the closure
// environment (§4.6 "Closures").
func (e *executor) declareFunc(n *ast.FuncDecl) (*object.Func, error) {
	numDefault := 0
	for _, p := range n.Params {
		if p.Default != nil {
			numDefault++
		}
	}
	variadic := len(n.Params) > 0 && n.Params[len(n.Params)-1].Variadic

	closureEnv := e.scope.Snapshot()
	fn := object.NewDeclaredFunc(n.Name, len(n.Params), numDefault, variadic, n.Static, n, closureEnv, e.in.invokeDeclared)
	if n.Abstract {
		// Abstract declarations carry no body; callers only ever consult
		// their signature via class.Member, never Call them.
		fn.AST = n
	}
	return fn, nil
}

// declareFuncLit lowers an anonymous function/lambda expression the same
// way, minus the name and static/abstract flags a class body allows.
func (e *executor) declareFuncLit(n *ast.FuncLit) *object.Func {
	numDefault := 0
	for _, p := range n.Params {
		if p.Default != nil {
			numDefault++
		}
	}
	closureEnv := e.scope.Snapshot()
	return object.NewDeclaredFunc("<lambda>", len(n.Params), numDefault, len(n.Params) > 0 && n.Params[len(n.Params)-1].Variadic, false, n, closureEnv, e.in.invokeDeclared)
}

// invokeDeclared is the invoke callback every declared object.Func is
// built with: push a fresh scope containing the parameter bindings over
// the closure snapshot, then evaluate the body in a function executor
// (§4.6). It is a method on *Interp (not *executor) because a function
// may be called from an executor far removed from the one that declared
// it — the closure snapshot, not the caller's scope, is what matters.
func (in *Interp) invokeDeclared(fn *object.Func, args []object.Value, kwargs map[string]object.Value) (object.Value, error) {
	decl, ok := fn.AST.(*ast.FuncDecl)
	var params []ast.Param
	var body []ast.Stmt
	if ok {
		params = decl.Params
		body = decl.Body
	} else if lit, ok := fn.AST.(*ast.FuncLit); ok {
		params = lit.Params
		body = lit.Body
	} else {
		return nil, shpperr.IncompatibleTypef(object.Pos{}, "function %q has no body", fn.Name)
	}
	if body == nil {
		return nil, shpperr.IncompatibleTypef(object.Pos{}, "abstract method %q has no implementation", fn.Name)
	}

	env, ok := fn.Env.(*scope.Stack)
	if !ok {
		return nil, shpperr.IncompatibleTypef(object.Pos{}, "function %q lost its closure environment", fn.Name)
	}
	callStack := env.Snapshot()
	callEx := newExecutor(in, callStack, nil)
	fnEx := callEx.child()
	defer fnEx.pop()

	if err := bindParams(fnEx, params, args, kwargs); err != nil {
		return nil, err
	}

	sig, err := fnEx.execBlock(body)
	if err != nil {
		return nil, err
	}
	if sig != nil && sig.kind == sigReturn {
		return sig.value, nil
	}
	return object.TheNull, nil
}

func bindParams(ex *executor, params []ast.Param, args []object.Value, kwargs map[string]object.Value) error {
	variadic := len(params) > 0 && params[len(params)-1].Variadic
	fixed := params
	if variadic {
		fixed = params[:len(params)-1]
	}

	for i, p := range fixed {
		var val object.Value
		switch {
		case i < len(args):
			val = args[i]
		case kwargs != nil && kwargs[p.Name] != nil:
			val = kwargs[p.Name]
		case p.Default != nil:
			v, err := ex.evalExpr(p.Default)
			if err != nil {
				return err
			}
			val = v
		default:
			return shpperr.FuncParamsf(object.Pos{}, "missing required argument %q", p.Name)
		}
		if err := ex.scope.Insert(p.Name, val); err != nil {
			return err
		}
	}

	if variadic {
		rest := params[len(params)-1]
		var extra []object.Value
		if len(args) > len(fixed) {
			extra = append(extra, args[len(fixed):]...)
		}
		if err := ex.scope.Insert(rest.Name, object.NewArray(extra)); err != nil {
			return err
		}
	} else if len(args) > len(fixed) {
		return shpperr.FuncParamsf(object.Pos{}, "too many arguments: got %d, want %d", len(args), len(fixed))
	}
	return nil
}
