package eval

import (
	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/scope"
	"github.com/shpp-lang/shpp/internal/shpperr"
)

// execBlock runs stmts in e's own scope (the caller is responsible for
// having already pushed/popped whatever scope this block should run in),
// stopping early and propagating a non-nil signal the moment one occurs.
func (e *executor) execBlock(stmts []ast.Stmt) (*signal, error) {
	for _, st := range stmts {
		sig, err := e.execStmt(st)
		if err != nil {
			return nil, err
		}
		if sig != nil && sig.kind != sigNone {
			return sig, nil
		}
	}
	return nil, nil
}

// runBlockInChildScope pushes a fresh scope, runs stmts, then pops it
// (running any defers registered during the block) — the shape every
// if/while/for/function body shares.
func (e *executor) runBlockInChildScope(stmts []ast.Stmt) (*signal, error) {
	child := e.child()
	defer child.pop()
	return child.execBlock(stmts)
}

func (e *executor) execStmt(st ast.Stmt) (*signal, error) {
	switch n := st.(type) {
	case *ast.ExprStmt:
		_, err := e.evalExpr(n.X)
		return nil, err

	case *ast.Assign:
		return nil, e.execAssign(n)

	case *ast.If:
		return e.execIf(n)

	case *ast.While:
		return e.execWhile(n)

	case *ast.For:
		return e.execFor(n)

	case *ast.Return:
		var v object.Value = object.TheNull
		if n.Value != nil {
			var err error
			v, err = e.evalExpr(n.Value)
			if err != nil {
				return nil, err
			}
		}
		return &signal{kind: sigReturn, value: v}, nil

	case *ast.Break:
		return &signal{kind: sigBreak}, nil

	case *ast.Continue:
		return &signal{kind: sigContinue}, nil

	case *ast.Defer:
		e.defers = append(e.defers, deferred{stmt: n.Stmt, ex: e})
		return nil, nil

	case *ast.FuncDecl:
		fn, err := e.declareFunc(n)
		if err != nil {
			return nil, err
		}
		return nil, e.scope.Insert(n.Name, fn)

	case *ast.ClassDecl:
		return nil, e.execClassDecl(n)

	case *ast.IfaceDecl:
		return nil, e.execIfaceDecl(n)

	case *ast.CommandStmt:
		_, err := e.execCommand(n)
		return nil, err

	default:
		return nil, shpperr.Customf(st.Position(), "unsupported statement %T", st)
	}
}

func (e *executor) execAssign(n *ast.Assign) error {
	values := make([]object.Value, len(n.Values))
	for i, ve := range n.Values {
		v, err := e.evalExpr(ve)
		if err != nil {
			return err
		}
		values[i] = v
	}
	// A single value assigned to multiple targets unpacks a tuple/array;
	// otherwise targets and values must have matching arity.
	if len(n.Targets) > 1 && len(values) == 1 {
		unpacked, err := unpackAssignable(n.Position(), values[0], len(n.Targets))
		if err != nil {
			return err
		}
		values = unpacked
	}
	if len(values) != len(n.Targets) {
		return shpperr.FuncParamsf(n.Position(), "assignment mismatch: %d targets, %d values", len(n.Targets), len(values))
	}
	for i, target := range n.Targets {
		val := values[i]
		if n.Op != "" && n.Op != "=" {
			ref, err := e.exprRef(target)
			if err != nil {
				return err
			}
			combined, err := applyCompoundOp(n.Op, ref.Get(), val)
			if err != nil {
				return err
			}
			if err := ref.Set(combined); err != nil {
				return err
			}
			continue
		}
		if err := e.assignTo(target, val); err != nil {
			return err
		}
	}
	return nil
}

func unpackAssignable(pos ast.Pos, v object.Value, n int) ([]object.Value, error) {
	var elems []object.Value
	switch c := v.(type) {
	case *object.Array:
		elems = c.Elems
	case *object.Tuple:
		elems = c.Elems
	default:
		return nil, shpperr.IncompatibleTypef(pos, "cannot unpack %s into %d targets", v.Kind(), n)
	}
	if len(elems) != n {
		return nil, shpperr.FuncParamsf(pos, "cannot unpack %d elements into %d targets", len(elems), n)
	}
	return elems, nil
}

// assignTo implements plain "=" assignment against every settable
// expression form: identifier, attribute, and index.
func (e *executor) assignTo(target ast.Expr, val object.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		ref := e.scope.LookupWritable(t.Name)
		return ref.Set(val)
	case *ast.Attribute:
		x, err := e.evalExpr(t.X)
		if err != nil {
			return err
		}
		ref, ok := x.AttrRef(t.Name)
		if !ok {
			return shpperr.IncompatibleTypef(t.Position(), "%s has no assignable attribute %q", x.Kind(), t.Name)
		}
		return ref.Set(val)
	case *ast.Slice:
		if !t.SingleElem {
			return shpperr.IncompatibleTypef(t.Position(), "cannot assign to a slice expression")
		}
		x, err := e.evalExpr(t.X)
		if err != nil {
			return err
		}
		key, err := e.evalExpr(t.Low)
		if err != nil {
			return err
		}
		c, ok := x.(object.Container)
		if !ok {
			return shpperr.IncompatibleTypef(t.Position(), "%s does not support item assignment", x.Kind())
		}
		return c.SetItem(key, val)
	default:
		return shpperr.IncompatibleTypef(target.Position(), "invalid assignment target")
	}
}

// exprRef resolves target to a Ref for compound-assignment operators
// (+=, -=, ...), which need to both read and write the same slot.
func (e *executor) exprRef(target ast.Expr) (object.Ref, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		return e.scope.LookupWritable(t.Name), nil
	case *ast.Attribute:
		x, err := e.evalExpr(t.X)
		if err != nil {
			return nil, err
		}
		ref, ok := x.AttrRef(t.Name)
		if !ok {
			return nil, shpperr.IncompatibleTypef(t.Position(), "%s has no assignable attribute %q", x.Kind(), t.Name)
		}
		return ref, nil
	case *ast.Slice:
		x, err := e.evalExpr(t.X)
		if err != nil {
			return nil, err
		}
		key, err := e.evalExpr(t.Low)
		if err != nil {
			return nil, err
		}
		c, ok := x.(object.Container)
		if !ok {
			return nil, shpperr.IncompatibleTypef(t.Position(), "%s does not support item assignment", x.Kind())
		}
		return object.NewRef(
			func() object.Value { v, _ := c.GetItem(key); return v },
			func(v object.Value) error { return c.SetItem(key, v) },
		), nil
	default:
		return nil, shpperr.IncompatibleTypef(target.Position(), "invalid assignment target")
	}
}

func applyCompoundOp(op string, cur, rhs object.Value) (object.Value, error) {
	switch op {
	case "+=":
		// Array += array extends the existing array in place, so every
		// holder of the shared array (a returned value, a closure) sees it.
		if arr, ok := cur.(*object.Array); ok {
			if o, ok := rhs.(*object.Array); ok {
				arr.Elems = append(arr.Elems, o.Elems...)
				return arr, nil
			}
		}
		a, ok := cur.(object.Adder)
		if !ok {
			return nil, incompatibleOp(cur, "+=")
		}
		return a.Add(rhs)
	case "-=":
		a, ok := cur.(object.Subber)
		if !ok {
			return nil, incompatibleOp(cur, "-=")
		}
		return a.Sub(rhs)
	case "*=":
		a, ok := cur.(object.Muler)
		if !ok {
			return nil, incompatibleOp(cur, "*=")
		}
		return a.Mul(rhs)
	case "/=":
		a, ok := cur.(object.Diver)
		if !ok {
			return nil, incompatibleOp(cur, "/=")
		}
		return a.Div(rhs)
	case "%=":
		a, ok := cur.(object.Moder)
		if !ok {
			return nil, incompatibleOp(cur, "%=")
		}
		return a.Mod(rhs)
	default:
		return nil, shpperr.IncompatibleTypef(object.Pos{}, "unsupported compound operator %q", op)
	}
}

func incompatibleOp(v object.Value, op string) error {
	return shpperr.IncompatibleTypef(object.Pos{}, "%s does not support %s", v.Kind(), op)
}

func (e *executor) execIf(n *ast.If) (*signal, error) {
	cond, err := e.evalExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	ok, err := truthy(cond)
	if err != nil {
		return nil, err
	}
	if ok {
		return e.runBlockInChildScope(n.Then)
	}
	for _, elif := range n.ElseIf {
		cond, err := e.evalExpr(elif.Cond)
		if err != nil {
			return nil, err
		}
		ok, err := truthy(cond)
		if err != nil {
			return nil, err
		}
		if ok {
			return e.runBlockInChildScope(elif.Then)
		}
	}
	if n.Else != nil {
		return e.runBlockInChildScope(n.Else)
	}
	return nil, nil
}

func (e *executor) execWhile(n *ast.While) (*signal, error) {
	for {
		cond, err := e.evalExpr(n.Cond)
		if err != nil {
			return nil, err
		}
		ok, err := truthy(cond)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
		sig, err := e.runBlockInChildScope(n.Body)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			switch sig.kind {
			case sigBreak:
				return nil, nil
			case sigContinue:
				continue
			default:
				return sig, nil
			}
		}
	}
}

func (e *executor) execFor(n *ast.For) (*signal, error) {
	iterVal, err := e.evalExpr(n.Iter)
	if err != nil {
		return nil, err
	}
	iterable, ok := iterVal.(object.Iterable)
	if !ok {
		return nil, shpperr.IncompatibleTypef(n.Position(), "%s is not iterable", iterVal.Kind())
	}
	it, err := iterable.Iter()
	if err != nil {
		return nil, err
	}
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			return nil, err
		}
		child := e.child()
		if err := bindForVars(child.scope, n.VarNames, v, n.Position()); err != nil {
			child.pop()
			return nil, err
		}
		sig, err := child.execBlock(n.Body)
		child.pop()
		if err != nil {
			return nil, err
		}
		if sig != nil {
			switch sig.kind {
			case sigBreak:
				return nil, nil
			case sigContinue:
				continue
			default:
				return sig, nil
			}
		}
	}
	return nil, nil
}

func bindForVars(s *scope.Stack, names []string, v object.Value, pos ast.Pos) error {
	if len(names) == 1 {
		return s.Insert(names[0], v)
	}
	elems, err := unpackAssignable(pos, v, len(names))
	if err != nil {
		return err
	}
	for i, name := range names {
		if err := s.Insert(name, elems[i]); err != nil {
			return err
		}
	}
	return nil
}

func truthy(v object.Value) (bool, error) {
	c, ok := v.(object.Converter)
	if !ok {
		return false, shpperr.IncompatibleTypef(object.Pos{}, "%s has no boolean conversion", v.Kind())
	}
	return c.ToBool()
}
