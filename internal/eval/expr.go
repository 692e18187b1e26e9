package eval

import (
	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/shpperr"
)

// evalExpr implements §4.6's expression executor: literals and identifiers
// resolve directly, every operator dispatches to the capability interface
// from internal/object that owns it (§4.5), and container/command
// expressions delegate to the matching object constructor or the command
// engine.
func (e *executor) evalExpr(x ast.Expr) (object.Value, error) {
	switch n := x.(type) {
	case *ast.Literal:
		if n.Kind == ast.LitGlob {
			return e.evalGlob(n)
		}
		return evalLiteral(n)

	case *ast.Identifier:
		if v, ok := e.scope.Lookup(n.Name); ok {
			return v, nil
		}
		return nil, shpperr.IDNotFoundf(n.Position(), "name %q is not defined", n.Name)

	case *ast.Binary:
		return e.evalBinary(n)

	case *ast.Unary:
		return e.evalUnary(n)

	case *ast.Not:
		v, err := e.evalExpr(n.X)
		if err != nil {
			return nil, err
		}
		nt, ok := v.(object.Notter)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s does not support logical not", v.Kind())
		}
		return nt.Not()

	case *ast.Slice:
		return e.evalSlice(n)

	case *ast.Call:
		return e.evalCall(n)

	case *ast.Attribute:
		v, err := e.evalExpr(n.X)
		if err != nil {
			return nil, err
		}
		attr, ok := v.Attr(n.Name)
		if !ok {
			return nil, shpperr.IDNotFoundf(n.Position(), "%s has no attribute %q", v.Kind(), n.Name)
		}
		return attr, nil

	case *ast.ArrayLit:
		elems := make([]object.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := e.evalExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return object.NewArray(elems), nil

	case *ast.TupleLit:
		elems := make([]object.Value, len(n.Elems))
		for i, el := range n.Elems {
			v, err := e.evalExpr(el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return object.NewTuple(elems), nil

	case *ast.MapLit:
		m := object.NewMap()
		for _, ent := range n.Entries {
			k, err := e.evalExpr(ent.Key)
			if err != nil {
				return nil, err
			}
			v, err := e.evalExpr(ent.Value)
			if err != nil {
				return nil, err
			}
			if err := m.SetItem(k, v); err != nil {
				return nil, err
			}
		}
		return m, nil

	case *ast.CmdExpr:
		return e.evalCmdExpr(n)

	case *ast.FuncLit:
		return e.declareFuncLit(n), nil

	default:
		return nil, shpperr.Customf(x.Position(), "unsupported expression %T", x)
	}
}

func evalLiteral(n *ast.Literal) (object.Value, error) {
	switch n.Kind {
	case ast.LitNull:
		return object.TheNull, nil
	case ast.LitBool:
		return object.NewBool(n.Bool), nil
	case ast.LitInt:
		return object.NewInt(n.Int), nil
	case ast.LitReal:
		return object.NewReal(n.Real), nil
	case ast.LitString:
		return object.NewStr(n.Str), nil
	default:
		return nil, shpperr.Customf(n.Position(), "unsupported literal kind")
	}
}

// evalGlob delegates to the interpreter's glob collaborator (internal/
// globexpand by default) and returns the matches as an array of strings,
// per §4.6's "glob literal" expression form.
func (e *executor) evalGlob(n *ast.Literal) (object.Value, error) {
	if e.in.GlobExpand == nil {
		return nil, shpperr.Customf(n.Position(), "glob expansion is not available")
	}
	matches, err := e.in.GlobExpand(e.in.Env.Cwd(), n.Glob, n.Recurse)
	if err != nil {
		return nil, shpperr.Customf(n.Position(), "glob expansion failed: %s", err)
	}
	elems := make([]object.Value, len(matches))
	for i, m := range matches {
		elems[i] = object.NewStr(m)
	}
	return object.NewArray(elems), nil
}

func (e *executor) evalUnary(n *ast.Unary) (object.Value, error) {
	v, err := e.evalExpr(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "-":
		neg, ok := v.(object.Negator)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s does not support unary -", v.Kind())
		}
		return neg.Neg()
	case "+":
		neg, ok := v.(object.Negator)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s does not support unary +", v.Kind())
		}
		return neg.Pos()
	case "~":
		b, ok := v.(object.Bitwise)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s does not support ~", v.Kind())
		}
		return b.Invert()
	default:
		return nil, shpperr.Customf(n.Position(), "unsupported unary operator %q", n.Op)
	}
}

func (e *executor) evalBinary(n *ast.Binary) (object.Value, error) {
	// && and || short-circuit: the right operand is evaluated lazily.
	if n.Op == "&&" || n.Op == "||" {
		left, err := e.evalExpr(n.Left)
		if err != nil {
			return nil, err
		}
		lb, ok := left.(object.Converter)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s has no boolean conversion", left.Kind())
		}
		lv, err := lb.ToBool()
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" && !lv {
			return object.False, nil
		}
		if n.Op == "||" && lv {
			return object.True, nil
		}
		right, err := e.evalExpr(n.Right)
		if err != nil {
			return nil, err
		}
		lg, ok := left.(object.Logical)
		if ok {
			if n.Op == "&&" {
				return lg.LogicalAnd(right)
			}
			return lg.LogicalOr(right)
		}
		rb, ok := right.(object.Converter)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s has no boolean conversion", right.Kind())
		}
		rv, err := rb.ToBool()
		if err != nil {
			return nil, err
		}
		return object.NewBool(rv), nil
	}

	left, err := e.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "+":
		a, ok := left.(object.Adder)
		if !ok {
			return nil, incompatibleOp(left, "+")
		}
		return a.Add(right)
	case "-":
		a, ok := left.(object.Subber)
		if !ok {
			return nil, incompatibleOp(left, "-")
		}
		return a.Sub(right)
	case "*":
		a, ok := left.(object.Muler)
		if !ok {
			return nil, incompatibleOp(left, "*")
		}
		return a.Mul(right)
	case "/":
		a, ok := left.(object.Diver)
		if !ok {
			return nil, incompatibleOp(left, "/")
		}
		return a.Div(right)
	case "%":
		a, ok := left.(object.Moder)
		if !ok {
			return nil, incompatibleOp(left, "%")
		}
		return a.Mod(right)
	case "<<":
		s, ok := left.(object.Shifter)
		if !ok {
			return nil, incompatibleOp(left, "<<")
		}
		return s.Lshift(right)
	case ">>":
		s, ok := left.(object.Shifter)
		if !ok {
			return nil, incompatibleOp(left, ">>")
		}
		return s.Rshift(right)
	case "&":
		b, ok := left.(object.Bitwise)
		if !ok {
			return nil, incompatibleOp(left, "&")
		}
		return b.And(right)
	case "|":
		b, ok := left.(object.Bitwise)
		if !ok {
			return nil, incompatibleOp(left, "|")
		}
		return b.Or(right)
	case "^":
		b, ok := left.(object.Bitwise)
		if !ok {
			return nil, incompatibleOp(left, "^")
		}
		return b.Xor(right)
	case "==":
		eq, ok := left.(object.Equaler)
		if !ok {
			return object.NewBool(false), nil
		}
		return object.NewBool(eq.Equal(right)), nil
	case "!=":
		eq, ok := left.(object.Equaler)
		if !ok {
			return object.NewBool(true), nil
		}
		return object.NewBool(!eq.Equal(right)), nil
	case "<":
		c, ok := left.(object.Comparer)
		if !ok {
			return nil, incompatibleOp(left, "<")
		}
		v, err := c.Lt(right)
		return object.NewBool(v), err
	case ">":
		c, ok := left.(object.Comparer)
		if !ok {
			return nil, incompatibleOp(left, ">")
		}
		v, err := c.Gt(right)
		return object.NewBool(v), err
	case "<=":
		c, ok := left.(object.Comparer)
		if !ok {
			return nil, incompatibleOp(left, "<=")
		}
		v, err := c.Le(right)
		return object.NewBool(v), err
	case ">=":
		c, ok := left.(object.Comparer)
		if !ok {
			return nil, incompatibleOp(left, ">=")
		}
		v, err := c.Ge(right)
		return object.NewBool(v), err
	default:
		return nil, shpperr.Customf(n.Position(), "unsupported binary operator %q", n.Op)
	}
}

type lenGetter interface{ Len() int }

// evalSlice implements both a[i] item access and a[low:high:step] range
// slicing, normalizing Python-style bounds (negative indices, step-aware
// defaults) before handing off to object.Sliceable — the object package's
// slice implementations expect already-normalized bounds.
func (e *executor) evalSlice(n *ast.Slice) (object.Value, error) {
	x, err := e.evalExpr(n.X)
	if err != nil {
		return nil, err
	}
	if n.SingleElem {
		key, err := e.evalExpr(n.Low)
		if err != nil {
			return nil, err
		}
		c, ok := x.(object.Container)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s does not support indexing", x.Kind())
		}
		return c.GetItem(key)
	}

	sl, ok := x.(object.Sliceable)
	if !ok {
		return nil, shpperr.IncompatibleTypef(n.Position(), "%s does not support slicing", x.Kind())
	}
	lg, ok := x.(lenGetter)
	if !ok {
		return nil, shpperr.IncompatibleTypef(n.Position(), "%s does not support slicing", x.Kind())
	}
	length := lg.Len()

	step := 1
	if n.HasStep {
		stepVal, err := e.evalExpr(n.Step)
		if err != nil {
			return nil, err
		}
		iv, ok := stepVal.(*object.Int)
		if !ok {
			return nil, shpperr.IncompatibleTypef(n.Position(), "slice step must be int, got %s", stepVal.Kind())
		}
		step = int(iv.Val)
	}
	if step == 0 {
		return nil, shpperr.ZeroDivf(n.Position(), "slice step must not be zero")
	}

	low := 0
	high := length
	if step < 0 {
		low = length - 1
		high = -1
	}
	if n.HasLow {
		lowVal, err := e.evalExpr(n.Low)
		if err != nil {
			return nil, err
		}
		low, err = resolveSliceIndex(lowVal, length, n.Position())
		if err != nil {
			return nil, err
		}
	}
	if n.HasHigh {
		highVal, err := e.evalExpr(n.High)
		if err != nil {
			return nil, err
		}
		high, err = resolveSliceIndex(highVal, length, n.Position())
		if err != nil {
			return nil, err
		}
	}
	return sl.Slice(low, high, step)
}

func resolveSliceIndex(v object.Value, n int, pos ast.Pos) (int, error) {
	iv, ok := v.(*object.Int)
	if !ok {
		return 0, shpperr.IncompatibleTypef(pos, "slice index must be int, got %s", v.Kind())
	}
	idx := int(iv.Val)
	if idx < 0 {
		idx += n
	}
	if idx < 0 {
		idx = 0
	}
	if idx > n {
		idx = n
	}
	return idx, nil
}

func (e *executor) evalCall(n *ast.Call) (object.Value, error) {
	fnVal, err := e.evalExpr(n.Fn)
	if err != nil {
		return nil, err
	}
	if tv, ok := fnVal.(*object.TypeValue); ok {
		if tv.Desc.Construct == nil {
			return nil, shpperr.IncompatibleTypef(n.Position(), "%s is not constructible", tv.Desc.Name)
		}
		args, kwargs, err := e.evalArgs(n.Args)
		if err != nil {
			return nil, err
		}
		return tv.Desc.Construct(args, kwargs)
	}
	caller, ok := fnVal.(object.Caller)
	if !ok {
		return nil, shpperr.IncompatibleTypef(n.Position(), "%s is not callable", fnVal.Kind())
	}
	args, kwargs, err := e.evalArgs(n.Args)
	if err != nil {
		return nil, err
	}
	return caller.Call(args, kwargs)
}

func (e *executor) evalArgs(argNodes []ast.Arg) ([]object.Value, map[string]object.Value, error) {
	var args []object.Value
	var kwargs map[string]object.Value
	for _, a := range argNodes {
		v, err := e.evalExpr(a.Value)
		if err != nil {
			return nil, nil, err
		}
		if a.Name == "" {
			args = append(args, v)
			continue
		}
		if kwargs == nil {
			kwargs = map[string]object.Value{}
		}
		kwargs[a.Name] = v
	}
	return args, kwargs, nil
}
