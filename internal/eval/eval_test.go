//go:build unix

package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shpp-lang/shpp/internal/ast"
	"github.com/shpp-lang/shpp/internal/object"
	"github.com/shpp-lang/shpp/internal/procexec"
)

func newTestInterp(t *testing.T) *Interp {
	t.Helper()
	shell, err := procexec.NewShell(false)
	if err != nil {
		t.Fatalf("NewShell: %v", err)
	}
	env := NewEnviron(os.Environ(), t.TempDir())
	in, err := NewInterp(shell, env)
	if err != nil {
		t.Fatalf("NewInterp: %v", err)
	}
	return in
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }
func lit(v int64) *ast.Literal          { return &ast.Literal{Kind: ast.LitInt, Int: v} }

func runProgram(t *testing.T, in *Interp, stmts []ast.Stmt) {
	t.Helper()
	if err := in.Run(&ast.Program{Stmts: stmts}); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestEvalArithmeticPrecedenceFreeExpression(t *testing.T) {
	in := newTestInterp(t)
	ex := newExecutor(in, in.Root, nil)

	// (1 + 2) * 3 == 9
	sum := &ast.Binary{Op: "+", Left: lit(1), Right: lit(2)}
	mul := &ast.Binary{Op: "*", Left: sum, Right: lit(3)}
	eq := &ast.Binary{Op: "==", Left: mul, Right: lit(9)}

	v, err := ex.evalExpr(eq)
	if err != nil {
		t.Fatal(err)
	}
	b, ok := v.(*object.Bool)
	if !ok || !b.Val {
		t.Fatalf("expected true, got %#v", v)
	}
}

func TestWhileLoopAccumulates(t *testing.T) {
	in := newTestInterp(t)

	// total = 0; i = 0; while i < 4 { total += i; i += 1 }
	stmts := []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{ident("total")}, Values: []ast.Expr{lit(0)}},
		&ast.Assign{Targets: []ast.Expr{ident("i")}, Values: []ast.Expr{lit(0)}},
		&ast.While{
			Cond: &ast.Binary{Op: "<", Left: ident("i"), Right: lit(4)},
			Body: []ast.Stmt{
				&ast.Assign{Targets: []ast.Expr{ident("total")}, Op: "+=", Values: []ast.Expr{ident("i")}},
				&ast.Assign{Targets: []ast.Expr{ident("i")}, Op: "+=", Values: []ast.Expr{lit(1)}},
			},
		},
	}
	runProgram(t, in, stmts)

	v, ok := in.Root.Lookup("total")
	if !ok {
		t.Fatal("total not bound")
	}
	total, ok := v.(*object.Int)
	if !ok || total.Val != 6 {
		t.Fatalf("expected total=6, got %#v", v)
	}
}

func TestForLoopBreakAndContinue(t *testing.T) {
	in := newTestInterp(t)

	// seen = []; for x in [1,2,3,4,5] { if x == 2 { continue } if x == 4 { break } seen += [x] }
	loopVar := ident("x")
	body := []ast.Stmt{
		&ast.If{
			Cond: &ast.Binary{Op: "==", Left: loopVar, Right: lit(2)},
			Then: []ast.Stmt{&ast.Continue{}},
		},
		&ast.If{
			Cond: &ast.Binary{Op: "==", Left: loopVar, Right: lit(4)},
			Then: []ast.Stmt{&ast.Break{}},
		},
		&ast.Assign{
			Targets: []ast.Expr{ident("seen")},
			Op:      "+=",
			Values:  []ast.Expr{&ast.ArrayLit{Elems: []ast.Expr{loopVar}}},
		},
	}
	stmts := []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{ident("seen")}, Values: []ast.Expr{&ast.ArrayLit{}}},
		&ast.For{
			VarNames: []string{"x"},
			Iter:     &ast.ArrayLit{Elems: []ast.Expr{lit(1), lit(2), lit(3), lit(4), lit(5)}},
			Body:     body,
		},
	}
	runProgram(t, in, stmts)

	v, ok := in.Root.Lookup("seen")
	if !ok {
		t.Fatal("seen not bound")
	}
	arr, ok := v.(*object.Array)
	if !ok || len(arr.Elems) != 2 {
		t.Fatalf("expected [1, 3], got %#v", v)
	}
	if arr.Elems[0].(*object.Int).Val != 1 || arr.Elems[1].(*object.Int).Val != 3 {
		t.Fatalf("expected [1, 3], got %#v", arr.Elems)
	}
}

func TestClosureCapturesLiveScope(t *testing.T) {
	in := newTestInterp(t)

	// func makeCounter() { count = 0; func inc() { count += 1; return count } return inc }
	incBody := []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{ident("count")}, Op: "+=", Values: []ast.Expr{lit(1)}},
		&ast.Return{Value: ident("count")},
	}
	makeCounterBody := []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{ident("count")}, Values: []ast.Expr{lit(0)}},
		&ast.FuncDecl{Name: "inc", Body: incBody},
		&ast.Return{Value: ident("inc")},
	}
	stmts := []ast.Stmt{
		&ast.FuncDecl{Name: "makeCounter", Body: makeCounterBody},
		&ast.Assign{Targets: []ast.Expr{ident("counter")}, Values: []ast.Expr{&ast.Call{Fn: ident("makeCounter")}}},
		&ast.Assign{Targets: []ast.Expr{ident("a")}, Values: []ast.Expr{&ast.Call{Fn: ident("counter")}}},
		&ast.Assign{Targets: []ast.Expr{ident("b")}, Values: []ast.Expr{&ast.Call{Fn: ident("counter")}}},
	}
	runProgram(t, in, stmts)

	a, _ := in.Root.Lookup("a")
	b, _ := in.Root.Lookup("b")
	if a.(*object.Int).Val != 1 || b.(*object.Int).Val != 2 {
		t.Fatalf("expected counter calls to observe live shared state, got a=%v b=%v", a, b)
	}
}

func TestDeferRunsLIFOOnScopeExit(t *testing.T) {
	in := newTestInterp(t)

	// func f() { log = []; defer { log += ["first"] }; defer { log += ["second"] }; return log }
	body := []ast.Stmt{
		&ast.Assign{Targets: []ast.Expr{ident("log")}, Values: []ast.Expr{&ast.ArrayLit{}}},
		&ast.Defer{Stmt: &ast.Assign{
			Targets: []ast.Expr{ident("log")}, Op: "+=",
			Values: []ast.Expr{&ast.ArrayLit{Elems: []ast.Expr{&ast.Literal{Kind: ast.LitString, Str: "first"}}}},
		}},
		&ast.Defer{Stmt: &ast.Assign{
			Targets: []ast.Expr{ident("log")}, Op: "+=",
			Values: []ast.Expr{&ast.ArrayLit{Elems: []ast.Expr{&ast.Literal{Kind: ast.LitString, Str: "second"}}}},
		}},
		&ast.Return{Value: ident("log")},
	}
	stmts := []ast.Stmt{
		&ast.FuncDecl{Name: "f", Body: body},
		&ast.Assign{Targets: []ast.Expr{ident("result")}, Values: []ast.Expr{&ast.Call{Fn: ident("f")}}},
	}
	runProgram(t, in, stmts)

	v, _ := in.Root.Lookup("result")
	arr := v.(*object.Array)
	if len(arr.Elems) != 2 {
		t.Fatalf("expected 2 deferred writes, got %d", len(arr.Elems))
	}
	if arr.Elems[0].(*object.Str).Val != "second" || arr.Elems[1].(*object.Str).Val != "first" {
		t.Fatalf("expected LIFO order [second, first], got %#v", arr.Elems)
	}
}

func TestClassDeclarationConstructAndCallMethod(t *testing.T) {
	in := newTestInterp(t)

	// class Point { func __init__(self, x) { self.x = x }
	//               func getX(self) { return self.x } }
	initBody := []ast.Stmt{
		&ast.Assign{
			Targets: []ast.Expr{&ast.Attribute{X: ident("self"), Name: "x"}},
			Values:  []ast.Expr{ident("x")},
		},
	}
	getXBody := []ast.Stmt{
		&ast.Return{Value: &ast.Attribute{X: ident("self"), Name: "x"}},
	}
	classDecl := &ast.ClassDecl{
		Name: "Point",
		Members: []ast.Stmt{
			&ast.FuncDecl{Name: "__init__", Params: []ast.Param{{Name: "self"}, {Name: "x"}}, Body: initBody},
			&ast.FuncDecl{Name: "getX", Params: []ast.Param{{Name: "self"}}, Body: getXBody},
		},
	}
	stmts := []ast.Stmt{
		classDecl,
		&ast.Assign{
			Targets: []ast.Expr{ident("p")},
			Values:  []ast.Expr{&ast.Call{Fn: ident("Point"), Args: []ast.Arg{{Value: lit(42)}}}},
		},
		&ast.Assign{
			Targets: []ast.Expr{ident("got")},
			Values:  []ast.Expr{&ast.Call{Fn: &ast.Attribute{X: ident("p"), Name: "getX"}}},
		},
	}
	runProgram(t, in, stmts)

	v, ok := in.Root.Lookup("got")
	if !ok {
		t.Fatal("got not bound")
	}
	n, ok := v.(*object.Int)
	if !ok || n.Val != 42 {
		t.Fatalf("expected 42, got %#v", v)
	}
}

func TestExecCommandRedirectsOutputToFile(t *testing.T) {
	in := newTestInterp(t)
	ex := newExecutor(in, in.Root, nil)

	outPath := filepath.Join(t.TempDir(), "out.txt")
	cmdStmt := &ast.CommandStmt{
		Words: []ast.CommandWord{{Literal: "/bin/echo"}, {Literal: "hello"}},
		Redirects: []ast.Redirect{
			{Kind: ">", Target: []ast.CommandWord{{Literal: outPath}}},
		},
	}

	v, err := ex.execCommand(cmdStmt)
	if err != nil {
		t.Fatal(err)
	}
	code, ok := v.(*object.Int)
	if !ok || code.Val != 0 {
		t.Fatalf("expected exit code 0, got %#v", v)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("expected %q, got %q", "hello\n", data)
	}
}

func TestCmdExprCapturesStdout(t *testing.T) {
	in := newTestInterp(t)
	ex := newExecutor(in, in.Root, nil)

	cmdExpr := &ast.CmdExpr{
		Command: &ast.CommandStmt{Words: []ast.CommandWord{{Literal: "/bin/echo"}, {Literal: "hi"}}},
		Capture: true,
	}
	v, err := ex.evalCmdExpr(cmdExpr)
	if err != nil {
		t.Fatal(err)
	}
	cmd, ok := v.(*object.Cmd)
	if !ok {
		t.Fatalf("expected *object.Cmd, got %#v", v)
	}
	s, err := cmd.ToStr()
	if err != nil {
		t.Fatal(err)
	}
	if s != "hi" {
		t.Fatalf("expected %q, got %q", "hi", s)
	}
}

func TestGlobExpandFallsBackToLiteralWhenNoMatch(t *testing.T) {
	in := newTestInterp(t)
	ex := newExecutor(in, in.Root, nil)

	v, err := ex.evalExpr(&ast.Literal{Kind: ast.LitGlob, Glob: "*.nonexistent-suffix"})
	if err != nil {
		t.Fatal(err)
	}
	arr, ok := v.(*object.Array)
	if !ok || len(arr.Elems) != 1 {
		t.Fatalf("expected single-element fallback array, got %#v", v)
	}
	if arr.Elems[0].(*object.Str).Val != "*.nonexistent-suffix" {
		t.Fatalf("expected literal fallback, got %#v", arr.Elems[0])
	}
}
