package parser

import (
	"testing"

	"github.com/ernestorb/vanillac/internal/ast"
	"github.com/ernestorb/vanillac/internal/diagnostics"
	"github.com/ernestorb/vanillac/internal/lexer"
	"github.com/ernestorb/vanillac/internal/token"
)

// testStream wraps a fully-scanned token slice, mirroring the batch
// contract the real lexer.Processor hands the parser.
type testStream struct {
	tokens []token.Token
	pos    int
}

func newTestStream(src string) *testStream {
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return &testStream{tokens: toks}
}

func (s *testStream) Next() token.Token {
	if s.pos >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	tok := s.tokens[s.pos]
	s.pos++
	return tok
}

func (s *testStream) Peek(n int) []token.Token {
	end := s.pos + n
	if end > len(s.tokens) {
		end = len(s.tokens)
	}
	return s.tokens[s.pos:end]
}

func parse(t *testing.T, src string) (*ast.TreeNode, []*diagnostics.CompileError) {
	t.Helper()
	return Parse(newTestStream(src))
}

func declNames(root *ast.TreeNode) []string {
	var names []string
	for cur := root; cur != nil; cur = cur.Sibling {
		d, ok := cur.Node.(*ast.Decl)
		if !ok {
			continue
		}
		names = append(names, d.Kind.(ast.VarDecl).Name)
	}
	return names
}

func TestParseVarDeclList(t *testing.T) {
	root, errs := parse(t, "main { integer x, y; double z; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	names := declNames(root)
	if len(names) != 3 || names[0] != "x" || names[1] != "y" || names[2] != "z" {
		t.Fatalf("decl names = %v, want [x y z]", names)
	}
}

func TestParseAssignmentAndStdout(t *testing.T) {
	root, errs := parse(t, "main { integer x; x = 1 + 2; stdout x; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// decl -> assign -> out
	decl := root
	assign, ok := decl.Sibling.Node.(*ast.Stmt)
	if !ok {
		t.Fatalf("second node is a %T, want *ast.Stmt", decl.Sibling.Node)
	}
	as, ok := assign.Kind.(ast.AssignStmt)
	if !ok || as.Name != "x" {
		t.Fatalf("AssignStmt = %+v", assign.Kind)
	}
	op, ok := as.Value.Kind.(ast.OpExp)
	if !ok || op.Op != ast.OpAdd {
		t.Fatalf("assignment value = %+v, want OpAdd", as.Value.Kind)
	}
	out, ok := decl.Sibling.Sibling.Node.(*ast.Stmt)
	if !ok {
		t.Fatalf("third node is a %T, want *ast.Stmt", decl.Sibling.Sibling.Node)
	}
	if _, ok := out.Kind.(ast.OutStmt); !ok {
		t.Fatalf("third stmt = %+v, want OutStmt", out.Kind)
	}
}

func TestParseIncDecDesugarsToArithmetic(t *testing.T) {
	root, errs := parse(t, "main { integer x; x++; x--; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	incStmt := root.Sibling.Node.(*ast.Stmt).Kind.(ast.AssignStmt)
	incOp := incStmt.Value.Kind.(ast.OpExp)
	if incOp.Op != ast.OpAdd {
		t.Errorf("x++ desugared to %s, want %s", incOp.Op, ast.OpAdd)
	}
	if incOp.Right.Kind.(ast.ConstExp).Value != 1 {
		t.Errorf("x++ right operand = %+v, want ConstExp{1}", incOp.Right.Kind)
	}

	decStmt := root.Sibling.Sibling.Node.(*ast.Stmt).Kind.(ast.AssignStmt)
	decOp := decStmt.Value.Kind.(ast.OpExp)
	if decOp.Op != ast.OpSub {
		t.Errorf("x-- desugared to %s, want %s", decOp.Op, ast.OpSub)
	}
}

func TestParseIfWhileDo(t *testing.T) {
	src := `main {
		integer x;
		if x < 10 { x = 1; } else { x = 2; }
		while x < 10 { x++; }
		do { x++; } while x < 10;
	}`
	root, errs := parse(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	ifStmt := root.Sibling.Node.(*ast.Stmt).Kind.(ast.IfStmt)
	if ifStmt.Then == nil || ifStmt.Else == nil {
		t.Fatal("if/else branches must both be populated")
	}

	whileStmt := root.Sibling.Sibling.Node.(*ast.Stmt).Kind.(ast.WhileStmt)
	if whileStmt.Body == nil {
		t.Fatal("while body must be populated")
	}

	doStmt := root.Sibling.Sibling.Sibling.Node.(*ast.Stmt).Kind.(ast.DoStmt)
	if doStmt.Body == nil || doStmt.Cond == nil {
		t.Fatal("do/while must have both a body and a condition")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// 2 + 3 * 4 must parse as 2 + (3 * 4): the outermost node is '+'.
	root, errs := parse(t, "main { stdout 2 + 3 * 4; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := root.Node.(*ast.Stmt).Kind.(ast.OutStmt)
	top := out.Expr.Kind.(ast.OpExp)
	if top.Op != ast.OpAdd {
		t.Fatalf("top-level operator = %s, want %s", top.Op, ast.OpAdd)
	}
	right := top.Right.Kind.(ast.OpExp)
	if right.Op != ast.OpMul {
		t.Fatalf("right operand operator = %s, want %s", right.Op, ast.OpMul)
	}
}

func TestSignedLiteralTieBreakInExpression(t *testing.T) {
	// After a term, a signed INT literal token must still be read as a
	// binary + or - applied to the unsigned remainder.
	root, errs := parse(t, "main { stdout 5 -3; }")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	out := root.Node.(*ast.Stmt).Kind.(ast.OutStmt)
	top := out.Expr.Kind.(ast.OpExp)
	if top.Op != ast.OpSub {
		t.Fatalf("operator = %s, want %s", top.Op, ast.OpSub)
	}
	if top.Right.Kind.(ast.ConstExp).Value != 3 {
		t.Fatalf("right operand = %+v, want ConstExp{3}", top.Right.Kind)
	}
}

func TestBareLiteralAfterTermReportsMissingSign(t *testing.T) {
	// "5 3" has no operator and no fused sign between the two literals, so
	// simple() cannot treat the second one as a continuation of the first.
	_, errs := parse(t, "main { stdout 5 3; }")
	found := false
	for _, e := range errs {
		if e.Code == diagnostics.ErrP005 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected ErrP005 for a bare literal following a completed term, got %v", errs)
	}
}

func TestMissingSemicolonRecordsDiagnosticAndRecovers(t *testing.T) {
	root, errs := parse(t, "main { integer x; x = 1 stdout x; }")
	if len(errs) == 0 {
		t.Fatal("expected a diagnostic for the missing semicolon")
	}
	// Recovery must still let the rest of the program parse: we should see
	// a decl, an assign, and an out statement in the sibling chain.
	count := 0
	for cur := root; cur != nil; cur = cur.Sibling {
		count++
	}
	if count < 2 {
		t.Fatalf("expected parsing to recover and continue, got %d top-level nodes", count)
	}
}

func TestTrailingTokensAfterMainReported(t *testing.T) {
	_, errs := parse(t, "main { integer x; } integer y;")
	found := false
	for _, e := range errs {
		if e.Code == diagnostics.ErrP003 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ErrP003 for stray tokens after main's closing brace")
	}
}
