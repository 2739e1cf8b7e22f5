// Package analyzer implements A: the three-pass semantic analyzer described
// in SPEC_FULL.md §4.2, grounded directly on original_source/src/analyze.rs
// (create_symbol_table / check_types / evaluate_expressions, with English
// diagnostics in place of the original's Spanish ones).
package analyzer

import (
	"github.com/ernestorb/vanillac/internal/ast"
	"github.com/ernestorb/vanillac/internal/config"
	"github.com/ernestorb/vanillac/internal/diagnostics"
	"github.com/ernestorb/vanillac/internal/pipeline"
	"github.com/ernestorb/vanillac/internal/symbols"
	"github.com/ernestorb/vanillac/internal/token"
)

// Analyzer threads the symbol table and diagnostic list across all three
// passes over one AST.
type Analyzer struct {
	symbols *symbols.Table
	errors  []*diagnostics.CompileError
}

func New() *Analyzer {
	return &Analyzer{symbols: symbols.NewTable()}
}

// Analyze runs all three passes over root and returns the populated symbol
// table plus the ordered diagnostic list (pass 1 errors before pass 2 before
// pass 3, each in traversal order — §4.2 "Diagnostic ordering").
func Analyze(root *ast.TreeNode) (*symbols.Table, []*diagnostics.CompileError) {
	a := New()
	a.collectSymbols(root)
	a.checkTypes(root)
	a.foldConstants(root)
	return a.symbols, a.errors
}

// Processor runs A as a pipeline stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	table, errs := Analyze(ctx.AST)
	ctx.Symbols = table
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}

func (a *Analyzer) errorf(code diagnostics.Code, at token.Cursor, args ...interface{}) {
	a.errors = append(a.errors, diagnostics.New(diagnostics.PhaseAnalyzer, code, at, args...))
}

// ---- Pass 1: symbol collection (pre-order) ----

func (a *Analyzer) collectSymbols(n *ast.TreeNode) {
	for cur := n; cur != nil; cur = cur.Sibling {
		switch node := cur.Node.(type) {
		case *ast.Decl:
			switch kind := node.Kind.(type) {
			case ast.VarDecl:
				if a.symbols.Has(kind.Name) {
					a.errorf(diagnostics.ErrA001, node.Cursor, kind.Name)
				} else {
					a.symbols.Declare(kind.Name, kind.Typ, node.Cursor)
				}
			}
		case *ast.Stmt:
			a.collectSymbolsStmt(node)
		case *ast.Exp:
			a.collectSymbolsExp(node)
		}
	}
}

func (a *Analyzer) collectSymbolsStmt(s *ast.Stmt) {
	switch kind := s.Kind.(type) {
	case ast.IfStmt:
		a.collectSymbolsExp(kind.Cond)
		a.collectSymbols(kind.Then)
		a.collectSymbols(kind.Else)
	case ast.WhileStmt:
		a.collectSymbolsExp(kind.Cond)
		a.collectSymbols(kind.Body)
	case ast.DoStmt:
		a.collectSymbols(kind.Body)
		a.collectSymbolsExp(kind.Cond)
	case ast.AssignStmt:
		if a.symbols.Has(kind.Name) {
			a.symbols.RecordUsage(kind.Name, s.Cursor)
		} else {
			a.errorf(diagnostics.ErrA002, s.Cursor, kind.Name)
		}
		a.collectSymbolsExp(kind.Value)
	case ast.InStmt:
		if a.symbols.Has(kind.Name) {
			a.symbols.RecordUsage(kind.Name, s.Cursor)
		} else {
			a.errorf(diagnostics.ErrA002, s.Cursor, kind.Name)
		}
	case ast.OutStmt:
		a.collectSymbolsExp(kind.Expr)
	}
}

func (a *Analyzer) collectSymbolsExp(e *ast.Exp) {
	if e == nil {
		return
	}
	switch kind := e.Kind.(type) {
	case ast.IdExp:
		if a.symbols.Has(kind.Name) {
			a.symbols.RecordUsage(kind.Name, e.Cursor)
		} else {
			a.errorf(diagnostics.ErrA002, e.Cursor, kind.Name)
		}
	case ast.OpExp:
		a.collectSymbolsExp(kind.Left)
		a.collectSymbolsExp(kind.Right)
	}
}

// ---- Pass 2: type inference & checking (post-order, mutable) ----

func (a *Analyzer) checkTypes(n *ast.TreeNode) {
	for cur := n; cur != nil; cur = cur.Sibling {
		switch node := cur.Node.(type) {
		case *ast.Stmt:
			a.checkTypesStmt(node)
		case *ast.Exp:
			a.typeOf(node)
		}
	}
}

func (a *Analyzer) checkTypesStmt(s *ast.Stmt) {
	switch kind := s.Kind.(type) {
	case ast.IfStmt:
		a.checkTypes(kind.Then)
		a.checkTypes(kind.Else)
		a.requireBoolean(kind.Cond, "if")
	case ast.WhileStmt:
		a.checkTypes(kind.Body)
		a.requireBoolean(kind.Cond, "while")
	case ast.DoStmt:
		a.checkTypes(kind.Body)
		a.requireBoolean(kind.Cond, "do")
	case ast.AssignStmt:
		valueTyp := a.typeOf(kind.Value)
		sym := a.symbols.Lookup(kind.Name)
		if sym == nil {
			return
		}
		if valueTyp == ast.Boolean {
			a.errorf(diagnostics.ErrA005, s.Cursor, kind.Name)
		} else if valueTyp != sym.Typ {
			a.errorf(diagnostics.ErrA004, s.Cursor, valueTyp, kind.Name, sym.Typ)
		}
	case ast.OutStmt:
		typ := a.typeOf(kind.Expr)
		if typ != ast.Integer && typ != ast.Float {
			a.errorf(diagnostics.ErrA007, s.Cursor)
		}
	}
}

func (a *Analyzer) requireBoolean(cond *ast.Exp, construct string) {
	if a.typeOf(cond) != ast.Boolean {
		a.errorf(diagnostics.ErrA003, cond.Cursor, construct)
	}
}

func isNumeric(t ast.Type) bool { return t == ast.Integer || t == ast.Float }

// typeOf computes (and memoizes into e.Typ) the bottom-up type of e,
// recursing into operands first (post-order).
func (a *Analyzer) typeOf(e *ast.Exp) ast.Type {
	if e == nil {
		return ast.Void
	}
	switch kind := e.Kind.(type) {
	case ast.ConstExp:
		e.Typ = ast.Integer
	case ast.ConstFExp:
		e.Typ = ast.Float
	case ast.IdExp:
		if sym := a.symbols.Lookup(kind.Name); sym != nil {
			e.Typ = sym.Typ
		} else {
			e.Typ = ast.Void
		}
	case ast.OpExp:
		leftTyp := a.typeOf(kind.Left)
		var rightTyp ast.Type
		if kind.Right != nil {
			rightTyp = a.typeOf(kind.Right)
		}
		e.Typ = a.typeOfOp(e, kind, leftTyp, rightTyp)
	}
	return e.Typ
}

func (a *Analyzer) typeOfOp(e *ast.Exp, op ast.OpExp, left, right ast.Type) ast.Type {
	switch {
	case config.ArithmeticOps[op.Op]:
		if !isNumeric(left) || !isNumeric(right) {
			a.errorf(diagnostics.ErrA006, e.Cursor, op.Op)
			return ast.Void
		}
		if left == ast.Float || right == ast.Float {
			return ast.Float
		}
		return ast.Integer
	case config.RelationalOps[op.Op]:
		if !isNumeric(left) || !isNumeric(right) {
			a.errorf(diagnostics.ErrA006, e.Cursor, op.Op)
			return ast.Boolean
		}
		return ast.Boolean
	case config.EqualityOps[op.Op]:
		if (isNumeric(left) && isNumeric(right)) || (left == ast.Boolean && right == ast.Boolean) {
			return ast.Boolean
		}
		a.errorf(diagnostics.ErrA006, e.Cursor, op.Op)
		return ast.Boolean
	case config.LogicalOps[op.Op]:
		if left != ast.Boolean || right != ast.Boolean {
			a.errorf(diagnostics.ErrA006, e.Cursor, op.Op)
		}
		return ast.Boolean
	case op.Op == ast.OpNeg:
		if left != ast.Boolean {
			a.errorf(diagnostics.ErrA006, e.Cursor, op.Op)
		}
		return ast.Boolean
	default:
		return ast.Void
	}
}
