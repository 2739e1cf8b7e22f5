package analyzer

import (
	"math"

	"github.com/ernestorb/vanillac/internal/ast"
	"github.com/ernestorb/vanillac/internal/diagnostics"
)

// ---- Pass 3: constant folding & value propagation (post-order, mutable) ----

func (a *Analyzer) foldConstants(n *ast.TreeNode) {
	for cur := n; cur != nil; cur = cur.Sibling {
		switch node := cur.Node.(type) {
		case *ast.Stmt:
			a.foldStmt(node)
		case *ast.Exp:
			a.foldExp(node)
		}
	}
}

func (a *Analyzer) foldStmt(s *ast.Stmt) {
	switch kind := s.Kind.(type) {
	case ast.IfStmt:
		a.foldExp(kind.Cond)
		a.foldConstants(kind.Then)
		a.foldConstants(kind.Else)
	case ast.WhileStmt:
		a.foldExp(kind.Cond)
		a.foldConstants(kind.Body)
	case ast.DoStmt:
		a.foldConstants(kind.Body)
		a.foldExp(kind.Cond)
	case ast.AssignStmt:
		a.foldExp(kind.Value)
		// "Latest assignment wins": flow-insensitive, deliberately
		// overwrites through branches (§4.2, §9).
		a.symbols.SetValue(kind.Name, kind.Value.Val)
	case ast.InStmt:
		// stdin has no compile-time value.
	case ast.OutStmt:
		a.foldExp(kind.Expr)
	}
}

// foldExp computes (and memoizes into e.Val) e's folded value, or leaves
// e.Val nil if it cannot be determined at compile time.
func (a *Analyzer) foldExp(e *ast.Exp) *ast.Value {
	if e == nil {
		return nil
	}
	switch kind := e.Kind.(type) {
	case ast.ConstExp:
		e.Val = ast.IntVal(kind.Value)
	case ast.ConstFExp:
		e.Val = ast.FloatVal(kind.Value)
	case ast.IdExp:
		if sym := a.symbols.Lookup(kind.Name); sym != nil {
			e.Val = sym.Value
		}
	case ast.OpExp:
		left := a.foldExp(kind.Left)
		var right *ast.Value
		if kind.Right != nil {
			right = a.foldExp(kind.Right)
		}
		e.Val = a.foldOp(e, kind.Op, left, right)
	}
	return e.Val
}

// foldOp evaluates op over left/right when both are known, per the mixed
// Int|Float|Boolean algebra of §4.2/§9. A nil operand (unknown at compile
// time, e.g. read from stdin) yields a nil result without a diagnostic —
// only domain violations (division by zero, type mixing) are diagnosed.
func (a *Analyzer) foldOp(e *ast.Exp, op ast.Op, left, right *ast.Value) *ast.Value {
	switch op {
	case ast.OpNeg:
		if left == nil || left.Kind != ast.BoolValue {
			return nil
		}
		return ast.BoolVal(!left.B)
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod, ast.OpPow:
		return a.foldArithmetic(e, op, left, right)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		return a.foldCompare(op, left, right)
	case ast.OpAnd, ast.OpOr:
		return a.foldLogical(op, left, right)
	default:
		return nil
	}
}

func asFloat(v *ast.Value) (float64, bool) {
	switch v.Kind {
	case ast.IntValue:
		return float64(v.I), true
	case ast.FloatValue:
		return float64(v.F), true
	default:
		return 0, false
	}
}

func (a *Analyzer) foldArithmetic(e *ast.Exp, op ast.Op, left, right *ast.Value) *ast.Value {
	if left == nil || right == nil {
		return nil
	}
	if left.Kind == ast.BoolValue || right.Kind == ast.BoolValue {
		a.errorf(diagnostics.ErrA006, e.Cursor, op)
		return nil
	}
	bothInt := left.Kind == ast.IntValue && right.Kind == ast.IntValue
	if bothInt {
		l, r := left.I, right.I
		switch op {
		case ast.OpAdd:
			return ast.IntVal(l + r)
		case ast.OpSub:
			return ast.IntVal(l - r)
		case ast.OpMul:
			return ast.IntVal(l * r)
		case ast.OpDiv:
			if r == 0 {
				a.errorf(diagnostics.ErrA008, e.Cursor)
				return nil
			}
			return ast.IntVal(l / r)
		case ast.OpMod:
			if r == 0 {
				a.errorf(diagnostics.ErrA008, e.Cursor)
				return nil
			}
			return ast.IntVal(l % r)
		case ast.OpPow:
			return ast.IntVal(intPow(l, r))
		}
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil
	}
	switch op {
	case ast.OpAdd:
		return ast.FloatVal(float32(lf + rf))
	case ast.OpSub:
		return ast.FloatVal(float32(lf - rf))
	case ast.OpMul:
		return ast.FloatVal(float32(lf * rf))
	case ast.OpDiv:
		if rf == 0 {
			a.errorf(diagnostics.ErrA008, e.Cursor)
			return nil
		}
		return ast.FloatVal(float32(lf / rf))
	case ast.OpMod:
		if rf == 0 {
			a.errorf(diagnostics.ErrA008, e.Cursor)
			return nil
		}
		return ast.FloatVal(float32(math.Mod(lf, rf)))
	case ast.OpPow:
		return ast.FloatVal(float32(math.Pow(lf, rf)))
	}
	return nil
}

func intPow(base, exp int32) int32 {
	if exp < 0 {
		return 0
	}
	result := int32(1)
	for i := int32(0); i < exp; i++ {
		result *= base
	}
	return result
}

func (a *Analyzer) foldCompare(op ast.Op, left, right *ast.Value) *ast.Value {
	if left == nil || right == nil {
		return nil
	}
	if left.Kind == ast.BoolValue && right.Kind == ast.BoolValue {
		if op != ast.OpEq && op != ast.OpNe {
			return nil
		}
		eq := left.B == right.B
		if op == ast.OpNe {
			eq = !eq
		}
		return ast.BoolVal(eq)
	}
	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil
	}
	switch op {
	case ast.OpLt:
		return ast.BoolVal(lf < rf)
	case ast.OpLe:
		return ast.BoolVal(lf <= rf)
	case ast.OpGt:
		return ast.BoolVal(lf > rf)
	case ast.OpGe:
		return ast.BoolVal(lf >= rf)
	case ast.OpEq:
		return ast.BoolVal(lf == rf)
	case ast.OpNe:
		return ast.BoolVal(lf != rf)
	}
	return nil
}

func (a *Analyzer) foldLogical(op ast.Op, left, right *ast.Value) *ast.Value {
	if left == nil || right == nil || left.Kind != ast.BoolValue || right.Kind != ast.BoolValue {
		return nil
	}
	switch op {
	case ast.OpAnd:
		return ast.BoolVal(left.B && right.B)
	case ast.OpOr:
		return ast.BoolVal(left.B || right.B)
	}
	return nil
}
