// Package ast defines Vanilla's sibling-linked abstract syntax tree.
package ast

import (
	"github.com/google/uuid"

	"github.com/ernestorb/vanillac/internal/token"
)

// Type is the inferred/declared type of an expression or declaration.
type Type int

const (
	Void Type = iota
	Integer
	Float
	Boolean
)

func (t Type) String() string {
	switch t {
	case Integer:
		return "integer"
	case Float:
		return "double"
	case Boolean:
		return "boolean"
	default:
		return "void"
	}
}

// Op identifies an Exp{Op} operator. It mirrors the token set used by the
// grammar's arithmetic, relational, equality and logical productions.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
	OpPow Op = "^"

	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="
	OpEq Op = "=="
	OpNe Op = "!="

	OpAnd Op = "&&"
	OpOr  Op = "||"
	OpNeg Op = "!" // unary; Right is always nil
)

// Value is the tagged folded constant produced by the analyzer's third pass.
// A nil Value means "unknown at compile time".
type Value struct {
	Kind ValueKind
	I    int32
	F    float32
	B    bool
}

type ValueKind int

const (
	NoValue ValueKind = iota
	IntValue
	FloatValue
	BoolValue
)

func IntVal(v int32) *Value     { return &Value{Kind: IntValue, I: v} }
func FloatVal(v float32) *Value { return &Value{Kind: FloatValue, F: v} }
func BoolVal(v bool) *Value     { return &Value{Kind: BoolValue, B: v} }

// Node is one of the three variants Decl/Stmt/Exp. It is implemented by
// exactly the three kinds below; the interface exists only to let TreeNode
// hold any of them without a union type.
type Node interface {
	node()
}

// TreeNode is the pair (node, sibling?) described by the data model: sibling
// threads peers at the same statement level into a linear, non-cyclic chain.
type TreeNode struct {
	Node    Node
	Sibling *TreeNode
}

// LastSibling walks to the end of n's sibling chain (n itself if it has none).
func (n *TreeNode) LastSibling() *TreeNode {
	cur := n
	for cur.Sibling != nil {
		cur = cur.Sibling
	}
	return cur
}

// Append threads next onto the end of n's sibling chain and returns n.
func (n *TreeNode) Append(next *TreeNode) *TreeNode {
	if next == nil {
		return n
	}
	n.LastSibling().Sibling = next
	return n
}

// ---- Decl ----

type DeclKind interface{ declKind() }

type VarDecl struct {
	Typ  Type
	Name string
}

func (VarDecl) declKind() {}

type Decl struct {
	ID     uuid.UUID
	Cursor token.Cursor
	Kind   DeclKind
}

func (*Decl) node() {}

func NewDecl(cursor token.Cursor, kind DeclKind) *Decl {
	return &Decl{ID: uuid.New(), Cursor: cursor, Kind: kind}
}

// ---- Stmt ----

type StmtKind interface{ stmtKind() }

type IfStmt struct {
	Cond *Exp
	Then *TreeNode
	Else *TreeNode
}

type WhileStmt struct {
	Cond *Exp
	Body *TreeNode
}

type DoStmt struct {
	Body *TreeNode
	Cond *Exp
}

type AssignStmt struct {
	Name  string
	Value *Exp
}

type InStmt struct {
	Name string
}

type OutStmt struct {
	Expr *Exp
}

func (IfStmt) stmtKind()     {}
func (WhileStmt) stmtKind()  {}
func (DoStmt) stmtKind()     {}
func (AssignStmt) stmtKind() {}
func (InStmt) stmtKind()     {}
func (OutStmt) stmtKind()    {}

type Stmt struct {
	ID     uuid.UUID
	Cursor token.Cursor
	Kind   StmtKind
}

func (*Stmt) node() {}

func NewStmt(cursor token.Cursor, kind StmtKind) *Stmt {
	return &Stmt{ID: uuid.New(), Cursor: cursor, Kind: kind}
}

// ---- Exp ----

type ExpKind interface{ expKind() }

type OpExp struct {
	Op    Op
	Left  *Exp
	Right *Exp // nil iff Op == OpNeg
}

type ConstExp struct{ Value int32 }
type ConstFExp struct{ Value float32 }
type IdExp struct{ Name string }

func (OpExp) expKind()    {}
func (ConstExp) expKind() {}
func (ConstFExp) expKind() {}
func (IdExp) expKind()    {}

// Exp is an expression node: its Typ is Void until the analyzer's second pass
// runs, and its Val is nil until the third pass folds it (or determines it
// cannot be folded).
type Exp struct {
	ID     uuid.UUID
	Cursor token.Cursor
	Kind   ExpKind
	Typ    Type
	Val    *Value
}

func (*Exp) node() {}

func NewExp(cursor token.Cursor, kind ExpKind) *Exp {
	return &Exp{ID: uuid.New(), Cursor: cursor, Kind: kind, Typ: Void}
}

// Leaf wraps a node as a sibling-less TreeNode, the form the declaration and
// statement productions return (expression productions return a bare *Exp).
func Leaf(n Node) *TreeNode {
	return &TreeNode{Node: n}
}
