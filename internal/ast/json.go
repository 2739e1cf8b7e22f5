package ast

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ernestorb/vanillac/internal/token"
)

// jsonNode is the stable tagged encoding of a TreeNode used for the .json
// artifact (§6: "stable tagged encoding of the TreeNode (kind name +
// fields)"). Every node variant is flattened into one struct with
// `omitempty` fields rather than modeled as a Go interface, so that
// encoding/json can both marshal and unmarshal it without a registry.
type jsonNode struct {
	Kind   string       `json:"kind"`
	ID     string       `json:"id"`
	Cursor token.Cursor `json:"cursor"`

	// Decl: VarDecl
	VarType string `json:"varType,omitempty"`
	VarName string `json:"varName,omitempty"`

	// Stmt
	StmtKind string    `json:"stmtKind,omitempty"`
	Cond     *jsonNode `json:"cond,omitempty"`
	Then     *jsonNode `json:"then,omitempty"`
	Else     *jsonNode `json:"else,omitempty"`
	Body     *jsonNode `json:"body,omitempty"`
	Name     string    `json:"name,omitempty"`
	Value    *jsonNode `json:"value,omitempty"`
	Expr     *jsonNode `json:"expr,omitempty"`

	// Exp
	ExpKind    string      `json:"expKind,omitempty"`
	Op         string      `json:"op,omitempty"`
	Left       *jsonNode   `json:"left,omitempty"`
	Right      *jsonNode   `json:"right,omitempty"`
	IntLit     *int32      `json:"intLit,omitempty"`
	FloatLit   *float32    `json:"floatLit,omitempty"`
	Typ        string      `json:"typ,omitempty"`
	Val        *jsonValue  `json:"val,omitempty"`

	Sibling *jsonNode `json:"sibling,omitempty"`
}

type jsonValue struct {
	Kind string  `json:"kind"`
	I    int32   `json:"i,omitempty"`
	F    float32 `json:"f,omitempty"`
	B    bool    `json:"b,omitempty"`
}

// ToJSON renders root as the stable tagged encoding described in §6.
func ToJSON(root *TreeNode) ([]byte, error) {
	return json.MarshalIndent(toJSONNode(root), "", "  ")
}

// FromJSON parses the encoding produced by ToJSON back into a TreeNode.
// Round-tripping through these two functions yields a structurally equal
// AST (§8, invariant 4), modulo node identity (a fresh parse assigns fresh
// UUIDs; FromJSON instead preserves the IDs recorded in the JSON).
func FromJSON(data []byte) (*TreeNode, error) {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return nil, err
	}
	return fromJSONNode(&jn)
}

func toJSONNode(n *TreeNode) *jsonNode {
	if n == nil {
		return nil
	}
	var jn *jsonNode
	switch node := n.Node.(type) {
	case *Decl:
		jn = &jsonNode{Kind: "Decl", ID: node.ID.String(), Cursor: node.Cursor}
		if v, ok := node.Kind.(VarDecl); ok {
			jn.VarType = v.Typ.String()
			jn.VarName = v.Name
		}
	case *Stmt:
		jn = toJSONStmt(node)
	case *Exp:
		jn = toJSONExp(node)
	}
	jn.Sibling = toJSONNode(n.Sibling)
	return jn
}

func toJSONStmt(s *Stmt) *jsonNode {
	jn := &jsonNode{Kind: "Stmt", ID: s.ID.String(), Cursor: s.Cursor}
	switch kind := s.Kind.(type) {
	case IfStmt:
		jn.StmtKind = "If"
		jn.Cond = toJSONExpWrapped(kind.Cond)
		jn.Then = toJSONNode(kind.Then)
		jn.Else = toJSONNode(kind.Else)
	case WhileStmt:
		jn.StmtKind = "While"
		jn.Cond = toJSONExpWrapped(kind.Cond)
		jn.Body = toJSONNode(kind.Body)
	case DoStmt:
		jn.StmtKind = "Do"
		jn.Body = toJSONNode(kind.Body)
		jn.Cond = toJSONExpWrapped(kind.Cond)
	case AssignStmt:
		jn.StmtKind = "Assign"
		jn.Name = kind.Name
		jn.Value = toJSONExpWrapped(kind.Value)
	case InStmt:
		jn.StmtKind = "In"
		jn.Name = kind.Name
	case OutStmt:
		jn.StmtKind = "Out"
		jn.Expr = toJSONExpWrapped(kind.Expr)
	}
	return jn
}

func toJSONExpWrapped(e *Exp) *jsonNode {
	if e == nil {
		return nil
	}
	return toJSONExp(e)
}

func toJSONExp(e *Exp) *jsonNode {
	jn := &jsonNode{Kind: "Exp", ID: e.ID.String(), Cursor: e.Cursor, Typ: e.Typ.String()}
	if e.Val != nil {
		jn.Val = &jsonValue{Kind: valueKindName(e.Val.Kind), I: e.Val.I, F: e.Val.F, B: e.Val.B}
	}
	switch kind := e.Kind.(type) {
	case OpExp:
		jn.ExpKind = "Op"
		jn.Op = string(kind.Op)
		jn.Left = toJSONExpWrapped(kind.Left)
		jn.Right = toJSONExpWrapped(kind.Right)
	case ConstExp:
		jn.ExpKind = "Const"
		v := kind.Value
		jn.IntLit = &v
	case ConstFExp:
		jn.ExpKind = "ConstF"
		v := kind.Value
		jn.FloatLit = &v
	case IdExp:
		jn.ExpKind = "Id"
		jn.Name = kind.Name
	}
	return jn
}

func valueKindName(k ValueKind) string {
	switch k {
	case IntValue:
		return "Int"
	case FloatValue:
		return "Float"
	case BoolValue:
		return "Boolean"
	default:
		return ""
	}
}

func typeFromName(s string) Type {
	switch s {
	case "integer":
		return Integer
	case "double":
		return Float
	case "boolean":
		return Boolean
	default:
		return Void
	}
}

func fromJSONNode(jn *jsonNode) (*TreeNode, error) {
	if jn == nil {
		return nil, nil
	}
	var node Node
	var err error
	switch jn.Kind {
	case "Decl":
		id, perr := uuid.Parse(jn.ID)
		if perr != nil {
			return nil, perr
		}
		node = &Decl{ID: id, Cursor: jn.Cursor, Kind: VarDecl{Typ: typeFromName(jn.VarType), Name: jn.VarName}}
	case "Stmt":
		node, err = fromJSONStmt(jn)
	case "Exp":
		node, err = fromJSONExp(jn)
	default:
		return nil, fmt.Errorf("ast: unknown json node kind %q", jn.Kind)
	}
	if err != nil {
		return nil, err
	}
	sibling, err := fromJSONNode(jn.Sibling)
	if err != nil {
		return nil, err
	}
	return &TreeNode{Node: node, Sibling: sibling}, nil
}

func fromJSONStmt(jn *jsonNode) (*Stmt, error) {
	id, err := uuid.Parse(jn.ID)
	if err != nil {
		return nil, err
	}
	var kind StmtKind
	switch jn.StmtKind {
	case "If":
		cond, err := fromJSONExpField(jn.Cond)
		if err != nil {
			return nil, err
		}
		then, err := fromJSONNode(jn.Then)
		if err != nil {
			return nil, err
		}
		els, err := fromJSONNode(jn.Else)
		if err != nil {
			return nil, err
		}
		kind = IfStmt{Cond: cond, Then: then, Else: els}
	case "While":
		cond, err := fromJSONExpField(jn.Cond)
		if err != nil {
			return nil, err
		}
		body, err := fromJSONNode(jn.Body)
		if err != nil {
			return nil, err
		}
		kind = WhileStmt{Cond: cond, Body: body}
	case "Do":
		body, err := fromJSONNode(jn.Body)
		if err != nil {
			return nil, err
		}
		cond, err := fromJSONExpField(jn.Cond)
		if err != nil {
			return nil, err
		}
		kind = DoStmt{Body: body, Cond: cond}
	case "Assign":
		value, err := fromJSONExpField(jn.Value)
		if err != nil {
			return nil, err
		}
		kind = AssignStmt{Name: jn.Name, Value: value}
	case "In":
		kind = InStmt{Name: jn.Name}
	case "Out":
		expr, err := fromJSONExpField(jn.Expr)
		if err != nil {
			return nil, err
		}
		kind = OutStmt{Expr: expr}
	default:
		return nil, fmt.Errorf("ast: unknown json stmt kind %q", jn.StmtKind)
	}
	return &Stmt{ID: id, Cursor: jn.Cursor, Kind: kind}, nil
}

func fromJSONExpField(jn *jsonNode) (*Exp, error) {
	if jn == nil {
		return nil, nil
	}
	return fromJSONExp(jn)
}

func fromJSONExp(jn *jsonNode) (*Exp, error) {
	id, err := uuid.Parse(jn.ID)
	if err != nil {
		return nil, err
	}
	var kind ExpKind
	switch jn.ExpKind {
	case "Op":
		left, err := fromJSONExpField(jn.Left)
		if err != nil {
			return nil, err
		}
		right, err := fromJSONExpField(jn.Right)
		if err != nil {
			return nil, err
		}
		kind = OpExp{Op: Op(jn.Op), Left: left, Right: right}
	case "Const":
		v := int32(0)
		if jn.IntLit != nil {
			v = *jn.IntLit
		}
		kind = ConstExp{Value: v}
	case "ConstF":
		v := float32(0)
		if jn.FloatLit != nil {
			v = *jn.FloatLit
		}
		kind = ConstFExp{Value: v}
	case "Id":
		kind = IdExp{Name: jn.Name}
	default:
		return nil, fmt.Errorf("ast: unknown json exp kind %q", jn.ExpKind)
	}
	e := &Exp{ID: id, Cursor: jn.Cursor, Kind: kind, Typ: typeFromName(jn.Typ)}
	if jn.Val != nil {
		switch jn.Val.Kind {
		case "Int":
			e.Val = IntVal(jn.Val.I)
		case "Float":
			e.Val = FloatVal(jn.Val.F)
		case "Boolean":
			e.Val = BoolVal(jn.Val.B)
		}
	}
	return e, nil
}
