// Package vm implements G: the code generator that lowers an annotated AST
// into the textual stack-machine listing of SPEC_FULL.md §4.3. Grounded
// line-for-line on original_source/src/codegen.rs's gen_node_code, with the
// per-instruction-kind strings.Builder emission idiom carried over from the
// teacher's internal/vm/compiler.go.
//
// Unlike the teacher's vm package, there is no execution half here: running
// the emitted listing is a named Non-goal (§1).
package vm

import (
	"fmt"
	"strings"

	"github.com/ernestorb/vanillac/internal/ast"
	"github.com/ernestorb/vanillac/internal/config"
	"github.com/ernestorb/vanillac/internal/pipeline"
)

// Compiler owns the label allocator for one code-generation run.
type Compiler struct {
	labelCount int
	out        strings.Builder
}

func New() *Compiler {
	return &Compiler{}
}

func (c *Compiler) label() string {
	c.labelCount++
	return fmt.Sprintf("label%d", c.labelCount)
}

func (c *Compiler) emit(format string, args ...interface{}) {
	fmt.Fprintf(&c.out, format, args...)
	c.out.WriteByte('\n')
}

func (c *Compiler) emitLabel(name string) {
	c.out.WriteString(name)
	c.out.WriteString(":\n")
}

// Generate lowers root into a newline-separated instruction listing.
func Generate(root *ast.TreeNode) string {
	c := New()
	c.node(root)
	return c.out.String()
}

// Processor runs G as a pipeline stage. Per §7, code is generated only when
// no earlier stage reported an error: Process itself checks the Context and
// leaves Listing empty if any diagnostic has been recorded.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.HasErrors() {
		return ctx
	}
	ctx.Listing = Generate(ctx.AST)
	return ctx
}

// node lowers n and then, per §4.3, recurses into n.Sibling if present.
func (c *Compiler) node(n *ast.TreeNode) {
	for cur := n; cur != nil; cur = cur.Sibling {
		switch node := cur.Node.(type) {
		case *ast.Decl:
			c.decl(node)
		case *ast.Stmt:
			c.stmt(node)
		case *ast.Exp:
			c.exp(node)
		}
	}
}

func (c *Compiler) decl(d *ast.Decl) {
	switch kind := d.Kind.(type) {
	case ast.VarDecl:
		// Initializes to 1, not 0 — preserved verbatim (§9).
		c.emit("LOAD_CONST 1")
		c.emit("STORE_VAR %s", kind.Name)
	}
}

func (c *Compiler) stmt(s *ast.Stmt) {
	switch kind := s.Kind.(type) {
	case ast.IfStmt:
		c.ifStmt(kind)
	case ast.WhileStmt:
		c.whileStmt(kind)
	case ast.DoStmt:
		c.doStmt(kind)
	case ast.AssignStmt:
		c.exp(kind.Value)
		c.emit("STORE_VAR %s", kind.Name)
	case ast.InStmt:
		c.emit("READ")
		c.emit("STORE_VAR %s", kind.Name)
	case ast.OutStmt:
		c.exp(kind.Expr)
		c.emit("PRINT")
	}
}

// ifStmt lowers If{c,t,e} per §4.3. Note (preserved verbatim, §9): the
// then-branch falls through into the else-label's code — there is no
// unconditional jump past the else branch.
func (c *Compiler) ifStmt(s ast.IfStmt) {
	elseLabel := c.label()
	c.exp(s.Cond)
	c.emit("JMPEQ %s", elseLabel)
	if s.Then != nil {
		c.node(s.Then)
	}
	c.emitLabel(elseLabel)
	if s.Else != nil {
		c.node(s.Else)
	}
}

func (c *Compiler) whileStmt(s ast.WhileStmt) {
	condLabel := c.label()
	endLabel := c.label()
	c.emitLabel(condLabel)
	c.exp(s.Cond)
	c.emit("JMPEQ %s", endLabel)
	if s.Body != nil {
		c.node(s.Body)
	}
	c.emit("JMP %s", condLabel)
	c.emitLabel(endLabel)
}

func (c *Compiler) doStmt(s ast.DoStmt) {
	bodyLabel := c.label()
	c.emitLabel(bodyLabel)
	if s.Body != nil {
		c.node(s.Body)
	}
	c.exp(s.Cond)
	c.emit("JMPEQ %s", bodyLabel)
}

func (c *Compiler) exp(e *ast.Exp) {
	if e == nil {
		return
	}
	switch kind := e.Kind.(type) {
	case ast.IdExp:
		c.emit("LOAD_VAR %s", kind.Name)
	case ast.ConstExp:
		c.emit("LOAD_CONST %d", kind.Value)
	case ast.ConstFExp:
		c.emit("LOAD_CONST %g", kind.Value)
	case ast.OpExp:
		c.opExp(e, kind)
	}
}

func (c *Compiler) opExp(e *ast.Exp, op ast.OpExp) {
	// If Pass 3 pre-computed the value, skip re-emitting arithmetic entirely.
	if e.Val != nil {
		c.emit("LOAD_CONST %s", foldedLiteral(e.Val))
		return
	}
	switch {
	case config.ArithmeticOps[op.Op]:
		c.exp(op.Left)
		c.exp(op.Right)
		c.emit(config.InstructionFor[op.Op])
	case config.RelationalOps[op.Op] || config.EqualityOps[op.Op]:
		c.relational(op)
	case op.Op == ast.OpAnd:
		c.exp(op.Left)
		c.exp(op.Right)
		c.emit("MUL")
	case op.Op == ast.OpOr:
		c.exp(op.Left)
		c.exp(op.Right)
		c.emit("MUL")
		c.exp(op.Left)
		c.exp(op.Right)
		c.emit("SUM")
		c.emit("SUB")
	case op.Op == ast.OpNeg:
		c.emit("LOAD_CONST 1")
		c.exp(op.Left)
		c.emit("SUB")
	}
}

// relational lowers <,<=,>,>=,!=,== by subtracting the operands and
// conditionally jumping on the sign of the result (§4.3).
func (c *Compiler) relational(op ast.OpExp) {
	c.exp(op.Left)
	c.exp(op.Right)
	c.emit("SUB")
	trueLabel := c.label()
	endLabel := c.label()
	c.emit("%s %s", config.JumpInstructionFor[op.Op], trueLabel)
	c.emit("LOAD_CONST 0")
	c.emit("JMP %s", endLabel)
	c.emitLabel(trueLabel)
	c.emit("LOAD_CONST 1")
	c.emitLabel(endLabel)
}

func foldedLiteral(v *ast.Value) string {
	switch v.Kind {
	case ast.IntValue:
		return fmt.Sprintf("%d", v.I)
	case ast.FloatValue:
		return fmt.Sprintf("%g", v.F)
	case ast.BoolValue:
		if v.B {
			return "1"
		}
		return "0"
	default:
		return "0"
	}
}
