// Package parser implements P: a recursive-descent parser with anchored
// error recovery, consuming a pipeline.TokenStream and producing a
// sibling-linked ast.TreeNode plus an ordered diagnostic list. It never
// panics on malformed input; every failure mode appends one
// diagnostics.CompileError and resynchronizes (§4.1).
package parser

import (
	"strconv"
	"strings"

	"github.com/ernestorb/vanillac/internal/ast"
	"github.com/ernestorb/vanillac/internal/diagnostics"
	"github.com/ernestorb/vanillac/internal/pipeline"
	"github.com/ernestorb/vanillac/internal/token"
)

// Parser holds the mutable state of one parse: the token stream, the
// current/lookahead token and the accumulated error list.
type Parser struct {
	stream    pipeline.TokenStream
	curToken  token.Token
	peekToken token.Token
	errors    []*diagnostics.CompileError
}

func New(stream pipeline.TokenStream) *Parser {
	p := &Parser{stream: stream}
	// Prime curToken/peekToken, following the teacher's parser.go convention.
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) cursor() token.Cursor { return p.curToken.Start }

func (p *Parser) errorf(code diagnostics.Code, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.New(diagnostics.PhaseParser, code, p.cursor(), args...))
}

// expect consumes curToken if it has type t, appending a P001 diagnostic and
// leaving curToken in place otherwise.
func (p *Parser) expect(t token.Type) bool {
	if p.curToken.Type == t {
		p.advance()
		return true
	}
	p.errorf(diagnostics.ErrP001, string(t), p.curToken.Lexeme)
	return false
}

// syncTo advances tokens until one of type equal to any of safe has been
// CONSUMED, implementing the anchored synchronization of §4.1. It always
// consumes at least the safe token itself (or stops at EOF).
func (p *Parser) syncTo(safe ...token.Type) {
	for {
		if p.curToken.Type == token.EOF {
			return
		}
		isSafe := false
		for _, s := range safe {
			if p.curToken.Type == s {
				isSafe = true
				break
			}
		}
		p.advance()
		if isSafe {
			return
		}
	}
}

// Parse runs the parser to completion and returns the program's AST (nil if
// nothing at all could be recovered) plus the ordered diagnostic list.
func Parse(stream pipeline.TokenStream) (*ast.TreeNode, []*diagnostics.CompileError) {
	p := New(stream)
	root := p.program()
	return root, p.errors
}

// Processor runs P as a pipeline stage.
type Processor struct{}

func (Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	root, errs := Parse(ctx.TokenStream)
	ctx.AST = root
	ctx.Errors = append(ctx.Errors, errs...)
	return ctx
}

// ---- program = 'main' '{' decl-list '}' ----

func (p *Parser) program() *ast.TreeNode {
	if !p.expect(token.MAIN) {
		p.syncTo(token.LBRACE)
	}
	if !p.expect(token.LBRACE) {
		p.syncTo(token.LBRACE)
	}
	body := p.declList()
	p.expect(token.RBRACE)
	if p.curToken.Type != token.EOF {
		p.errorf(diagnostics.ErrP003)
	}
	return body
}

// decl-list = decl*
func (p *Parser) declList() *ast.TreeNode {
	var head, tail *ast.TreeNode
	for p.curToken.Type != token.RBRACE && p.curToken.Type != token.EOF {
		d := p.decl()
		if d == nil {
			continue
		}
		if head == nil {
			head = d
			tail = d.LastSibling()
		} else {
			tail.Sibling = d
			tail = d.LastSibling()
		}
	}
	return head
}

// decl = var-decl | stmt-list (stmt-list reduced to one stmt per call; the
// caller's loop accumulates the sibling chain across declList).
func (p *Parser) decl() *ast.TreeNode {
	if p.curToken.Type == token.INTEGER || p.curToken.Type == token.DOUBLE {
		return p.varDecl()
	}
	return p.stmt()
}

// var-decl = ('integer'|'double') id-list ';'
func (p *Parser) varDecl() *ast.TreeNode {
	typ := ast.Integer
	if p.curToken.Type == token.DOUBLE {
		typ = ast.Float
	}
	p.advance()

	var head, tail *ast.TreeNode
	for {
		cursor := p.cursor()
		if p.curToken.Type != token.ID {
			p.errorf(diagnostics.ErrP002, "an identifier")
			p.syncTo(token.SEMI)
			return head
		}
		name := p.curToken.Lexeme
		p.advance()
		node := ast.Leaf(ast.NewDecl(cursor, ast.VarDecl{Typ: typ, Name: name}))
		if head == nil {
			head, tail = node, node
		} else {
			tail.Sibling = node
			tail = node
		}
		if p.curToken.Type != token.COMMA {
			break
		}
		p.advance()
	}
	p.expect(token.SEMI)
	return head
}

// stmt-list = stmt+  (one statement per call; declList threads the chain)
func (p *Parser) stmt() *ast.TreeNode {
	switch p.curToken.Type {
	case token.IF:
		return p.selection()
	case token.WHILE:
		return p.iteration()
	case token.DO:
		return p.repetition()
	case token.STDIN:
		return p.read()
	case token.STDOUT:
		return p.write()
	case token.ID:
		return p.assignment()
	case token.INTEGER, token.DOUBLE:
		return p.varDecl()
	default:
		p.errorf(diagnostics.ErrP004, p.curToken.Lexeme)
		p.syncTo(token.SEMI, token.RBRACE)
		return nil
	}
}

func (p *Parser) stmtListBlock() *ast.TreeNode {
	if !p.expect(token.LBRACE) {
		p.syncTo(token.RBRACE)
		return nil
	}
	var head, tail *ast.TreeNode
	for p.curToken.Type != token.RBRACE && p.curToken.Type != token.EOF {
		s := p.stmt()
		if s == nil {
			continue
		}
		if head == nil {
			head, tail = s, s.LastSibling()
		} else {
			tail.Sibling = s
			tail = s.LastSibling()
		}
	}
	p.expect(token.RBRACE)
	return head
}

// selection = 'if' expr '{' stmt-list '}' ('else' '{' stmt-list '}')?
func (p *Parser) selection() *ast.TreeNode {
	cursor := p.cursor()
	p.advance()
	cond := p.expr()
	then := p.stmtListBlock()
	var elseBranch *ast.TreeNode
	if p.curToken.Type == token.ELSE {
		p.advance()
		elseBranch = p.stmtListBlock()
	}
	return ast.Leaf(ast.NewStmt(cursor, ast.IfStmt{Cond: cond, Then: then, Else: elseBranch}))
}

// iteration = 'while' expr '{' stmt-list '}'
func (p *Parser) iteration() *ast.TreeNode {
	cursor := p.cursor()
	p.advance()
	cond := p.expr()
	body := p.stmtListBlock()
	return ast.Leaf(ast.NewStmt(cursor, ast.WhileStmt{Cond: cond, Body: body}))
}

// repetition = 'do' '{' stmt-list '}' 'while' expr ';'
func (p *Parser) repetition() *ast.TreeNode {
	cursor := p.cursor()
	p.advance()
	body := p.stmtListBlock()
	p.expect(token.WHILE)
	cond := p.expr()
	p.expect(token.SEMI)
	return ast.Leaf(ast.NewStmt(cursor, ast.DoStmt{Body: body, Cond: cond}))
}

// read = 'stdin' ID ';'
func (p *Parser) read() *ast.TreeNode {
	cursor := p.cursor()
	p.advance()
	if p.curToken.Type != token.ID {
		p.errorf(diagnostics.ErrP002, "an identifier")
		p.syncTo(token.SEMI)
		return nil
	}
	name := p.curToken.Lexeme
	p.advance()
	p.expect(token.SEMI)
	return ast.Leaf(ast.NewStmt(cursor, ast.InStmt{Name: name}))
}

// write = 'stdout' expr ';'
func (p *Parser) write() *ast.TreeNode {
	cursor := p.cursor()
	p.advance()
	e := p.expr()
	p.expect(token.SEMI)
	return ast.Leaf(ast.NewStmt(cursor, ast.OutStmt{Expr: e}))
}

// assignment = ID (('++'|'--') ';' | '=' expr ';')
func (p *Parser) assignment() *ast.TreeNode {
	cursor := p.cursor()
	name := p.curToken.Lexeme
	p.advance()

	switch p.curToken.Type {
	case token.INCR, token.DECR:
		op := ast.OpAdd
		if p.curToken.Type == token.DECR {
			op = ast.OpSub
		}
		p.advance()
		p.expect(token.SEMI)
		value := desugarIncDec(cursor, name, op)
		return ast.Leaf(ast.NewStmt(cursor, ast.AssignStmt{Name: name, Value: value}))
	case token.ASSIGN:
		p.advance()
		value := p.expr()
		p.expect(token.SEMI)
		return ast.Leaf(ast.NewStmt(cursor, ast.AssignStmt{Name: name, Value: value}))
	default:
		p.errorf(diagnostics.ErrP001, "'++', '--' or '='", p.curToken.Lexeme)
		p.syncTo(token.SEMI)
		return nil
	}
}

func desugarIncDec(cursor token.Cursor, name string, op ast.Op) *ast.Exp {
	left := ast.NewExp(cursor, ast.IdExp{Name: name})
	right := ast.NewExp(cursor, ast.ConstExp{Value: 1})
	return ast.NewExp(cursor, ast.OpExp{Op: op, Left: left, Right: right})
}

// ---- expressions ----

// expr = and-expr ('||' and-expr)?
func (p *Parser) expr() *ast.Exp {
	left := p.andExpr()
	if p.curToken.Type == token.OR {
		cursor := p.cursor()
		p.advance()
		right := p.andExpr()
		return ast.NewExp(cursor, ast.OpExp{Op: ast.OpOr, Left: left, Right: right})
	}
	return left
}

// and-expr = not-expr ('&&' not-expr)?
func (p *Parser) andExpr() *ast.Exp {
	left := p.notExpr()
	if p.curToken.Type == token.AND {
		cursor := p.cursor()
		p.advance()
		right := p.notExpr()
		return ast.NewExp(cursor, ast.OpExp{Op: ast.OpAnd, Left: left, Right: right})
	}
	return left
}

// not-expr = '!' rel-expr | rel-expr
func (p *Parser) notExpr() *ast.Exp {
	if p.curToken.Type == token.NEG {
		cursor := p.cursor()
		p.advance()
		operand := p.relExpr()
		return ast.NewExp(cursor, ast.OpExp{Op: ast.OpNeg, Left: operand, Right: nil})
	}
	return p.relExpr()
}

var relOps = map[token.Type]ast.Op{
	token.LT: ast.OpLt, token.LE: ast.OpLe, token.GT: ast.OpGt, token.GE: ast.OpGe,
	token.EQ: ast.OpEq, token.NE: ast.OpNe,
}

// rel-expr = simple ((<|<=|>|>=|==|!=) simple)?
func (p *Parser) relExpr() *ast.Exp {
	left := p.simple()
	if op, ok := relOps[p.curToken.Type]; ok {
		cursor := p.cursor()
		p.advance()
		right := p.simple()
		return ast.NewExp(cursor, ast.OpExp{Op: op, Left: left, Right: right})
	}
	return left
}

// simple = term (('+'|'-') term)*
//
// Tie-break (§4.1): a term that begins with a signed INT/FLOAT literal whose
// lexeme itself carries the '+'/'-' (rather than an operator token) is
// treated here as that operator applied to the unsigned remainder of the
// lexeme, so the grammar still sees a binary + or - at this level.
func (p *Parser) simple() *ast.Exp {
	left := p.term()
	for {
		if p.curToken.Type == token.SUM || p.curToken.Type == token.MIN {
			op := ast.OpAdd
			if p.curToken.Type == token.MIN {
				op = ast.OpSub
			}
			cursor := p.cursor()
			p.advance()
			right := p.term()
			left = ast.NewExp(cursor, ast.OpExp{Op: op, Left: left, Right: right})
			continue
		}
		if op, rest, ok := signedLiteralTieBreak(p.curToken); ok {
			cursor := p.cursor()
			p.curToken.Lexeme = rest
			right := p.term()
			left = ast.NewExp(cursor, ast.OpExp{Op: op, Left: left, Right: right})
			continue
		}
		// A bare (unsigned) INT/FLOAT directly after a completed term can
		// only have arrived here as a missing continuation operator: report
		// it specifically rather than letting it fall through as whatever
		// generic token the caller expects next (e.g. ';').
		if p.curToken.Type == token.INT || p.curToken.Type == token.FLOAT {
			p.errorf(diagnostics.ErrP005, p.curToken.Lexeme)
			p.advance()
			continue
		}
		break
	}
	return left
}

// signedLiteralTieBreak inspects an INT/FLOAT token for an embedded sign and,
// if present, returns the operator it stands for and the token with the sign
// stripped from its lexeme (left in place for term() to consume as the
// right-hand operand).
func signedLiteralTieBreak(tok token.Token) (ast.Op, string, bool) {
	if tok.Type != token.INT && tok.Type != token.FLOAT {
		return "", "", false
	}
	if strings.HasPrefix(tok.Lexeme, "+") {
		return ast.OpAdd, tok.Lexeme[1:], true
	}
	if strings.HasPrefix(tok.Lexeme, "-") {
		return ast.OpSub, tok.Lexeme[1:], true
	}
	return "", "", false
}

// term = factor (('*'|'/'|'%') factor)*
func (p *Parser) term() *ast.Exp {
	left := p.factor()
	for p.curToken.Type == token.TIMES || p.curToken.Type == token.DIV || p.curToken.Type == token.MODULUS {
		var op ast.Op
		switch p.curToken.Type {
		case token.TIMES:
			op = ast.OpMul
		case token.DIV:
			op = ast.OpDiv
		default:
			op = ast.OpMod
		}
		cursor := p.cursor()
		p.advance()
		right := p.factor()
		left = ast.NewExp(cursor, ast.OpExp{Op: op, Left: left, Right: right})
	}
	return left
}

// factor = component ('^' component)*
func (p *Parser) factor() *ast.Exp {
	left := p.component()
	for p.curToken.Type == token.POWER {
		cursor := p.cursor()
		p.advance()
		right := p.component()
		left = ast.NewExp(cursor, ast.OpExp{Op: ast.OpPow, Left: left, Right: right})
	}
	return left
}

// component = '(' expr ')' | INT | FLOAT | ID ('++'|'--')?
func (p *Parser) component() *ast.Exp {
	cursor := p.cursor()
	switch p.curToken.Type {
	case token.LPAREN:
		p.advance()
		e := p.expr()
		p.expect(token.RPAREN)
		return e
	case token.INT:
		lexeme := p.curToken.Lexeme
		p.advance()
		v, err := strconv.ParseInt(lexeme, 10, 32)
		if err != nil {
			p.errorf(diagnostics.ErrP004, lexeme)
			v = 0
		}
		return ast.NewExp(cursor, ast.ConstExp{Value: int32(v)})
	case token.FLOAT:
		lexeme := p.curToken.Lexeme
		p.advance()
		v, err := strconv.ParseFloat(lexeme, 32)
		if err != nil {
			p.errorf(diagnostics.ErrP004, lexeme)
			v = 0
		}
		return ast.NewExp(cursor, ast.ConstFExp{Value: float32(v)})
	case token.ID:
		name := p.curToken.Lexeme
		p.advance()
		if p.curToken.Type == token.INCR || p.curToken.Type == token.DECR {
			op := ast.OpAdd
			if p.curToken.Type == token.DECR {
				op = ast.OpSub
			}
			p.advance()
			return desugarIncDec(cursor, name, op)
		}
		return ast.NewExp(cursor, ast.IdExp{Name: name})
	default:
		p.errorf(diagnostics.ErrP004, p.curToken.Lexeme)
		p.syncTo(token.SEMI, token.RPAREN, token.RBRACE)
		return ast.NewExp(cursor, ast.ConstExp{Value: 0})
	}
}
