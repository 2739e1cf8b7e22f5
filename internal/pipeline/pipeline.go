// Package pipeline wires the lexer, parser, analyzer and code generator into a
// single ordered sequence of stages threading one shared Context.
package pipeline

import (
	"github.com/ernestorb/vanillac/internal/ast"
	"github.com/ernestorb/vanillac/internal/diagnostics"
	"github.com/ernestorb/vanillac/internal/symbols"
	"github.com/ernestorb/vanillac/internal/token"
)

// TokenStream is the contract P consumes: a buffered, read-only view over the
// token list produced by an external scanner. P never sees source text.
type TokenStream interface {
	// Next consumes and returns the next token from the stream.
	Next() token.Token
	// Peek returns up to n upcoming tokens without consuming them.
	Peek(n int) []token.Token
}

// Context holds everything passed between pipeline stages. A fresh run owns
// its own Context; there is no process-wide state (§5).
type Context struct {
	SourceCode  string
	FilePath    string
	TokenStream TokenStream
	AST         *ast.TreeNode
	Symbols     *symbols.Table
	Errors      []*diagnostics.CompileError
	Listing     string
}

// NewContext initializes a Context ready for the lexer stage.
func NewContext(source, filePath string) *Context {
	return &Context{
		SourceCode: source,
		FilePath:   filePath,
		Symbols:    symbols.NewTable(),
		Errors:     []*diagnostics.CompileError{},
	}
}

// HasErrors reports whether any stage has appended a diagnostic so far.
func (c *Context) HasErrors() bool {
	return len(c.Errors) > 0
}

// Processor is one stage of the pipeline.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs a fixed sequence of Processors over one Context.
type Pipeline struct {
	stages []Processor
}

func New(stages ...Processor) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes every stage in order, threading the same Context through all of them.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, stage := range p.stages {
		ctx = stage.Process(ctx)
	}
	return ctx
}
