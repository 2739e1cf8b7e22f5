package pipeline

import (
	"testing"

	"github.com/ernestorb/vanillac/internal/diagnostics"
	"github.com/ernestorb/vanillac/internal/token"
)

type stageFunc func(ctx *Context) *Context

func (f stageFunc) Process(ctx *Context) *Context { return f(ctx) }

func TestPipelineRunThreadsContextThroughStages(t *testing.T) {
	var order []string
	p := New(
		stageFunc(func(ctx *Context) *Context {
			order = append(order, "first")
			ctx.Listing = "a"
			return ctx
		}),
		stageFunc(func(ctx *Context) *Context {
			order = append(order, "second")
			ctx.Listing += "b"
			return ctx
		}),
	)

	ctx := NewContext("main {}", "prog.vn")
	ctx = p.Run(ctx)

	if got, want := ctx.Listing, "ab"; got != want {
		t.Errorf("ctx.Listing = %q, want %q", got, want)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("stage order = %v, want [first second]", order)
	}
}

func TestHasErrors(t *testing.T) {
	ctx := NewContext("", "prog.vn")
	if ctx.HasErrors() {
		t.Fatal("fresh context must start without errors")
	}
	ctx.Errors = append(ctx.Errors, diagnostics.New(diagnostics.PhaseLexer, diagnostics.ErrL001, token.Cursor{}, "@"))
	if !ctx.HasErrors() {
		t.Fatal("context with an appended error must report HasErrors() == true")
	}
}
