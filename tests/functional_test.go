// Package tests exercises the full lexer -> parser -> analyzer -> codegen
// pipeline end to end against the scenarios documented in the specification,
// mirroring the teacher's own top-level functional_test.go: build a small
// program, run it through the assembled pipeline, assert on the produced
// artifacts.
package tests

import (
	"strings"
	"testing"

	"github.com/ernestorb/vanillac/internal/analyzer"
	"github.com/ernestorb/vanillac/internal/diagnostics"
	"github.com/ernestorb/vanillac/internal/lexer"
	"github.com/ernestorb/vanillac/internal/parser"
	"github.com/ernestorb/vanillac/internal/pipeline"
	"github.com/ernestorb/vanillac/internal/vm"
)

func run(source string) *pipeline.Context {
	ctx := pipeline.NewContext(source, "scenario.vn")
	p := pipeline.New(lexer.Processor{}, parser.Processor{}, analyzer.Processor{}, vm.Processor{})
	return p.Run(ctx)
}

func hasCode(ctx *pipeline.Context, code diagnostics.Code) bool {
	for _, e := range ctx.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// S1 — successful arithmetic fold.
func TestScenarioArithmeticFold(t *testing.T) {
	ctx := run("main { integer x; x = 2 + 3 * 4; stdout x; }")
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	sym := ctx.Symbols.Lookup("x")
	if sym == nil || sym.Value == nil || sym.Value.I != 14 {
		t.Fatalf("symbol[x].Value = %+v, want IntValue 14", sym)
	}
	if !strings.Contains(ctx.Listing, "LOAD_CONST 14") {
		t.Fatalf("listing = %q, want a folded LOAD_CONST 14", ctx.Listing)
	}
	idx := strings.Index(ctx.Listing, "LOAD_CONST 14")
	rest := ctx.Listing[idx:]
	for _, want := range []string{"LOAD_CONST 14", "STORE_VAR x", "LOAD_VAR x", "PRINT"} {
		pos := strings.Index(rest, want)
		if pos < 0 {
			t.Fatalf("listing = %q, expected to find %q in order", ctx.Listing, want)
		}
		rest = rest[pos+len(want):]
	}
}

// S2 — double declaration.
func TestScenarioDoubleDeclaration(t *testing.T) {
	ctx := run("main { integer a; integer a; }")
	if !hasCode(ctx, diagnostics.ErrA001) {
		t.Fatalf("expected ErrA001, got %v", ctx.Errors)
	}
	if ctx.Listing != "" {
		t.Fatalf("listing = %q, want no codegen once analysis reports errors", ctx.Listing)
	}
}

// S3 — use before declaration; the declaration itself still succeeds.
func TestScenarioUseBeforeDeclaration(t *testing.T) {
	ctx := run("main { x = 1; integer x; }")
	if !hasCode(ctx, diagnostics.ErrA002) {
		t.Fatalf("expected ErrA002, got %v", ctx.Errors)
	}
	if ctx.Symbols.Lookup("x") == nil {
		t.Fatal("declaration of x must still succeed despite the earlier use-before-declaration error")
	}
}

// S4 — if/else lowering, preserving the documented fall-through quirk.
func TestScenarioIfElseLowering(t *testing.T) {
	ctx := run("main { integer x; stdin x; if x < 5 { stdout x; } else { stdout 0; } }")
	if ctx.HasErrors() {
		t.Fatalf("unexpected errors: %v", ctx.Errors)
	}
	if !strings.Contains(ctx.Listing, "JMPEQ") {
		t.Fatalf("listing = %q, want a JMPEQ guarding the if", ctx.Listing)
	}
	// Both branch bodies follow the JMPEQ guard, in then-before-else order.
	// The search starts at the guard so that the condition's own LOAD_VAR x
	// and the comparison's LOAD_CONST 0 are not matched.
	guarded := ctx.Listing[strings.Index(ctx.Listing, "JMPEQ"):]
	thenIdx := strings.Index(guarded, "LOAD_VAR x")
	elseIdx := strings.Index(guarded, "LOAD_CONST 0")
	if thenIdx < 0 || elseIdx < 0 || thenIdx > elseIdx {
		t.Fatalf("listing = %q, want the then-branch's LOAD_VAR x before the else-branch's LOAD_CONST 0", ctx.Listing)
	}
}

// S5 — division by zero.
func TestScenarioDivisionByZero(t *testing.T) {
	ctx := run("main { integer x; x = 10 / 0; }")
	if !hasCode(ctx, diagnostics.ErrA008) {
		t.Fatalf("expected ErrA008, got %v", ctx.Errors)
	}
	if ctx.Listing != "" {
		t.Fatalf("listing = %q, want no codegen once analysis reports errors", ctx.Listing)
	}
}

// S6 — mismatched types (assigning a boolean expression to an integer).
func TestScenarioMismatchedTypes(t *testing.T) {
	ctx := run("main { integer b; b = 1 < 2; }")
	if !hasCode(ctx, diagnostics.ErrA005) {
		t.Fatalf("expected ErrA005, got %v", ctx.Errors)
	}
	if ctx.Listing != "" {
		t.Fatalf("listing = %q, want no codegen once analysis reports errors", ctx.Listing)
	}
}
