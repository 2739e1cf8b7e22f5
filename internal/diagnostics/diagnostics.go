// Package diagnostics accumulates the ordered error list shared by P, A and the lexer.
package diagnostics

import (
	"fmt"

	"github.com/ernestorb/vanillac/internal/token"
)

// Phase identifies which pipeline stage raised a CompileError.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseAnalyzer Phase = "analyzer"
)

// Code is a stable identifier for one diagnostic template.
type Code string

const (
	ErrL001 Code = "L001" // illegal character

	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // missing keyword/punctuator
	ErrP003 Code = "P003" // stray tokens after main
	ErrP004 Code = "P004" // invalid expression
	ErrP005 Code = "P005" // missing sign on signed literal

	ErrA001 Code = "A001" // double declaration
	ErrA002 Code = "A002" // use before declaration
	ErrA003 Code = "A003" // condition is not boolean
	ErrA004 Code = "A004" // assignment type mismatch
	ErrA005 Code = "A005" // boolean-valued assignment
	ErrA006 Code = "A006" // invalid operand types
	ErrA007 Code = "A007" // stdout on non-numeric expression
	ErrA008 Code = "A008" // division by zero
)

var templates = map[Code]string{
	ErrL001: "invalid character: %q",
	ErrP001: "unexpected token: expected %s, got %q",
	ErrP002: "expected %s",
	ErrP003: "cannot write outside main",
	ErrP004: "invalid expression starting at %q",
	ErrP005: "expected a sign on signed literal %q",
	ErrA001: "double declaration of %q",
	ErrA002: "use before declaration of %q",
	ErrA003: "condition of %s is not boolean",
	ErrA004: "cannot assign %s to variable %q of type %s",
	ErrA005: "cannot assign a boolean expression to variable %q",
	ErrA006: "invalid operand types for operator %s",
	ErrA007: "stdout is only defined for integer and float expressions",
	ErrA008: "division by zero",
}

// CompileError is the single diagnostic type produced by the lexer, parser and analyzer.
// It plays the role that ParseError/AnalyzeError play in the data model: one ordered,
// appended list of these per compilation.
type CompileError struct {
	Phase Phase
	Code  Code
	At    token.Cursor
	Args  []interface{}
}

func (e *CompileError) Error() string {
	template, ok := templates[e.Code]
	if !ok {
		return fmt.Sprintf("unknown diagnostic code %s", e.Code)
	}
	message := fmt.Sprintf(template, e.Args...)
	return fmt.Sprintf("[%s] error at %s [%s]: %s", e.Phase, e.At, e.Code, message)
}

func New(phase Phase, code Code, at token.Cursor, args ...interface{}) *CompileError {
	return &CompileError{Phase: phase, Code: code, At: at, Args: args}
}
