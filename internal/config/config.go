// Package config is the single source of truth for Vanilla's fixed tables:
// the operator classes, the operator-to-instruction mapping and source file
// conventions. The keyword table lives in internal/token. Following the teacher's internal/config package, this is
// plain Go data rather than anything read from a config file or environment
// (see DESIGN.md for why no configuration library is wired in here).
package config

import "github.com/ernestorb/vanillac/internal/ast"

// SourceFileExtension is the canonical extension for Vanilla source files.
const SourceFileExtension = ".vn"

// Artifact suffixes produced by the CLI driver (§4.5/§6).
const (
	LexArtifactSuffix     = ".lex"
	JSONArtifactSuffix    = ".json"
	ListingArtifactSuffix = ".vm"
)

// ArithmeticOps are the operators that participate in arithmetic typing
// (§4.2: Integer/Float-typed operands, Float result if either is Float).
var ArithmeticOps = map[ast.Op]bool{
	ast.OpAdd: true,
	ast.OpSub: true,
	ast.OpMul: true,
	ast.OpDiv: true,
	ast.OpMod: true,
	ast.OpPow: true,
}

// RelationalOps produce a Boolean from two numeric operands.
var RelationalOps = map[ast.Op]bool{
	ast.OpLt: true,
	ast.OpLe: true,
	ast.OpGt: true,
	ast.OpGe: true,
}

// EqualityOps produce a Boolean from two numeric operands or two Booleans.
var EqualityOps = map[ast.Op]bool{
	ast.OpEq: true,
	ast.OpNe: true,
}

// LogicalOps require and produce Boolean operands.
var LogicalOps = map[ast.Op]bool{
	ast.OpAnd: true,
	ast.OpOr:  true,
}

// InstructionFor maps an arithmetic Op to the stack-machine mnemonic G emits
// for it (§4.3).
var InstructionFor = map[ast.Op]string{
	ast.OpAdd: "ADD",
	ast.OpSub: "SUB",
	ast.OpMul: "MUL",
	ast.OpDiv: "DIV",
	ast.OpMod: "MOD",
	ast.OpPow: "POW",
}

// JumpInstructionFor maps a relational/equality Op to the conditional jump
// mnemonic used after the operands are subtracted (§4.3).
var JumpInstructionFor = map[ast.Op]string{
	ast.OpLt: "JMPLT",
	ast.OpLe: "JMPLE",
	ast.OpGt: "JMPGT",
	ast.OpGe: "JMPGE",
	ast.OpEq: "JMPEQ",
	ast.OpNe: "JMPNE",
}
