// Package symbols implements Vanilla's single flat symbol table. There is
// exactly one scope (the "main" block, §1 Non-goals: no nested scopes or
// functions), so unlike the teacher's nested-scope SymbolTable this one is a
// plain map threaded by the analyzer across its three passes.
package symbols

import (
	"fmt"
	"strings"

	"github.com/ernestorb/vanillac/internal/ast"
	"github.com/ernestorb/vanillac/internal/token"
)

// Symbol is one declared variable.
type Symbol struct {
	Name        string
	MemLocation uint32
	Declaration token.Cursor
	Typ         ast.Type
	Value       *ast.Value
	Usages      []token.Cursor
}

// Table maps a declared variable name to its Symbol. Names are unique;
// MemLocation is a dense permutation of [0, |symbols|) in declaration order.
type Table struct {
	order []string
	store map[string]*Symbol
}

func NewTable() *Table {
	return &Table{store: make(map[string]*Symbol)}
}

// Has reports whether name has been declared.
func (t *Table) Has(name string) bool {
	_, ok := t.store[name]
	return ok
}

// Declare inserts a new Symbol for name, allocating the next dense
// MemLocation in declaration order. The caller must have already checked
// !Has(name); Declare does not re-check for a double declaration.
func (t *Table) Declare(name string, typ ast.Type, at token.Cursor) *Symbol {
	sym := &Symbol{
		Name:        name,
		MemLocation: uint32(len(t.order)),
		Declaration: at,
		Typ:         typ,
	}
	t.store[name] = sym
	t.order = append(t.order, name)
	return sym
}

// Lookup returns the Symbol for name, or nil if it was never declared.
func (t *Table) Lookup(name string) *Symbol {
	return t.store[name]
}

// RecordUsage appends a use-site cursor to name's Symbol. The caller must
// have already confirmed Has(name).
func (t *Table) RecordUsage(name string, at token.Cursor) {
	if sym, ok := t.store[name]; ok {
		sym.Usages = append(sym.Usages, at)
	}
}

// SetValue implements the analyzer's "latest assignment wins" propagation:
// it overwrites the symbol's folded value regardless of control flow.
func (t *Table) SetValue(name string, v *ast.Value) {
	if sym, ok := t.store[name]; ok {
		sym.Value = v
	}
}

// InDeclarationOrder returns every Symbol in the order its Decl node was
// first visited in pass 1 (mem_location ascending).
func (t *Table) InDeclarationOrder() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.store[name])
	}
	return out
}

// Dump renders the §6 symbol-table dump format, one line per symbol in
// declaration order:
//
//	Variable: <name> | Position (lin,col) | Type: <T> | Value: <v?> | Location <n> | Usages: (l,c),(l,c),…
func (t *Table) Dump() string {
	var b strings.Builder
	for _, sym := range t.InDeclarationOrder() {
		valueStr := "?"
		if sym.Value != nil {
			switch sym.Value.Kind {
			case ast.IntValue:
				valueStr = fmt.Sprintf("%d", sym.Value.I)
			case ast.FloatValue:
				valueStr = fmt.Sprintf("%g", sym.Value.F)
			case ast.BoolValue:
				valueStr = fmt.Sprintf("%t", sym.Value.B)
			}
		}
		usages := make([]string, 0, len(sym.Usages))
		for _, u := range sym.Usages {
			usages = append(usages, fmt.Sprintf("(%d,%d)", u.Line, u.Column))
		}
		fmt.Fprintf(&b, "Variable: %s | Position (%d,%d) | Type: %s | Value: %s | Location %d | Usages: %s\n",
			sym.Name, sym.Declaration.Line, sym.Declaration.Column, sym.Typ, valueStr, sym.MemLocation,
			strings.Join(usages, ","))
	}
	return b.String()
}
