package lang

import "strings"

// ExprKind discriminates the closed Expr union.
type ExprKind uint8

const (
	KindAtom ExprKind = iota
	KindString
	KindList
)

// Expr is one parsed symbolic expression: an atom (identifier, integer
// literal, bool literal, or principal literal), a string literal, or a
// parenthesized list of sub-expressions.
type Expr struct {
	Kind  ExprKind
	Atom  string
	Str   string
	Items []Expr
}

func (e Expr) String() string {
	switch e.Kind {
	case KindAtom:
		return e.Atom
	case KindString:
		return `"` + e.Str + `"`
	default:
		parts := make([]string, len(e.Items))
		for i, it := range e.Items {
			parts[i] = it.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
}
