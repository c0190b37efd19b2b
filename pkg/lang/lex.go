// Package lang implements a small s-expression contract language: a
// tokenizer, a single-pass reader, and a tree-walking evaluator
// parameterized over the execution environment. It covers the forms the
// execution context needs to be driven end to end, not a full language.
package lang

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

type tokenKind uint8

const (
	tokLParen tokenKind = iota
	tokRParen
	tokAtom
	tokString
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == ';':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '"':
			j := i + 1
			var sb strings.Builder
			for j < len(runes) && runes[j] != '"' {
				sb.WriteRune(runes[j])
				j++
			}
			if j >= len(runes) {
				return nil, errors.New("unterminated string literal")
			}
			toks = append(toks, token{tokString, sb.String()})
			i = j + 1
		default:
			j := i
			for j < len(runes) && !unicode.IsSpace(runes[j]) && runes[j] != '(' && runes[j] != ')' {
				j++
			}
			toks = append(toks, token{tokAtom, string(runes[i:j])})
			i = j
		}
	}
	return toks, nil
}
