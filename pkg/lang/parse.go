package lang

import (
	"github.com/pkg/errors"

	"github.com/clarity-vm/context/pkg/clarityerr"
)

// Parse reads every top-level form out of text. An empty (or
// whitespace/comment-only) program fails with ErrParse, matching
// Environment.EvalRaw / EvalReadOnly's "parse; if empty, fail" contract.
func Parse(text string) ([]Expr, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, errors.Wrap(clarityerr.ErrParse, err.Error())
	}
	if len(toks) == 0 {
		return nil, clarityerr.ErrParse
	}

	p := &parser{toks: toks}
	var forms []Expr
	for p.pos < len(p.toks) {
		e, err := p.readExpr()
		if err != nil {
			return nil, errors.Wrap(clarityerr.ErrParse, err.Error())
		}
		forms = append(forms, e)
	}
	return forms, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) readExpr() (Expr, error) {
	if p.pos >= len(p.toks) {
		return Expr{}, errors.New("unexpected end of input")
	}
	tok := p.toks[p.pos]
	switch tok.kind {
	case tokLParen:
		p.pos++
		var items []Expr
		for {
			if p.pos >= len(p.toks) {
				return Expr{}, errors.New("unterminated list")
			}
			if p.toks[p.pos].kind == tokRParen {
				p.pos++
				return Expr{Kind: KindList, Items: items}, nil
			}
			item, err := p.readExpr()
			if err != nil {
				return Expr{}, err
			}
			items = append(items, item)
		}
	case tokRParen:
		return Expr{}, errors.New("unexpected )")
	case tokString:
		p.pos++
		return Expr{Kind: KindString, Str: tok.text}, nil
	default: // tokAtom
		p.pos++
		return Expr{Kind: KindAtom, Atom: tok.text}, nil
	}
}
