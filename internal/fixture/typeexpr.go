package fixture

import (
	"fmt"
	"strings"

	"github.com/fixlang/fixc/internal/kinds"
	"github.com/fixlang/fixc/internal/names"
	"github.com/fixlang/fixc/internal/types"
)

// ParseType exposes the fixture type-expression grammar to callers outside
// this package — cmd/fixc uses it to parse a "--demand name:Type" flag's
// type half with the same grammar a fixture file's "type:" fields use.
func ParseType(src string) (types.Type, error) {
	return parseType(src)
}

// parseType reads the small type-expression grammar fixture YAML embeds in
// every "type:" field:
//
//	type    := arrow
//	arrow   := app ("->" arrow)?
//	app     := atom atom*
//	atom    := IDENT | "(" arrow ")"
//
// Capitalized idents become TyCon (applied ones become TyApp); lowercase
// idents become TyVar with kind Star. This is declaration-surface syntax
// only — it has no notion of literals, patterns or expressions, which stay
// out of scope for fixture-driven modules (spec.md §1 Non-goals).
func parseType(src string) (types.Type, error) {
	toks := tokenizeType(src)
	if len(toks) == 0 {
		return nil, fmt.Errorf("fixture: empty type expression")
	}
	p := &typeParser{toks: toks}
	t, err := p.parseArrow()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("fixture: unexpected trailing tokens in type %q", src)
	}
	return t, nil
}

func tokenizeType(src string) []string {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		case r == '-' && i+1 < len(runes) && runes[i+1] == '>':
			flush()
			toks = append(toks, "->")
			i++
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return toks
}

type typeParser struct {
	toks []string
	pos  int
}

func (p *typeParser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *typeParser) parseArrow() (types.Type, error) {
	lhs, err := p.parseApp()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok && tok == "->" {
		p.pos++
		rhs, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		return &types.FunTy{From: lhs, To: rhs}, nil
	}
	return lhs, nil
}

func (p *typeParser) parseApp() (types.Type, error) {
	head, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok == "->" || tok == ")" {
			return head, nil
		}
		arg, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		head = &types.TyApp{Fun: head, Arg: arg}
	}
}

func (p *typeParser) parseAtom() (types.Type, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("fixture: unexpected end of type expression")
	}
	if tok == "(" {
		p.pos++
		inner, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		closeTok, ok := p.peek()
		if !ok || closeTok != ")" {
			return nil, fmt.Errorf("fixture: unclosed '(' in type expression")
		}
		p.pos++
		return inner, nil
	}
	p.pos++
	if tok[0] >= 'a' && tok[0] <= 'z' {
		return &types.TyVar{Name: tok, Kind: kinds.Star}, nil
	}
	return &types.TyCon{Name: names.Local(tok), Kind: kinds.Star}, nil
}
