package cfgexpr

import (
	"fmt"

	"bundrs/rusttok"
)

// Parse parses the text between the parentheses of a cfg(...) attribute into
// a predicate tree.
func Parse(text string) (Expr, error) {
	toks, err := rusttok.Lex(text)
	if err != nil {
		return Expr{}, fmt.Errorf("could not lex cfg predicate %q: %w", text, err)
	}
	expr, rest, err := parseExpr(toks)
	if err != nil {
		return Expr{}, err
	}
	if len(rest) != 0 {
		return Expr{}, fmt.Errorf("trailing tokens in cfg predicate %q", text)
	}
	return expr, nil
}

func parseExpr(toks []rusttok.Token) (Expr, []rusttok.Token, error) {
	if len(toks) == 0 {
		return Expr{}, nil, fmt.Errorf("empty cfg predicate")
	}
	head := toks[0]
	if head.Kind != rusttok.Ident {
		return Expr{}, nil, fmt.Errorf("expected identifier in cfg predicate, got %q", head.Text)
	}

	if len(toks) > 1 && toks[1].Kind == rusttok.Group && toks[1].Delim == rusttok.Paren {
		inner := toks[1].Tokens
		rest := toks[2:]
		switch head.Text {
		case "all", "any":
			list, err := parseList(inner)
			if err != nil {
				return Expr{}, nil, err
			}
			kind := All
			if head.Text == "any" {
				kind = Any
			}
			return Expr{Kind: kind, List: list}, rest, nil
		case "not":
			arg, extra, err := parseExpr(inner)
			if err != nil {
				return Expr{}, nil, err
			}
			if len(extra) != 0 {
				return Expr{}, nil, fmt.Errorf("not(...) takes a single predicate")
			}
			return Expr{Kind: Not, Arg: &arg}, rest, nil
		default:
			return Expr{}, nil, fmt.Errorf("unsupported cfg predicate %q", head.Text)
		}
	}

	// name = "value" atom
	if len(toks) > 2 && toks[1].Kind == rusttok.Punct && toks[1].Text == "=" {
		if toks[2].Kind != rusttok.Literal {
			return Expr{}, nil, fmt.Errorf("expected string value for cfg atom %q", head.Text)
		}
		value, ok := rusttok.Unquote(toks[2].Text)
		if !ok {
			return Expr{}, nil, fmt.Errorf("expected string value for cfg atom %q", head.Text)
		}
		return Expr{Kind: Atom, Name: head.Text, Value: value, HasValue: true}, toks[3:], nil
	}

	return Expr{Kind: Atom, Name: head.Text}, toks[1:], nil
}

func parseList(toks []rusttok.Token) ([]Expr, error) {
	var list []Expr
	for len(toks) > 0 {
		expr, rest, err := parseExpr(toks)
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if len(rest) > 0 {
			if rest[0].Kind != rusttok.Punct || rest[0].Text != "," {
				return nil, fmt.Errorf("expected comma in cfg predicate list")
			}
			rest = rest[1:]
		}
		toks = rest
	}
	return list, nil
}
