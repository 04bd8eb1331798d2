package attribute

import (
	"strconv"
	"strings"

	"github.com/okra-platform/forja/internal/syntax"
)

// Argument is one attribute argument. Name is set for named arguments
// (Name = value) and for colon-named constructor arguments (name: value).
type Argument struct {
	Name  string
	Named bool
	Value *syntax.Node
}

// Arguments returns the arguments of attr in source order.
func Arguments(attr *syntax.Node) []Argument {
	if attr == nil {
		return nil
	}
	list := attr.FirstChild(syntax.AttributeArgumentList)
	if list == nil {
		return nil
	}
	var out []Argument
	for _, a := range list.ChildrenOfKind(syntax.AttributeArgument) {
		arg := Argument{Value: a.FirstChild(syntax.Expression)}
		if eq := a.FirstChild(syntax.NameEquals); eq != nil && eq.Identifier() != nil {
			arg.Name = eq.Identifier().ValueText()
			arg.Named = true
		} else if nc := a.FirstChild(syntax.NameColon); nc != nil && nc.Identifier() != nil {
			arg.Name = nc.Identifier().ValueText()
		}
		out = append(out, arg)
	}
	return out
}

// Named returns the value of the named argument name.
func Named(attr *syntax.Node, name string) (*syntax.Node, bool) {
	for _, a := range Arguments(attr) {
		if a.Named && a.Name == name && a.Value != nil {
			return a.Value, true
		}
	}
	return nil, false
}

// Positional returns the constructor argument at index i.
func Positional(attr *syntax.Node, i int) (*syntax.Node, bool) {
	n := 0
	for _, a := range Arguments(attr) {
		if a.Named {
			continue
		}
		if n == i {
			return a.Value, a.Value != nil
		}
		n++
	}
	return nil, false
}

func tokens(expr *syntax.Node) []*syntax.Token {
	if expr == nil {
		return nil
	}
	var out []*syntax.Token
	for _, c := range expr.Children() {
		if t := syntax.AsToken(c); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// StringValue returns the value of a single string literal expression.
func StringValue(expr *syntax.Node) (string, bool) {
	toks := tokens(expr)
	if len(toks) != 1 || toks[0].Kind() != syntax.StringLiteral {
		return "", false
	}
	text := toks[0].Text
	if strings.HasPrefix(text, `@"`) && strings.HasSuffix(text, `"`) && len(text) >= 3 {
		return strings.ReplaceAll(text[2:len(text)-1], `""`, `"`), true
	}
	s, err := strconv.Unquote(text)
	if err != nil {
		return "", false
	}
	return s, true
}

// TypeOfValue returns the type text of a typeof(T) expression.
func TypeOfValue(expr *syntax.Node) (string, bool) {
	toks := tokens(expr)
	if len(toks) < 4 || toks[0].Text != "typeof" || toks[1].Kind() != syntax.OpenParen || toks[len(toks)-1].Kind() != syntax.CloseParen {
		return "", false
	}
	inner := expr.Tree().Text[toks[2].Span().Start:toks[len(toks)-2].Span().End]
	return strings.TrimSpace(inner), true
}

// EnumValue returns the member name of an enum member access such as
// ServiceLifetime.Scoped, global::Forja.ServiceLifetime.Scoped or a bare
// member name.
func EnumValue(expr *syntax.Node) (string, bool) {
	toks := tokens(expr)
	if len(toks) > 2 && toks[0].Kind() == syntax.Identifier && toks[1].Kind() == syntax.ColonColon {
		toks = toks[2:]
	}
	if len(toks)%2 == 0 {
		return "", false
	}
	for i, t := range toks {
		want := syntax.Identifier
		if i%2 == 1 {
			want = syntax.Dot
		}
		if t.Kind() != want {
			return "", false
		}
	}
	return toks[len(toks)-1].ValueText(), true
}
