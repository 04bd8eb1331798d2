package syntax

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Element is either a *Token or a *Node, in source order.
type Element interface {
	Kind() Kind
	Span() Span
	isElement()
}

// Token is a single lexical token. Trivia is not kept.
type Token struct {
	kind Kind
	Text string
	span Span
}

func (t *Token) Kind() Kind { return t.kind }
func (t *Token) Span() Span { return t.span }
func (t *Token) isElement() {}

// ValueText returns the identifier text without a verbatim @ prefix.
func (t *Token) ValueText() string {
	if len(t.Text) > 1 && t.Text[0] == '@' {
		return t.Text[1:]
	}
	return t.Text
}

// AsToken returns e as a token, or nil if it is a node.
func AsToken(e Element) *Token {
	t, _ := e.(*Token)
	return t
}

// AsNode returns e as a node, or nil if it is a token.
func AsNode(e Element) *Node {
	n, _ := e.(*Node)
	return n
}
