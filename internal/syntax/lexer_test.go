package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []*Token) []Kind {
	out := make([]Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind())
	}
	return out
}

func TestLex_Punctuation(t *testing.T) {
	// Test: Punctuation and operators map to their token kinds
	toks, problems := Lex("global::A.B<int?>[] => x ?? y;")
	require.Empty(t, problems)

	assert.Equal(t, []Kind{
		Identifier, ColonColon, Identifier, Dot, Identifier, LessThan, PredefinedKeyword, Question,
		GreaterThan, OpenBracket, CloseBracket, Arrow, Identifier, Operator, Identifier, Semicolon, EOF,
	}, kinds(toks))
}

func TestLex_NestedGenericClose(t *testing.T) {
	// Test: ">>" is lexed as two separate tokens so nested generics close
	toks, _ := Lex("A<B<C>>")
	assert.Equal(t, []Kind{Identifier, LessThan, Identifier, LessThan, Identifier, GreaterThan, GreaterThan, EOF}, kinds(toks))
}

func TestLex_SkipsTrivia(t *testing.T) {
	// Test: Comments and preprocessor lines produce no tokens
	src := "// line\n/* block\n comment */ #region x\nclass"
	toks, problems := Lex(src)
	require.Empty(t, problems)
	require.Len(t, toks, 2)
	assert.Equal(t, ClassKeyword, toks[0].Kind())
	assert.Equal(t, "class", toks[0].Text)
}

func TestLex_ContextualKeywordsStayIdentifiers(t *testing.T) {
	// Test: partial, record and get are identifiers at lex time
	toks, _ := Lex("partial record get")
	assert.Equal(t, []Kind{Identifier, Identifier, Identifier, EOF}, kinds(toks))
}

func TestLex_VerbatimIdentifier(t *testing.T) {
	// Test: @class is an identifier whose value text has no prefix
	toks, _ := Lex("@class")
	require.Len(t, toks, 2)
	assert.Equal(t, Identifier, toks[0].Kind())
	assert.Equal(t, "@class", toks[0].Text)
	assert.Equal(t, "class", toks[0].ValueText())
}

func TestLex_StringLiterals(t *testing.T) {
	// Test: Every string form is a single literal token
	tests := []struct {
		name string
		src  string
	}{
		{"regular", `"a \" b"`},
		{"verbatim", `@"a "" b"`},
		{"raw", `"""a "quoted" b"""`},
		{"interpolated", `$"x {y} z"`},
		{"interpolated nested string", `$"x {f("}")} z"`},
		{"interpolated escaped braces", `$"{{literal}}"`},
		{"verbatim interpolated", `@$"a {b} ""c"""`},
		{"char", `'\''`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, problems := Lex(tt.src)
			require.Empty(t, problems)
			require.Len(t, toks, 2)
			assert.Contains(t, []Kind{StringLiteral, CharLiteral}, toks[0].Kind())
			assert.Equal(t, tt.src, toks[0].Text)
		})
	}
}

func TestLex_Problems(t *testing.T) {
	// Test: Malformed input records problems without panicking
	tests := []string{
		`"unterminated`,
		"/* open",
		"`",
		`"\`,
		`$"{`,
		"'",
	}

	for _, src := range tests {
		toks, problems := Lex(src)
		assert.NotEmpty(t, problems, "source %q", src)
		assert.Equal(t, EOF, toks[len(toks)-1].Kind())
	}
}

func TestLex_Spans(t *testing.T) {
	// Test: Token spans index the source text
	src := "public int X;"
	toks, _ := Lex(src)
	for _, tok := range toks[:len(toks)-1] {
		assert.Equal(t, tok.Text, src[tok.Span().Start:tok.Span().End])
	}
}
