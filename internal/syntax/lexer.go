package syntax

import (
	"fmt"
	"strings"
)

// Problem is a lexical or syntactic error found while building a tree.
type Problem struct {
	Span    Span
	Message string
}

type lexer struct {
	src      string
	pos      int
	toks     []*Token
	problems []Problem
}

// Lex splits text into tokens. Whitespace, comments and preprocessor lines
// are dropped. The returned slice always ends with an EOF token.
func Lex(text string) ([]*Token, []Problem) {
	lx := &lexer{src: text}
	for {
		lx.skipTrivia()
		if lx.pos >= len(lx.src) {
			lx.toks = append(lx.toks, &Token{kind: EOF, span: Span{len(lx.src), len(lx.src)}})
			return lx.toks, lx.problems
		}
		lx.scanToken()
	}
}

func (lx *lexer) peekAt(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) emit(kind Kind, start int) {
	if lx.pos > len(lx.src) {
		lx.pos = len(lx.src)
	}
	lx.toks = append(lx.toks, &Token{kind: kind, Text: lx.src[start:lx.pos], span: Span{start, lx.pos}})
}

func (lx *lexer) problem(start int, format string, args ...any) {
	lx.problems = append(lx.problems, Problem{Span: Span{start, lx.pos}, Message: fmt.Sprintf(format, args...)})
}

func (lx *lexer) skipTrivia() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v':
			lx.pos++
		case c == '/' && lx.peekAt(1) == '/':
			lx.skipLine()
		case c == '/' && lx.peekAt(1) == '*':
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				start := lx.pos
				lx.pos = len(lx.src)
				lx.problem(start, "unterminated block comment")
				return
			}
			lx.pos += end + 4
		case c == '#':
			lx.skipLine()
		default:
			return
		}
	}
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (lx *lexer) scanToken() {
	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case c == '@' && lx.peekAt(1) == '"':
		lx.pos++
		lx.skipQuoted(true)
		lx.emit(StringLiteral, start)
	case c == '@' && lx.peekAt(1) == '$', c == '$':
		lx.scanInterpolated(start)
	case c == '@' && isIdentStart(lx.peekAt(1)):
		lx.pos++
		lx.scanIdentifier(start)
	case isIdentStart(c):
		lx.scanIdentifier(start)
	case isDigit(c) || (c == '.' && isDigit(lx.peekAt(1))):
		lx.scanNumber(start)
	case c == '"':
		if strings.HasPrefix(lx.src[lx.pos:], `"""`) {
			lx.skipRaw()
		} else {
			lx.skipQuoted(false)
		}
		lx.emit(StringLiteral, start)
	case c == '\'':
		lx.scanChar(start)
	default:
		lx.scanPunctuation(start)
	}
}

func (lx *lexer) scanIdentifier(start int) {
	for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
		lx.pos++
	}
	text := lx.src[start:lx.pos]
	if text[0] != '@' {
		if kind, ok := reservedKinds[text]; ok {
			lx.emit(kind, start)
			return
		}
	}
	lx.emit(Identifier, start)
}

func (lx *lexer) scanNumber(start int) {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if isIdentPart(c) || (c == '.' && isDigit(lx.peekAt(1))) {
			lx.pos++
			continue
		}
		break
	}
	lx.emit(NumericLiteral, start)
}

// skipQuoted consumes a regular or verbatim string starting at the opening quote.
func (lx *lexer) skipQuoted(verbatim bool) {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\\' && !verbatim:
			lx.pos += 2
		case c == '"':
			if verbatim && lx.peekAt(1) == '"' {
				lx.pos += 2
				continue
			}
			lx.pos++
			return
		case c == '\n' && !verbatim:
			lx.problem(start, "newline in string literal")
			return
		default:
			lx.pos++
		}
	}
	lx.pos = len(lx.src)
	lx.problem(start, "unterminated string literal")
}

// skipRaw consumes a raw string literal delimited by three or more quotes.
func (lx *lexer) skipRaw() {
	start := lx.pos
	quotes := 0
	for lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
		quotes++
		lx.pos++
	}
	closer := strings.Repeat(`"`, quotes)
	end := strings.Index(lx.src[lx.pos:], closer)
	if end < 0 {
		lx.pos = len(lx.src)
		lx.problem(start, "unterminated raw string literal")
		return
	}
	lx.pos += end + quotes
	for lx.pos < len(lx.src) && lx.src[lx.pos] == '"' {
		lx.pos++
	}
}

func (lx *lexer) scanInterpolated(start int) {
	verbatim := false
	for lx.pos < len(lx.src) && (lx.src[lx.pos] == '$' || lx.src[lx.pos] == '@') {
		if lx.src[lx.pos] == '@' {
			verbatim = true
		}
		lx.pos++
	}
	if lx.pos >= len(lx.src) || lx.src[lx.pos] != '"' {
		lx.emit(BadToken, start)
		lx.problem(start, "unexpected character %q", lx.src[start])
		return
	}
	if strings.HasPrefix(lx.src[lx.pos:], `"""`) {
		lx.skipRaw()
		lx.emit(StringLiteral, start)
		return
	}
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\\' && !verbatim:
			lx.pos += 2
		case c == '"':
			if verbatim && lx.peekAt(1) == '"' {
				lx.pos += 2
				continue
			}
			lx.pos++
			lx.emit(StringLiteral, start)
			return
		case c == '{' && lx.peekAt(1) == '{', c == '}' && lx.peekAt(1) == '}':
			lx.pos += 2
		case c == '{':
			lx.skipHole()
		case c == '\n' && !verbatim:
			lx.problem(start, "newline in interpolated string")
			lx.emit(StringLiteral, start)
			return
		default:
			lx.pos++
		}
	}
	lx.problem(start, "unterminated interpolated string")
	lx.emit(StringLiteral, start)
}

// skipHole consumes an interpolation hole including nested strings.
func (lx *lexer) skipHole() {
	depth := 0
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '{':
			depth++
			lx.pos++
		case c == '}':
			depth--
			lx.pos++
			if depth == 0 {
				return
			}
		case c == '"':
			lx.skipQuoted(false)
		case c == '@' && lx.peekAt(1) == '"':
			lx.pos++
			lx.skipQuoted(true)
		case c == '$' && (lx.peekAt(1) == '"' || lx.peekAt(1) == '@'):
			nested := len(lx.toks)
			lx.scanInterpolated(lx.pos)
			lx.toks = lx.toks[:nested]
		case c == '\'':
			nested := len(lx.toks)
			lx.scanChar(lx.pos)
			lx.toks = lx.toks[:nested]
		default:
			lx.pos++
		}
	}
}

func (lx *lexer) scanChar(start int) {
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case '\\':
			lx.pos += 2
		case '\'':
			lx.pos++
			lx.emit(CharLiteral, start)
			return
		case '\n':
			lx.problem(start, "newline in character literal")
			lx.emit(CharLiteral, start)
			return
		default:
			lx.pos++
		}
	}
	lx.problem(start, "unterminated character literal")
	lx.emit(CharLiteral, start)
}

var singlePunct = map[byte]Kind{
	'{': OpenBrace, '}': CloseBrace, '(': OpenParen, ')': CloseParen,
	'[': OpenBracket, ']': CloseBracket, '<': LessThan, '>': GreaterThan,
	',': Comma, '.': Dot, ';': Semicolon, '~': Tilde,
}

var twoCharOperators = []string{
	"??", "?.", "==", "!=", "++", "--", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"&&", "||", "->",
}

func (lx *lexer) scanPunctuation(start int) {
	c := lx.src[lx.pos]
	if kind, ok := singlePunct[c]; ok {
		lx.pos++
		lx.emit(kind, start)
		return
	}

	rest := lx.src[lx.pos:]
	switch {
	case strings.HasPrefix(rest, "::"):
		lx.pos += 2
		lx.emit(ColonColon, start)
		return
	case strings.HasPrefix(rest, "=>"):
		lx.pos += 2
		lx.emit(Arrow, start)
		return
	}
	for _, op := range twoCharOperators {
		if strings.HasPrefix(rest, op) {
			lx.pos += len(op)
			lx.emit(Operator, start)
			return
		}
	}

	lx.pos++
	switch c {
	case '=':
		lx.emit(Equals, start)
	case ':':
		lx.emit(Colon, start)
	case '?':
		lx.emit(Question, start)
	case '*':
		lx.emit(Asterisk, start)
	case '+', '-', '/', '%', '&', '|', '^', '!':
		lx.emit(Operator, start)
	default:
		lx.emit(BadToken, start)
		lx.problem(start, "unexpected character %q", c)
	}
}
