package syntax

import (
	"fmt"
	"slices"
)

// Parse builds a syntax tree for one source file. It never fails: problems are
// recorded on the tree and unrecognised member shapes become IncompleteMember
// nodes.
func Parse(path, text string) *Tree {
	toks, problems := Lex(text)
	p := &parser{toks: toks, problems: problems}
	root := p.parseCompilationUnit()
	t := &Tree{
		Path:       path,
		Text:       text,
		Root:       root,
		Problems:   p.problems,
		lineStarts: computeLineStarts(text),
	}
	link(root, nil, t)
	return t
}

// ParseType parses text as a single type reference, e.g. the operand of a
// typeof expression. It reports false when text is not exactly one type.
func ParseType(text string) (*Node, bool) {
	toks, problems := Lex(text)
	p := &parser{toks: toks, problems: problems}
	n := p.parseType()
	if len(p.problems) > 0 || !p.at(EOF) {
		return nil, false
	}
	t := &Tree{Text: text, Root: n, lineStarts: computeLineStarts(text)}
	link(n, nil, t)
	return n, true
}

type parser struct {
	toks     []*Token
	pos      int
	problems []Problem
}

func (p *parser) cur() *Token {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) *Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) at(k Kind) bool {
	return p.cur().kind == k
}

func (p *parser) peekIs(n int, k Kind) bool {
	return p.peek(n).kind == k
}

func (p *parser) atContextual(text string) bool {
	return p.at(Identifier) && p.cur().Text == text
}

func (p *parser) advance() *Token {
	t := p.cur()
	if t.kind != EOF {
		p.pos++
	}
	return t
}

// reclassify consumes the current token and returns a copy with a new kind.
func (p *parser) reclassify(k Kind) *Token {
	t := p.advance()
	return &Token{kind: k, Text: t.Text, span: t.span}
}

func (p *parser) expect(k Kind) Element {
	if p.at(k) {
		return p.advance()
	}
	p.errorf("%s expected", k)
	return nil
}

func (p *parser) errorf(format string, args ...any) {
	p.problems = append(p.problems, Problem{Span: p.cur().span, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) skipBad() {
	p.errorf("unexpected token %q", p.cur().Text)
	p.advance()
}

func (p *parser) node(kind Kind, elems []Element) *Node {
	n := &Node{kind: kind}
	for _, e := range elems {
		if e != nil {
			n.children = append(n.children, e)
		}
	}
	if len(n.children) == 0 {
		s := p.cur().span.Start
		n.span = Span{s, s}
		return n
	}
	n.span = Span{n.children[0].Span().Start, n.children[len(n.children)-1].Span().End}
	return n
}

func (p *parser) parseCompilationUnit() *Node {
	return p.node(CompilationUnit, p.parseNamespaceBody(false))
}

func (p *parser) parseNamespaceBody(closeOnBrace bool) []Element {
	var elems []Element
	for !p.at(EOF) && !(closeOnBrace && p.at(CloseBrace)) {
		start := p.pos
		switch {
		case p.at(UsingKeyword) && !p.peekIs(1, OpenParen):
			elems = append(elems, p.parseUsing(nil))
		case p.atContextual("global") && p.peekIs(1, UsingKeyword):
			elems = append(elems, p.parseUsing(p.reclassify(GlobalKeyword)))
		case p.at(NamespaceKeyword):
			elems = append(elems, p.parseNamespace())
		case p.at(OpenBracket) && p.isGlobalAttributeTarget():
			elems = append(elems, p.parseAttributeList())
		default:
			if m := p.parseMember(""); m != nil {
				elems = append(elems, m)
			}
		}
		if p.pos == start {
			p.skipBad()
		}
	}
	return elems
}

func (p *parser) isGlobalAttributeTarget() bool {
	t := p.peek(1)
	return t.kind == Identifier && (t.Text == "assembly" || t.Text == "module") && p.peekIs(2, Colon)
}

func (p *parser) parseUsing(global *Token) *Node {
	var elems []Element
	if global != nil {
		elems = append(elems, global)
	}
	elems = append(elems, p.advance())
	if p.at(StaticKeyword) {
		elems = append(elems, p.advance())
	}
	if p.at(Identifier) && p.peekIs(1, Equals) {
		id := p.advance()
		eq := p.advance()
		elems = append(elems, p.node(NameEquals, []Element{id, eq}))
	}
	elems = append(elems, p.parseType())
	elems = append(elems, p.expect(Semicolon))
	return p.node(UsingDirective, elems)
}

func (p *parser) parseNamespace() *Node {
	elems := []Element{p.advance(), p.parseName()}
	if p.at(Semicolon) {
		elems = append(elems, p.advance())
		elems = append(elems, p.parseNamespaceBody(false)...)
		return p.node(FileScopedNamespaceDeclaration, elems)
	}
	elems = append(elems, p.expect(OpenBrace))
	elems = append(elems, p.parseNamespaceBody(true)...)
	elems = append(elems, p.expect(CloseBrace))
	if p.at(Semicolon) {
		elems = append(elems, p.advance())
	}
	return p.node(NamespaceDeclaration, elems)
}

// parseMember parses one member of a namespace or type body. typeName is the
// name of the enclosing type and is used to recognise constructors.
func (p *parser) parseMember(typeName string) *Node {
	start := p.pos
	var elems []Element
	for p.at(OpenBracket) {
		elems = append(elems, p.parseAttributeList())
	}
	elems = append(elems, p.parseModifiers()...)

	switch {
	case p.at(ClassKeyword), p.at(StructKeyword), p.at(InterfaceKeyword), p.at(EnumKeyword), p.isRecordStart():
		return p.parseTypeDeclaration(elems)
	case p.at(DelegateKeyword):
		return p.parseSkipped(DelegateDeclaration, elems)
	case p.at(EventKeyword):
		return p.parseSkipped(EventFieldDeclaration, elems)
	case p.at(Tilde), p.at(ConversionKeyword):
		return p.parseSkipped(IncompleteMember, elems)
	case typeName != "" && p.at(Identifier) && p.cur().ValueText() == typeName && p.peekIs(1, OpenParen):
		return p.parseConstructor(elems)
	case p.at(PredefinedKeyword), p.at(Identifier), p.at(OpenParen):
		return p.parseTypedMember(elems)
	}
	if len(elems) == 0 && p.pos == start {
		return nil
	}
	return p.parseSkipped(IncompleteMember, elems)
}

func (p *parser) parseModifiers() []Element {
	var out []Element
	for {
		t := p.cur()
		switch t.kind {
		case PublicKeyword, PrivateKeyword, ProtectedKeyword, InternalKeyword, StaticKeyword,
			ReadonlyKeyword, ConstKeyword, AbstractKeyword, SealedKeyword, ModifierKeyword:
			out = append(out, p.advance())
			continue
		case RefKeyword:
			if p.peekIs(1, ReadonlyKeyword) || p.peekIs(1, PredefinedKeyword) || p.peekIs(1, Identifier) {
				out = append(out, p.advance())
				continue
			}
		case Identifier:
			if k, ok := contextualKinds[t.Text]; ok && isContextualModifier(k) && p.modifierFollows() {
				out = append(out, p.reclassify(k))
				continue
			}
		}
		return out
	}
}

func isContextualModifier(k Kind) bool {
	return k == PartialKeyword || k == FileKeyword || k == ContextualModifierKeyword
}

// modifierFollows reports whether the token after the current one can begin
// the rest of a declaration, which makes the current identifier a modifier.
func (p *parser) modifierFollows() bool {
	switch p.peek(1).kind {
	case OpenParen, Equals, Semicolon, OpenBrace, Dot, LessThan, Comma, Arrow,
		Question, OpenBracket, ColonColon, CloseParen, Colon, EOF:
		return false
	}
	return true
}

func (p *parser) isRecordStart() bool {
	if !p.atContextual("record") {
		return false
	}
	switch p.peek(1).kind {
	case ClassKeyword, StructKeyword:
		return true
	case Identifier:
		switch p.peek(2).kind {
		case OpenParen, OpenBrace, Colon, LessThan, Semicolon:
			return true
		}
	}
	return false
}

func (p *parser) parseTypeDeclaration(elems []Element) *Node {
	var kind Kind
	switch {
	case p.at(ClassKeyword):
		kind = ClassDeclaration
		elems = append(elems, p.advance())
	case p.at(StructKeyword):
		kind = StructDeclaration
		elems = append(elems, p.advance())
	case p.at(InterfaceKeyword):
		kind = InterfaceDeclaration
		elems = append(elems, p.advance())
	case p.at(EnumKeyword):
		kind = EnumDeclaration
		elems = append(elems, p.advance())
	default:
		kind = RecordDeclaration
		elems = append(elems, p.reclassify(RecordKeyword))
		if p.at(ClassKeyword) {
			elems = append(elems, p.advance())
		} else if p.at(StructKeyword) {
			kind = RecordStructDeclaration
			elems = append(elems, p.advance())
		}
	}

	name := ""
	if p.at(Identifier) {
		name = p.cur().ValueText()
	}
	elems = append(elems, p.expect(Identifier))
	if p.at(LessThan) {
		elems = append(elems, p.parseTypeParameterList())
	}
	if p.at(OpenParen) && kind != EnumDeclaration && kind != InterfaceDeclaration {
		elems = append(elems, p.parseParameterList())
	}
	if p.at(Colon) {
		elems = append(elems, p.parseBaseList())
	}
	elems = append(elems, p.parseConstraintClauses()...)

	if kind == EnumDeclaration {
		elems = append(elems, p.expect(OpenBrace))
		elems = append(elems, p.parseBalancedUntilClose(EnumMemberList))
		elems = append(elems, p.expect(CloseBrace))
		if p.at(Semicolon) {
			elems = append(elems, p.advance())
		}
		return p.node(kind, elems)
	}

	if p.at(Semicolon) {
		elems = append(elems, p.advance())
		return p.node(kind, elems)
	}

	elems = append(elems, p.expect(OpenBrace))
	for !p.at(CloseBrace) && !p.at(EOF) {
		start := p.pos
		if m := p.parseMember(name); m != nil {
			elems = append(elems, m)
		}
		if p.pos == start {
			p.skipBad()
		}
	}
	elems = append(elems, p.expect(CloseBrace))
	if p.at(Semicolon) {
		elems = append(elems, p.advance())
	}
	return p.node(kind, elems)
}

func (p *parser) parseTypeParameterList() *Node {
	elems := []Element{p.advance()}
	for !p.at(GreaterThan) && !p.at(EOF) {
		var tp []Element
		for p.at(OpenBracket) {
			tp = append(tp, p.parseAttributeList())
		}
		if p.at(InKeyword) || p.at(OutKeyword) {
			tp = append(tp, p.advance())
		}
		tp = append(tp, p.expect(Identifier))
		elems = append(elems, p.node(TypeParameter, tp))
		if !p.at(Comma) {
			break
		}
		elems = append(elems, p.advance())
	}
	elems = append(elems, p.expect(GreaterThan))
	return p.node(TypeParameterList, elems)
}

func (p *parser) parseBaseList() *Node {
	elems := []Element{p.advance()}
	for {
		base := []Element{p.parseType()}
		if p.at(OpenParen) {
			base = append(base, p.parseBalanced(ArgumentList))
		}
		elems = append(elems, p.node(SimpleBaseType, base))
		if !p.at(Comma) {
			break
		}
		elems = append(elems, p.advance())
	}
	return p.node(BaseList, elems)
}

func (p *parser) parseConstraintClauses() []Element {
	var out []Element
	for p.atContextual("where") {
		elems := []Element{p.advance()}
		depth := 0
		for !p.at(EOF) {
			k := p.cur().kind
			if depth == 0 && (k == OpenBrace || k == Semicolon || k == Arrow || p.atContextual("where")) {
				break
			}
			switch k {
			case OpenParen:
				depth++
			case CloseParen:
				depth--
			}
			elems = append(elems, p.advance())
		}
		out = append(out, p.node(TypeParameterConstraintClause, elems))
	}
	return out
}

func (p *parser) parseAttributeList() *Node {
	elems := []Element{p.advance()}
	t := p.cur()
	if (t.kind == Identifier || t.kind == Keyword || t.kind == EventKeyword) && p.peekIs(1, Colon) {
		elems = append(elems, p.node(AttributeTargetSpecifier, []Element{p.advance(), p.advance()}))
	}
	for !p.at(CloseBracket) && !p.at(EOF) {
		if !p.at(Identifier) {
			p.skipBad()
			continue
		}
		attr := []Element{p.parseName()}
		if p.at(OpenParen) {
			attr = append(attr, p.parseAttributeArguments())
		}
		elems = append(elems, p.node(Attribute, attr))
		if !p.at(Comma) {
			break
		}
		elems = append(elems, p.advance())
	}
	elems = append(elems, p.expect(CloseBracket))
	return p.node(AttributeList, elems)
}

func (p *parser) parseAttributeArguments() *Node {
	elems := []Element{p.advance()}
	for !p.at(CloseParen) && !p.at(EOF) {
		var arg []Element
		switch {
		case p.at(Identifier) && p.peekIs(1, Equals):
			arg = append(arg, p.node(NameEquals, []Element{p.advance(), p.advance()}))
		case p.at(Identifier) && p.peekIs(1, Colon):
			arg = append(arg, p.node(NameColon, []Element{p.advance(), p.advance()}))
		}
		arg = append(arg, p.parseExpression(Comma, CloseParen))
		elems = append(elems, p.node(AttributeArgument, arg))
		if !p.at(Comma) {
			break
		}
		elems = append(elems, p.advance())
	}
	elems = append(elems, p.expect(CloseParen))
	return p.node(AttributeArgumentList, elems)
}

func (p *parser) parseConstructor(elems []Element) *Node {
	elems = append(elems, p.advance(), p.parseParameterList())
	if p.at(Colon) {
		init := []Element{p.advance()}
		if p.at(BaseKeyword) || p.at(ThisKeyword) {
			init = append(init, p.advance())
		} else {
			p.errorf("base or this expected")
		}
		if p.at(OpenParen) {
			init = append(init, p.parseBalanced(ArgumentList))
		}
		elems = append(elems, p.node(ConstructorInitializer, init))
	}
	return p.node(ConstructorDeclaration, p.parseBody(elems))
}

// parseTypedMember parses a field, property or method: members that start with a type.
func (p *parser) parseTypedMember(elems []Element) *Node {
	typ := p.parseType()
	if p.at(OperatorKeyword) || p.at(ThisKeyword) {
		return p.parseSkipped(IncompleteMember, append(elems, typ))
	}
	if !p.at(Identifier) {
		p.errorf("identifier expected")
		return p.parseSkipped(IncompleteMember, append(elems, typ))
	}

	name := p.parseName()
	var explicit *Node
	simple := name
	if name.kind == QualifiedName && len(name.children) == 3 {
		explicit = p.node(ExplicitInterfaceSpecifier, name.children[:2])
		simple = AsNode(name.children[2])
	}
	if simple == nil || len(simple.children) == 0 {
		return p.parseSkipped(IncompleteMember, append(elems, typ))
	}
	id := AsToken(simple.children[0])

	switch {
	case p.at(OpenParen):
		elems = append(elems, typ)
		if explicit != nil {
			elems = append(elems, explicit)
		}
		elems = append(elems, id)
		if simple.kind == GenericName && len(simple.children) > 1 {
			elems = append(elems, p.typeParametersFromArguments(AsNode(simple.children[1])))
		}
		elems = append(elems, p.parseParameterList())
		elems = append(elems, p.parseConstraintClauses()...)
		return p.node(MethodDeclaration, p.parseBody(elems))

	case p.at(OpenBrace), p.at(Arrow):
		elems = append(elems, typ)
		if explicit != nil {
			elems = append(elems, explicit)
		}
		elems = append(elems, id)
		if p.at(Arrow) {
			elems = append(elems, p.parseArrowClause())
			elems = append(elems, p.expect(Semicolon))
			return p.node(PropertyDeclaration, elems)
		}
		elems = append(elems, p.parseAccessorList())
		if p.at(Equals) {
			elems = append(elems, p.parseEqualsValue(Semicolon))
			elems = append(elems, p.expect(Semicolon))
		}
		return p.node(PropertyDeclaration, elems)
	}

	decl := []Element{typ, p.parseDeclaratorRest(id)}
	for p.at(Comma) {
		decl = append(decl, p.advance())
		if !p.at(Identifier) {
			p.errorf("identifier expected")
			break
		}
		decl = append(decl, p.parseDeclaratorRest(p.advance()))
	}
	elems = append(elems, p.node(VariableDeclaration, decl))
	elems = append(elems, p.expect(Semicolon))
	return p.node(FieldDeclaration, elems)
}

func (p *parser) parseDeclaratorRest(id *Token) *Node {
	elems := []Element{id}
	if p.at(OpenBracket) {
		elems = append(elems, p.parseBalanced(ArgumentList))
	}
	if p.at(Equals) {
		elems = append(elems, p.parseEqualsValue(Comma, Semicolon))
	}
	return p.node(VariableDeclarator, elems)
}

func (p *parser) typeParametersFromArguments(args *Node) *Node {
	var elems []Element
	for _, c := range args.children {
		if n := AsNode(c); n != nil {
			elems = append(elems, p.node(TypeParameter, n.children))
			continue
		}
		elems = append(elems, c)
	}
	return p.node(TypeParameterList, elems)
}

func (p *parser) parseAccessorList() *Node {
	elems := []Element{p.advance()}
	for !p.at(CloseBrace) && !p.at(EOF) {
		var acc []Element
		for p.at(OpenBracket) {
			acc = append(acc, p.parseAttributeList())
		}
		for p.cur().kind.IsVisibility() || p.at(ReadonlyKeyword) {
			acc = append(acc, p.advance())
		}
		kw, ok := accessorKinds[p.cur().Text]
		if !p.at(Identifier) || !ok {
			p.skipBad()
			continue
		}
		acc = append(acc, p.reclassify(kw))
		switch {
		case p.at(Semicolon):
			acc = append(acc, p.advance())
		case p.at(OpenBrace):
			acc = append(acc, p.parseBalanced(Block))
		case p.at(Arrow):
			acc = append(acc, p.parseArrowClause(), p.expect(Semicolon))
		default:
			p.errorf("accessor body expected")
		}
		elems = append(elems, p.node(AccessorDeclaration, acc))
	}
	elems = append(elems, p.expect(CloseBrace))
	return p.node(AccessorList, elems)
}

var accessorKinds = map[string]Kind{
	"get": GetKeyword, "set": SetKeyword, "init": InitKeyword, "add": AddKeyword, "remove": RemoveKeyword,
}

func (p *parser) parseParameterList() *Node {
	elems := []Element{p.expect(OpenParen)}
	for !p.at(CloseParen) && !p.at(EOF) {
		elems = append(elems, p.parseParameter())
		if !p.at(Comma) {
			break
		}
		elems = append(elems, p.advance())
	}
	elems = append(elems, p.expect(CloseParen))
	return p.node(ParameterList, elems)
}

func (p *parser) parseParameter() *Node {
	var elems []Element
	for p.at(OpenBracket) {
		elems = append(elems, p.parseAttributeList())
	}
	for {
		switch {
		case p.at(RefKeyword), p.at(OutKeyword), p.at(InKeyword), p.at(ParamsKeyword),
			p.at(ThisKeyword), p.at(ReadonlyKeyword):
			elems = append(elems, p.advance())
			continue
		case p.atContextual("scoped") && p.scopedModifier():
			elems = append(elems, p.reclassify(ScopedKeyword))
			continue
		}
		break
	}
	elems = append(elems, p.parseType())
	if p.at(Identifier) {
		elems = append(elems, p.advance())
	}
	if p.at(Equals) {
		elems = append(elems, p.parseEqualsValue(Comma, CloseParen))
	}
	return p.node(Parameter, elems)
}

// scopedModifier reports whether a leading "scoped" modifies the parameter
// rather than naming its type.
func (p *parser) scopedModifier() bool {
	next := p.peek(1).kind
	if next == RefKeyword {
		return true
	}
	if next != Identifier && next != PredefinedKeyword {
		return false
	}
	switch p.peek(2).kind {
	case Comma, CloseParen, Equals:
		return false
	}
	return true
}

func (p *parser) parseBody(elems []Element) []Element {
	switch {
	case p.at(OpenBrace):
		elems = append(elems, p.parseBalanced(Block))
	case p.at(Arrow):
		elems = append(elems, p.parseArrowClause(), p.expect(Semicolon))
	default:
		elems = append(elems, p.expect(Semicolon))
	}
	return elems
}

func (p *parser) parseArrowClause() *Node {
	return p.node(ArrowExpressionClause, []Element{p.advance(), p.parseExpression(Semicolon)})
}

func (p *parser) parseEqualsValue(stops ...Kind) *Node {
	return p.node(EqualsValueClause, []Element{p.advance(), p.parseExpression(stops...)})
}

// parseExpression collects a balanced token run up to one of the stop kinds at
// nesting depth zero. Expressions are kept as raw text.
func (p *parser) parseExpression(stops ...Kind) *Node {
	var elems []Element
	depth := 0
	for !p.at(EOF) {
		k := p.cur().kind
		if depth == 0 && slices.Contains(stops, k) {
			break
		}
		switch k {
		case OpenBrace, OpenParen, OpenBracket:
			depth++
		case CloseBrace, CloseParen, CloseBracket:
			if depth == 0 {
				return p.node(Expression, elems)
			}
			depth--
		}
		elems = append(elems, p.advance())
	}
	return p.node(Expression, elems)
}

// parseBalanced consumes an opening bracket and everything up to its match.
func (p *parser) parseBalanced(kind Kind) *Node {
	open := p.cur().kind
	var closer Kind
	switch open {
	case OpenBrace:
		closer = CloseBrace
	case OpenParen:
		closer = CloseParen
	case OpenBracket:
		closer = CloseBracket
	default:
		p.errorf("bracket expected")
		return p.node(kind, nil)
	}
	elems := []Element{p.advance()}
	depth := 1
	for !p.at(EOF) {
		k := p.cur().kind
		if k == open {
			depth++
		} else if k == closer {
			depth--
			if depth == 0 {
				elems = append(elems, p.advance())
				return p.node(kind, elems)
			}
		}
		elems = append(elems, p.advance())
	}
	p.errorf("%s expected", closer)
	return p.node(kind, elems)
}

// parseBalancedUntilClose collects tokens up to, but not including, the close
// brace that ends the current body.
func (p *parser) parseBalancedUntilClose(kind Kind) *Node {
	var elems []Element
	depth := 0
	for !p.at(EOF) {
		k := p.cur().kind
		if k == CloseBrace && depth == 0 {
			break
		}
		switch k {
		case OpenBrace:
			depth++
		case CloseBrace:
			depth--
		}
		elems = append(elems, p.advance())
	}
	return p.node(kind, elems)
}

// parseSkipped consumes a member the tree does not model in detail: up to a
// semicolon at depth zero or the brace closing its own body.
func (p *parser) parseSkipped(kind Kind, elems []Element) *Node {
	depth := 0
	for !p.at(EOF) {
		t := p.cur()
		switch t.kind {
		case OpenBrace, OpenParen, OpenBracket:
			depth++
		case CloseBrace, CloseParen, CloseBracket:
			if depth == 0 {
				return p.node(kind, elems)
			}
			depth--
			elems = append(elems, p.advance())
			if depth == 0 && t.kind == CloseBrace {
				if p.at(Semicolon) {
					elems = append(elems, p.advance())
				}
				return p.node(kind, elems)
			}
			continue
		case Semicolon:
			if depth == 0 {
				elems = append(elems, p.advance())
				return p.node(kind, elems)
			}
		}
		elems = append(elems, p.advance())
	}
	return p.node(kind, elems)
}

// parseType parses a type reference in a type position.
func (p *parser) parseType() *Node {
	t := p.parseNonArrayType()
	for {
		switch {
		case p.at(Question):
			t = p.node(NullableType, []Element{t, p.advance()})
		case p.at(Asterisk):
			t = p.node(PointerType, []Element{t, p.advance()})
		case p.at(OpenBracket) && (p.peekIs(1, CloseBracket) || p.peekIs(1, Comma)):
			rank := []Element{p.advance()}
			for p.at(Comma) {
				rank = append(rank, p.advance())
			}
			rank = append(rank, p.expect(CloseBracket))
			t = p.node(ArrayType, []Element{t, p.node(ArrayRankSpecifier, rank)})
		default:
			return t
		}
	}
}

func (p *parser) parseNonArrayType() *Node {
	switch {
	case p.at(PredefinedKeyword):
		return p.node(PredefinedType, []Element{p.advance()})
	case p.at(OpenParen):
		elems := []Element{p.advance()}
		for !p.at(CloseParen) && !p.at(EOF) {
			el := []Element{p.parseType()}
			if p.at(Identifier) {
				el = append(el, p.advance())
			}
			elems = append(elems, p.node(TupleElement, el))
			if !p.at(Comma) {
				break
			}
			elems = append(elems, p.advance())
		}
		elems = append(elems, p.expect(CloseParen))
		return p.node(TupleType, elems)
	case p.at(Identifier):
		return p.parseName()
	}
	p.errorf("type expected")
	return p.node(IdentifierName, nil)
}

func (p *parser) parseName() *Node {
	var left *Node
	if p.at(Identifier) && p.peekIs(1, ColonColon) {
		var alias *Token
		if p.atContextual("global") {
			alias = p.reclassify(GlobalKeyword)
		} else {
			alias = p.advance()
		}
		aliasName := p.node(IdentifierName, []Element{alias})
		cc := p.advance()
		left = p.node(AliasQualifiedName, []Element{aliasName, cc, p.parseSimpleName()})
	} else {
		left = p.parseSimpleName()
	}
	for p.at(Dot) && p.peekIs(1, Identifier) {
		dot := p.advance()
		left = p.node(QualifiedName, []Element{left, dot, p.parseSimpleName()})
	}
	return left
}

func (p *parser) parseSimpleName() *Node {
	if !p.at(Identifier) {
		p.errorf("identifier expected")
		return p.node(IdentifierName, nil)
	}
	id := p.advance()
	if !p.at(LessThan) {
		return p.node(IdentifierName, []Element{id})
	}
	args := []Element{p.advance()}
	for !p.at(GreaterThan) && !p.at(EOF) {
		args = append(args, p.parseType())
		if !p.at(Comma) {
			break
		}
		args = append(args, p.advance())
	}
	args = append(args, p.expect(GreaterThan))
	return p.node(GenericName, []Element{id, p.node(TypeArgumentList, args)})
}
