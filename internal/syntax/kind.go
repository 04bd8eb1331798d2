package syntax

// Kind classifies both tokens and nodes of a syntax tree.
type Kind uint16

const (
	KindNone Kind = iota

	// Tokens
	EOF
	BadToken
	Identifier
	NumericLiteral
	StringLiteral
	CharLiteral
	OpenBrace
	CloseBrace
	OpenParen
	CloseParen
	OpenBracket
	CloseBracket
	LessThan
	GreaterThan
	Comma
	Dot
	Semicolon
	Colon
	ColonColon
	Equals
	Arrow
	Question
	Asterisk
	Tilde
	Operator

	// Reserved keywords that the tree consumers classify individually.
	PublicKeyword
	PrivateKeyword
	ProtectedKeyword
	InternalKeyword
	StaticKeyword
	ReadonlyKeyword
	ConstKeyword
	AbstractKeyword
	SealedKeyword
	ModifierKeyword // virtual, override, new, extern, unsafe, volatile
	ClassKeyword
	StructKeyword
	InterfaceKeyword
	EnumKeyword
	NamespaceKeyword
	UsingKeyword
	DelegateKeyword
	EventKeyword
	OperatorKeyword
	ConversionKeyword // implicit, explicit
	RefKeyword
	OutKeyword
	InKeyword
	ParamsKeyword
	ThisKeyword
	BaseKeyword
	PredefinedKeyword // bool, int, string, object, void, ...
	Keyword           // any other reserved word

	// Contextual keywords. The lexer emits these as Identifier; the parser
	// reclassifies them where the grammar gives them meaning.
	PartialKeyword
	FileKeyword
	RecordKeyword
	GlobalKeyword
	GetKeyword
	SetKeyword
	InitKeyword
	AddKeyword
	RemoveKeyword
	ScopedKeyword
	ContextualModifierKeyword // async, required

	// Nodes
	CompilationUnit
	UsingDirective
	NameEquals
	NamespaceDeclaration
	FileScopedNamespaceDeclaration
	ClassDeclaration
	StructDeclaration
	InterfaceDeclaration
	RecordDeclaration
	RecordStructDeclaration
	EnumDeclaration
	DelegateDeclaration
	EnumMemberList
	AttributeList
	AttributeTargetSpecifier
	Attribute
	AttributeArgumentList
	AttributeArgument
	NameColon
	BaseList
	SimpleBaseType
	TypeParameterList
	TypeParameter
	TypeParameterConstraintClause
	FieldDeclaration
	EventFieldDeclaration
	VariableDeclaration
	VariableDeclarator
	PropertyDeclaration
	AccessorList
	AccessorDeclaration
	MethodDeclaration
	ConstructorDeclaration
	ConstructorInitializer
	ExplicitInterfaceSpecifier
	ParameterList
	Parameter
	ArgumentList
	EqualsValueClause
	ArrowExpressionClause
	Block
	Expression
	IncompleteMember

	// Type nodes
	PredefinedType
	IdentifierName
	GenericName
	TypeArgumentList
	QualifiedName
	AliasQualifiedName
	ArrayType
	ArrayRankSpecifier
	NullableType
	PointerType
	TupleType
	TupleElement

	kindCount
)

var kindNames = map[Kind]string{
	EOF: "EOF", BadToken: "BadToken", Identifier: "Identifier",
	NumericLiteral: "NumericLiteral", StringLiteral: "StringLiteral", CharLiteral: "CharLiteral",
	OpenBrace: "{", CloseBrace: "}", OpenParen: "(", CloseParen: ")",
	OpenBracket: "[", CloseBracket: "]", LessThan: "<", GreaterThan: ">",
	Comma: ",", Dot: ".", Semicolon: ";", Colon: ":", ColonColon: "::",
	Equals: "=", Arrow: "=>", Question: "?", Asterisk: "*", Tilde: "~", Operator: "Operator",
	PublicKeyword: "public", PrivateKeyword: "private", ProtectedKeyword: "protected",
	InternalKeyword: "internal", StaticKeyword: "static", ReadonlyKeyword: "readonly",
	ConstKeyword: "const", AbstractKeyword: "abstract", SealedKeyword: "sealed",
	ModifierKeyword: "ModifierKeyword", ClassKeyword: "class", StructKeyword: "struct",
	InterfaceKeyword: "interface", EnumKeyword: "enum", NamespaceKeyword: "namespace",
	UsingKeyword: "using", DelegateKeyword: "delegate", EventKeyword: "event",
	OperatorKeyword: "operator", ConversionKeyword: "ConversionKeyword",
	RefKeyword: "ref", OutKeyword: "out", InKeyword: "in", ParamsKeyword: "params",
	ThisKeyword: "this", BaseKeyword: "base", PredefinedKeyword: "PredefinedKeyword", Keyword: "Keyword",
	PartialKeyword: "partial", FileKeyword: "file", RecordKeyword: "record", GlobalKeyword: "global",
	GetKeyword: "get", SetKeyword: "set", InitKeyword: "init", AddKeyword: "add", RemoveKeyword: "remove",
	ScopedKeyword: "scoped", ContextualModifierKeyword: "ContextualModifierKeyword",
	CompilationUnit: "CompilationUnit", UsingDirective: "UsingDirective", NameEquals: "NameEquals",
	NamespaceDeclaration: "NamespaceDeclaration", FileScopedNamespaceDeclaration: "FileScopedNamespaceDeclaration",
	ClassDeclaration: "ClassDeclaration", StructDeclaration: "StructDeclaration",
	InterfaceDeclaration: "InterfaceDeclaration", RecordDeclaration: "RecordDeclaration",
	RecordStructDeclaration: "RecordStructDeclaration", EnumDeclaration: "EnumDeclaration",
	DelegateDeclaration: "DelegateDeclaration", EnumMemberList: "EnumMemberList",
	AttributeList: "AttributeList", AttributeTargetSpecifier: "AttributeTargetSpecifier",
	Attribute: "Attribute", AttributeArgumentList: "AttributeArgumentList",
	AttributeArgument: "AttributeArgument", NameColon: "NameColon", BaseList: "BaseList",
	SimpleBaseType: "SimpleBaseType", TypeParameterList: "TypeParameterList", TypeParameter: "TypeParameter",
	TypeParameterConstraintClause: "TypeParameterConstraintClause", FieldDeclaration: "FieldDeclaration",
	EventFieldDeclaration: "EventFieldDeclaration", VariableDeclaration: "VariableDeclaration",
	VariableDeclarator: "VariableDeclarator", PropertyDeclaration: "PropertyDeclaration",
	AccessorList: "AccessorList", AccessorDeclaration: "AccessorDeclaration",
	MethodDeclaration: "MethodDeclaration", ConstructorDeclaration: "ConstructorDeclaration",
	ConstructorInitializer: "ConstructorInitializer", ExplicitInterfaceSpecifier: "ExplicitInterfaceSpecifier",
	ParameterList: "ParameterList", Parameter: "Parameter", ArgumentList: "ArgumentList",
	EqualsValueClause: "EqualsValueClause", ArrowExpressionClause: "ArrowExpressionClause",
	Block: "Block", Expression: "Expression", IncompleteMember: "IncompleteMember",
	PredefinedType: "PredefinedType", IdentifierName: "IdentifierName", GenericName: "GenericName",
	TypeArgumentList: "TypeArgumentList", QualifiedName: "QualifiedName",
	AliasQualifiedName: "AliasQualifiedName", ArrayType: "ArrayType", ArrayRankSpecifier: "ArrayRankSpecifier",
	NullableType: "NullableType", PointerType: "PointerType", TupleType: "TupleType", TupleElement: "TupleElement",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsToken reports whether k is a token kind.
func (k Kind) IsToken() bool {
	return k > KindNone && k < CompilationUnit
}

// IsTypeDeclaration reports whether k declares a named type with a body.
func (k Kind) IsTypeDeclaration() bool {
	switch k {
	case ClassDeclaration, StructDeclaration, InterfaceDeclaration,
		RecordDeclaration, RecordStructDeclaration, EnumDeclaration:
		return true
	}
	return false
}

// IsType reports whether k is one of the type syntax node kinds.
func (k Kind) IsType() bool {
	switch k {
	case PredefinedType, IdentifierName, GenericName, QualifiedName, AliasQualifiedName,
		ArrayType, NullableType, PointerType, TupleType:
		return true
	}
	return false
}

// IsVisibility reports whether k is an accessibility keyword.
func (k Kind) IsVisibility() bool {
	switch k {
	case PublicKeyword, PrivateKeyword, ProtectedKeyword, InternalKeyword, FileKeyword:
		return true
	}
	return false
}

var reservedKinds = map[string]Kind{
	"public": PublicKeyword, "private": PrivateKeyword, "protected": ProtectedKeyword,
	"internal": InternalKeyword, "static": StaticKeyword, "readonly": ReadonlyKeyword,
	"const": ConstKeyword, "abstract": AbstractKeyword, "sealed": SealedKeyword,
	"virtual": ModifierKeyword, "override": ModifierKeyword, "new": ModifierKeyword,
	"extern": ModifierKeyword, "unsafe": ModifierKeyword, "volatile": ModifierKeyword,
	"class": ClassKeyword, "struct": StructKeyword, "interface": InterfaceKeyword,
	"enum": EnumKeyword, "namespace": NamespaceKeyword, "using": UsingKeyword,
	"delegate": DelegateKeyword, "event": EventKeyword, "operator": OperatorKeyword,
	"implicit": ConversionKeyword, "explicit": ConversionKeyword,
	"ref": RefKeyword, "out": OutKeyword, "in": InKeyword, "params": ParamsKeyword,
	"this": ThisKeyword, "base": BaseKeyword,
	"bool": PredefinedKeyword, "byte": PredefinedKeyword, "sbyte": PredefinedKeyword,
	"char": PredefinedKeyword, "decimal": PredefinedKeyword, "double": PredefinedKeyword,
	"float": PredefinedKeyword, "int": PredefinedKeyword, "uint": PredefinedKeyword,
	"long": PredefinedKeyword, "ulong": PredefinedKeyword, "short": PredefinedKeyword,
	"ushort": PredefinedKeyword, "object": PredefinedKeyword, "string": PredefinedKeyword,
	"void": PredefinedKeyword,
	"as": Keyword, "break": Keyword, "case": Keyword, "catch": Keyword,
	"checked": Keyword, "continue": Keyword, "default": Keyword, "do": Keyword, "else": Keyword,
	"false": Keyword, "finally": Keyword, "fixed": Keyword, "for": Keyword, "foreach": Keyword,
	"goto": Keyword, "if": Keyword, "is": Keyword, "lock": Keyword, "null": Keyword,
	"return": Keyword, "sizeof": Keyword, "stackalloc": Keyword, "switch": Keyword,
	"throw": Keyword, "true": Keyword, "try": Keyword, "typeof": Keyword, "unchecked": Keyword,
	"while": Keyword,
}

var contextualKinds = map[string]Kind{
	"partial": PartialKeyword, "file": FileKeyword, "record": RecordKeyword, "global": GlobalKeyword,
	"get": GetKeyword, "set": SetKeyword, "init": InitKeyword, "add": AddKeyword, "remove": RemoveKeyword,
	"scoped": ScopedKeyword, "async": ContextualModifierKeyword, "required": ContextualModifierKeyword,
}

// IsReservedWord reports whether s is a reserved C# keyword and therefore
// needs an @ prefix to be used as an identifier.
func IsReservedWord(s string) bool {
	_, ok := reservedKinds[s]
	return ok
}
