package model

// Visibility is a declared accessibility level.
type Visibility uint8

const (
	VisibilityNone Visibility = iota
	Public
	Internal
	Protected
	Private
	ProtectedInternal
	PrivateProtected
	File
)

var visibilityKeywords = map[Visibility]string{
	Public:            "public",
	Internal:          "internal",
	Protected:         "protected",
	Private:           "private",
	ProtectedInternal: "protected internal",
	PrivateProtected:  "private protected",
	File:              "file",
}

// Keyword returns the C# modifier text, or "" for VisibilityNone.
func (v Visibility) Keyword() string {
	return visibilityKeywords[v]
}

func (v Visibility) String() string {
	if v == VisibilityNone {
		return "none"
	}
	return v.Keyword()
}

// Combine folds one more accessibility keyword into v, producing the compound
// levels for "protected internal" and "private protected" in either order.
func (v Visibility) Combine(next Visibility) Visibility {
	switch {
	case v == VisibilityNone:
		return next
	case (v == Protected && next == Internal) || (v == Internal && next == Protected):
		return ProtectedInternal
	case (v == Private && next == Protected) || (v == Protected && next == Private):
		return PrivateProtected
	}
	return next
}

// IsAccessibleOutside reports whether a member with this visibility is part of
// a public interface surface.
func (v Visibility) IsAccessibleOutside() bool {
	return v == Public
}
