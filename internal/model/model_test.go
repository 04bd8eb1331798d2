package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOption(t *testing.T) {
	// Test: Some and None report presence and fall back correctly
	some := Some("x")
	v, ok := some.Get()
	assert.True(t, ok)
	assert.Equal(t, "x", v)
	assert.Equal(t, "x", some.OrElse("y"))

	none := None[string]()
	assert.False(t, none.IsPresent())
	assert.Equal(t, "y", none.OrElse("y"))
	assert.Panics(t, func() { none.MustGet() })

	// A present zero value is still present
	zero := Some(VisibilityNone)
	assert.True(t, zero.IsPresent())
	assert.NotEqual(t, zero, None[Visibility]())
}

func TestVisibility_Combine(t *testing.T) {
	// Test: Compound accessibility keywords combine in either order
	tests := []struct {
		first, second, want Visibility
	}{
		{VisibilityNone, Public, Public},
		{Protected, Internal, ProtectedInternal},
		{Internal, Protected, ProtectedInternal},
		{Private, Protected, PrivateProtected},
		{Protected, Private, PrivateProtected},
		{Public, Private, Private},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.first.Combine(tt.second), "%s + %s", tt.first, tt.second)
	}
	assert.Equal(t, "protected internal", ProtectedInternal.Keyword())
	assert.Equal(t, "", VisibilityNone.Keyword())
}

func TestSetterVisibility(t *testing.T) {
	// Test: The three setter states stay distinct
	assert.False(t, NoSetter().IsPresent())
	assert.True(t, SetterWith(VisibilityNone).IsPresent())
	assert.False(t, SetterWith(VisibilityNone).IsRestricted())
	assert.True(t, SetterWith(Protected).IsRestricted())
	assert.True(t, InitSetter().IsPresent())

	assert.NotEqual(t, NoSetter(), SetterWith(VisibilityNone))
	assert.NotEqual(t, SetterWith(VisibilityNone), InitSetter())

	assert.Equal(t, Public, SetterWith(VisibilityNone).Effective(Public))
	assert.Equal(t, Protected, SetterWith(Protected).Effective(Public))
}

func TestClassDefinition_WithCopies(t *testing.T) {
	// Test: With helpers never share backing arrays with the caller
	args := []string{"T"}
	c := ClassDefinition{Name: "Dummy"}.WithTypeArguments(args...)
	args[0] = "U"
	assert.Equal(t, []string{"T"}, c.TypeArguments)

	d := c.WithTypeArguments("A", "B")
	assert.Equal(t, []string{"T"}, c.TypeArguments)
	assert.Equal(t, "Dummy<A, B>", d.DisplayName())
	assert.Equal(t, "Dummy`2", d.MetadataName())
	assert.Equal(t, "Dummy", c.WithTypeArguments().MetadataName())
}

func TestMember_CommonAndKind(t *testing.T) {
	// Test: Every variant exposes the shared surface and its own kind
	common := MemberCommon{Visibility: Private, Type: "int", Name: "x"}
	members := []Member{
		FieldDefinition{MemberCommon: common},
		PropertyDefinition{MemberCommon: common},
		MethodDefinition{MemberCommon: common},
		MethodParameterDefinition{MemberCommon: common},
	}
	kinds := []MemberKind{FieldMember, PropertyMember, MethodMember, ParameterMember}

	for i, m := range members {
		assert.Equal(t, common, m.Common())
		assert.Equal(t, kinds[i], m.Kind())
	}
}
