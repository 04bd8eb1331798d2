package naming

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okra-platform/forja/internal/model"
)

func iface(name string, partial bool, members ...model.Member) model.InterfaceDefinition {
	return model.InterfaceDefinition{Visibility: model.Public, IsPartial: partial, Name: name, Members: members}
}

func TestResolveInterfaceName_Free(t *testing.T) {
	// Test: An unused name is taken as is
	res, err := ResolveInterfaceName("IFoo", []model.InterfaceDefinition{iface("IBar", false)})
	require.NoError(t, err)
	assert.Equal(t, "IFoo", res.Name)
	assert.False(t, res.Extends.IsPresent())
}

func TestResolveInterfaceName_Conflict(t *testing.T) {
	// Test: A non-partial interface with the same name yields IFoo2
	res, err := ResolveInterfaceName("IFoo", []model.InterfaceDefinition{iface("IFoo", false)})
	require.NoError(t, err)
	assert.Equal(t, "IFoo2", res.Name)
	assert.False(t, res.Extends.IsPresent())

	// Test: Taken suffixes are skipped
	res, err = ResolveInterfaceName("IFoo", []model.InterfaceDefinition{
		iface("IFoo", false), iface("IFoo2", false), iface("IFoo3", true),
	})
	require.NoError(t, err)
	assert.Equal(t, "IFoo4", res.Name)
}

func TestResolveInterfaceName_Partial(t *testing.T) {
	// Test: A partial interface with the same name is extended
	existing := iface("IFoo", true, model.MethodDefinition{MemberCommon: model.MemberCommon{Visibility: model.Public, Type: "void", Name: "Run"}})
	res, err := ResolveInterfaceName("IFoo", []model.InterfaceDefinition{existing})
	require.NoError(t, err)
	assert.Equal(t, "IFoo", res.Name)
	got, ok := res.Extends.Get()
	require.True(t, ok)
	assert.Equal(t, existing, got)
}

func TestResolveInterfaceName_Bound(t *testing.T) {
	taken := []model.InterfaceDefinition{iface("IFoo", false)}
	for i := 2; i <= MaxAttempts; i++ {
		taken = append(taken, iface(fmt.Sprintf("IFoo%d", i), false))
	}

	// Test: The last attempt is still tried
	res, err := ResolveInterfaceName("IFoo", taken)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("IFoo%d", MaxAttempts+1), res.Name)

	// Test: Exhausting every attempt is an assertion failure, not a diagnostic
	taken = append(taken, iface(fmt.Sprintf("IFoo%d", MaxAttempts+1), false))
	_, err = ResolveInterfaceName("IFoo", taken)
	require.Error(t, err)
	assert.True(t, errors.HasAssertionFailure(err))
}

func TestMergeMembers(t *testing.T) {
	run := model.MethodDefinition{MemberCommon: model.MemberCommon{Visibility: model.Public, Type: "void", Name: "Run"}}
	stop := model.MethodDefinition{MemberCommon: model.MemberCommon{Visibility: model.Public, Type: "void", Name: "Stop"}}
	runWithArg := run.WithParameters(model.MethodParameterDefinition{MemberCommon: model.MemberCommon{Type: "int", Name: "x"}})
	count := model.PropertyDefinition{
		MemberCommon:     model.MemberCommon{Visibility: model.Public, Type: "int", Name: "Count"},
		GetterVisibility: model.Some(model.VisibilityNone),
	}

	existing := iface("IFoo", true, run, count)

	// Test: Structurally equal members are dropped, overloads and new members kept in order
	merged := MergeMembers(existing, []model.Member{stop, run, runWithArg, count})
	require.Len(t, merged, 2)
	assert.Equal(t, "Stop", merged[0].Common().Name)
	assert.Equal(t, runWithArg, merged[1])

	// Test: A property whose accessor shape differs is not a duplicate
	settable := count.WithSetter(model.SetterWith(model.VisibilityNone))
	assert.Len(t, MergeMembers(existing, []model.Member{settable}), 1)
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "IDummy", DefaultName("Dummy"))
}
