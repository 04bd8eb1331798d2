//go:build forjadebug

package deserialize

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertf_DebugBuild(t *testing.T) {
	// Test: A failed assertion panics with an assertion failure error
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.HasAssertionFailure(err))
		assert.Contains(t, err.Error(), "deserialize: Class called on <nil>")
	}()
	assertf(false, "Class called on %v", "<nil>")
}

func TestAssertf_Holds(t *testing.T) {
	// Test: A holding assertion does nothing
	assert.NotPanics(t, func() { assertf(true, "unused") })
}
