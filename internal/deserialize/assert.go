//go:build forjadebug

package deserialize

import "github.com/cockroachdb/errors"

const debugAssertions = true

func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(errors.AssertionFailedf("deserialize: "+format, args...))
	}
}
