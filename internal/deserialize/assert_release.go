//go:build !forjadebug

package deserialize

const debugAssertions = false

func assertf(bool, string, ...any) {}
