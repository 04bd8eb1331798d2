package compare

import (
	"github.com/okra-platform/forja/internal/diag"
)

// Location compares source locations.
var Location = Comparer[diag.Location]{
	Equal: func(a, b diag.Location) bool { return a == b },
	Hash: func(v diag.Location) uint64 {
		return newHasher().
			str(v.File).
			u64(uint64(v.Line)).
			u64(uint64(v.Column)).
			u64(uint64(v.Offset)).
			u64(uint64(v.Length)).
			sum()
	},
}

// Diagnostic compares the id, severity, rendered message and location of
// a diagnostic. Title and category do not reach the user per instance.
var Diagnostic = Comparer[diag.Diagnostic]{
	Equal: func(a, b diag.Diagnostic) bool {
		return a.ID() == b.ID() &&
			a.Severity() == b.Severity() &&
			a.Message() == b.Message() &&
			a.Location == b.Location
	},
	Hash: func(v diag.Diagnostic) uint64 {
		return newHasher().
			str(v.ID()).
			u64(uint64(v.Severity())).
			str(v.Message()).
			u64(Location.Hash(v.Location)).
			sum()
	},
}

// Diagnostics compares ordered diagnostic lists, count first.
var Diagnostics = SliceOf(Diagnostic)
