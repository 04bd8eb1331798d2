// Package naming picks the name of a generated companion interface.
package naming

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/okra-platform/forja/internal/compare"
	"github.com/okra-platform/forja/internal/model"
)

// MaxAttempts bounds the numeric suffixes tried when the candidate name is
// taken by a non-partial interface.
const MaxAttempts = 20

// Resolution is the outcome of interface naming.
type Resolution struct {
	Name string
	// Extends is set when the class already implements a partial interface
	// with the candidate name; generated members are merged into it.
	Extends model.Option[model.InterfaceDefinition]
}

// DefaultName derives the interface name for a class.
func DefaultName(className string) string {
	return "I" + className
}

// ResolveInterfaceName decides the interface name for candidate given the
// interfaces the class already implements. An implemented partial interface
// with the same name is extended. A non-partial one is a conflict and the
// first free name of candidate2, candidate3, ... is chosen.
func ResolveInterfaceName(candidate string, implemented []model.InterfaceDefinition) (Resolution, error) {
	existing, ok := find(candidate, implemented)
	if !ok {
		return Resolution{Name: candidate}, nil
	}
	if existing.IsPartial {
		return Resolution{Name: candidate, Extends: model.Some(existing)}, nil
	}
	for i := 0; i < MaxAttempts; i++ {
		name := candidate + strconv.Itoa(i+2)
		if _, taken := find(name, implemented); !taken {
			return Resolution{Name: name}, nil
		}
	}
	return Resolution{}, errors.AssertionFailedf("no free interface name for %q after %d attempts", candidate, MaxAttempts)
}

func find(name string, implemented []model.InterfaceDefinition) (model.InterfaceDefinition, bool) {
	for _, i := range implemented {
		if i.Name == name {
			return i, true
		}
	}
	return model.InterfaceDefinition{}, false
}

// MergeMembers returns the members not already declared by existing.
// Members are matched structurally.
func MergeMembers(existing model.InterfaceDefinition, members []model.Member) []model.Member {
	var out []model.Member
	for _, m := range members {
		if !declares(existing, m) {
			out = append(out, m)
		}
	}
	return out
}

func declares(i model.InterfaceDefinition, m model.Member) bool {
	for _, d := range i.Members {
		if compare.Member.Equal(d, m) {
			return true
		}
	}
	return false
}
