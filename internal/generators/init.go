package generators

import (
	"github.com/okra-platform/forja/internal/generators/iface"
	"github.com/okra-platform/forja/internal/generators/inject"
	"github.com/okra-platform/forja/internal/generators/register"
	"github.com/okra-platform/forja/internal/pipeline"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(inject.Name, func() pipeline.Generator {
		return inject.New()
	})

	DefaultRegistry.Register(iface.Name, func() pipeline.Generator {
		return iface.New()
	})

	DefaultRegistry.Register(register.Name, func() pipeline.Generator {
		return register.New()
	})
}
