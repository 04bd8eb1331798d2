package register

import (
	"github.com/okra-platform/forja/internal/codegen"
)

const collection = "global::Microsoft.Extensions.DependencyInjection.IServiceCollection"

// Render produces the registration source for services, which must already
// be in emission order.
func Render(services []Service) string {
	w := codegen.NewWriter()
	codegen.Header(w)
	w.WriteLine("using Microsoft.Extensions.DependencyInjection;")
	w.Newline()

	w.WriteBlock("namespace Forja", func() {
		w.WriteBlock("internal static class ServiceRegistrations", func() {
			w.WriteLinef("public static %s AddForjaServices(this %s services)", collection, collection)
			w.WriteBlock("", func() {
				for _, s := range services {
					w.WriteLine(Registration(s))
				}
				w.WriteLine("return services;")
			})
		})
	})
	return w.String()
}
