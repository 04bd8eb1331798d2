package inject

import (
	"fmt"
	"strings"

	"github.com/okra-platform/forja/internal/codegen"
	"github.com/okra-platform/forja/internal/model"
)

// Render produces the generated source for r.
func Render(r Result) string {
	w := codegen.NewWriter()
	codegen.Header(w)

	closeScope := r.Scope.Open(w)
	w.WriteBlock(codegen.PartialDeclaration(r.Class), func() {
		params, forwarded, assigned := constructorParts(r.Dependencies)
		w.WriteDocComment(fmt.Sprintf("Creates a <see cref=\"%s\"/> from its injected members.", cref(r.Class)))
		w.WriteLinef("%s %s(%s)", constructorVisibility(r.Class), r.Class.Name, codegen.ParameterList(params))
		if len(forwarded) > 0 {
			w.Indent()
			w.WriteLinef(": base(%s)", strings.Join(forwarded, ", "))
			w.Dedent()
		}
		w.WriteBlock("", func() {
			for _, a := range assigned {
				w.WriteLinef("this.%s = %s;", codegen.Escape(a.member), codegen.Escape(a.param))
			}
		})
	})
	closeScope()
	return w.String()
}

type assignment struct {
	member string
	param  string
}

func constructorParts(deps []Dependency) (params []model.MethodParameterDefinition, forwarded []string, assigned []assignment) {
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = codegen.ParameterName(d.Member.Common().Name)
	}
	names = codegen.UniqueNames(names)

	for i, d := range deps {
		c := d.Member.Common()
		params = append(params, model.MethodParameterDefinition{
			MemberCommon: model.MemberCommon{Type: c.Type, Name: names[i]},
		})
		if d.Inherited {
			forwarded = append(forwarded, codegen.Escape(names[i]))
			continue
		}
		assigned = append(assigned, assignment{member: c.Name, param: names[i]})
	}
	return params, forwarded, assigned
}

// cref renders c for an XML doc reference, generic parameters in braces.
func cref(c model.ClassDefinition) string {
	if len(c.TypeArguments) == 0 {
		return c.Name
	}
	return c.Name + "{" + strings.Join(c.TypeArguments, ",") + "}"
}

func constructorVisibility(c model.ClassDefinition) string {
	if c.IsAbstract {
		return model.Protected.Keyword()
	}
	return model.Public.Keyword()
}
