package iface

import (
	"strings"

	"github.com/okra-platform/forja/internal/codegen"
	"github.com/okra-platform/forja/internal/codegen/writer"
	"github.com/okra-platform/forja/internal/model"
)

// Render produces the generated source for r.
func Render(r Result) string {
	w := codegen.NewWriter()
	codegen.Header(w)

	if r.Extends {
		closeScope := r.InterfaceScope.Open(w)
		writeInterface(w, "partial interface "+r.Interface.DisplayName(), r.Interface.Members)
		closeScope()
		return w.String()
	}

	closeScope := r.Scope.Open(w)
	header := "partial interface " + r.Interface.DisplayName()
	if kw := r.Interface.Visibility.Keyword(); kw != "" {
		header = kw + " " + header
	}
	writeInterface(w, header, r.Interface.Members)
	w.BlankLine()
	w.WriteBlock(codegen.PartialDeclaration(r.Class)+" : "+r.Interface.DisplayName(), func() {})
	closeScope()
	return w.String()
}

func writeInterface(w *writer.Writer, header string, members []model.Member) {
	w.WriteBlock(header, func() {
		for _, m := range members {
			w.WriteLine(Declaration(m))
		}
	})
}

// Declaration renders m as an interface member declaration.
func Declaration(m model.Member) string {
	switch v := m.(type) {
	case model.MethodDefinition:
		return v.Type + " " + codegen.Escape(v.Name) + codegen.TypeParameters(v.TypeParameters) +
			"(" + codegen.ParameterList(v.Parameters) + ");"
	case model.PropertyDefinition:
		var accessors []string
		if v.GetterVisibility.IsPresent() {
			accessors = append(accessors, "get;")
		}
		switch v.Setter.State {
		case model.SetterPlain:
			accessors = append(accessors, "set;")
		case model.SetterInit:
			accessors = append(accessors, "init;")
		}
		return v.Type + " " + codegen.Escape(v.Name) + " { " + strings.Join(accessors, " ") + " }"
	}
	c := m.Common()
	return c.Type + " " + codegen.Escape(c.Name) + ";"
}
