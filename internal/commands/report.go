package commands

import (
	"errors"
	"strings"
	"time"

	"github.com/okra-platform/forja/internal/build"
	"github.com/okra-platform/forja/internal/diag"
)

var (
	// ErrDiagnostics is returned when a run reported at least one error
	ErrDiagnostics = errors.New("generation reported errors")
	// ErrStale is returned by check when the output directory is out of date
	ErrStale = errors.New("generated files are out of date, run forja generate")
)

// printDiagnostics writes every diagnostic of the run
func printDiagnostics(out Output, artifacts *build.Artifacts, useColor bool) {
	diag.Printer{Color: useColor}.Print(out.Writer(), artifacts.Result.Diagnostics)
}

// printSummary writes one line describing what a generate run changed
func printSummary(out Output, artifacts *build.Artifacts) {
	total := len(artifacts.Written) + len(artifacts.Unchanged)
	out.Printf("✅ Generated %d file(s) from %d source(s) in %s: %d written, %d unchanged, %d removed\n",
		total, artifacts.Inputs, artifacts.Duration.Round(time.Millisecond),
		len(artifacts.Written), len(artifacts.Unchanged), len(artifacts.Deleted))
	printConflicts(out, artifacts)
}

// printConflicts lists output names more than one generator produced
func printConflicts(out Output, artifacts *build.Artifacts) {
	if len(artifacts.Conflicts) > 0 {
		out.Printf("⚠️  Produced by more than one generator, first kept: %s\n", strings.Join(artifacts.Conflicts, ", "))
	}
}

// printStale lists the outputs a check run found out of date
func printStale(out Output, artifacts *build.Artifacts) {
	if len(artifacts.Written) > 0 {
		out.Printf("📝 Out of date: %s\n", strings.Join(artifacts.Written, ", "))
	}
	if len(artifacts.Deleted) > 0 {
		out.Printf("🗑  No longer generated: %s\n", strings.Join(artifacts.Deleted, ", "))
	}
}

func failed(artifacts *build.Artifacts) bool {
	return diag.HasErrors(artifacts.Result.Diagnostics)
}
