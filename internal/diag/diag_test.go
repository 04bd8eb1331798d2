package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRule = Descriptor{
	ID:            "FJ9901",
	Title:         "Test rule",
	MessageFormat: "Member '%s' is wrong",
	Category:      "Test",
	Severity:      SevError,
}

func TestDiagnostic_Message(t *testing.T) {
	// Test: Message formats the rule arguments
	d := New(testRule, Location{File: "A.cs", Line: 3, Column: 5}, "x")
	assert.Equal(t, "Member 'x' is wrong", d.Message())
	assert.Equal(t, "A.cs:3:5: error FJ9901: Member 'x' is wrong", d.String())
	assert.True(t, HasErrors([]Diagnostic{d}))
}

func TestDiagnostic_Sort(t *testing.T) {
	// Test: Sorting is by file then offset
	diags := []Diagnostic{
		New(testRule, Location{File: "B.cs", Offset: 1}),
		New(testRule, Location{File: "A.cs", Offset: 9}),
		New(testRule, Location{File: "A.cs", Offset: 2}),
	}
	Sort(diags)
	assert.Equal(t, "A.cs", diags[0].Location.File)
	assert.Equal(t, 2, diags[0].Location.Offset)
	assert.Equal(t, "B.cs", diags[2].Location.File)
}

func TestRegister(t *testing.T) {
	// Test: Re-registering the same descriptor is fine, a different meaning panics
	Register(testRule)
	assert.NotPanics(t, func() { Register(testRule) })

	other := testRule
	other.Title = "Different rule"
	assert.Panics(t, func() { Register(other) })

	found := false
	for _, d := range Registered() {
		if d.ID == testRule.ID {
			found = true
			assert.Equal(t, testRule, d)
		}
	}
	assert.True(t, found)
}

func TestPrinter_Plain(t *testing.T) {
	// Test: Without colour the output is plain text with a summary
	var buf bytes.Buffer
	warn := testRule
	warn.ID = "FJ9902"
	warn.Severity = SevWarning

	Printer{}.Print(&buf, []Diagnostic{
		New(testRule, Location{File: "A.cs", Line: 1, Column: 2}, "x"),
		New(warn, Location{File: "A.cs", Line: 4, Column: 1}, "y"),
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "A.cs:1:2: error FJ9901: Member 'x' is wrong", string(lines[0]))
	assert.Equal(t, "A.cs:4:1: warning FJ9902: Member 'y' is wrong", string(lines[1]))
	assert.Equal(t, "1 error(s), 1 warning(s)", string(lines[2]))
}

func TestPrinter_Color(t *testing.T) {
	// Test: With colour enabled escape sequences are emitted
	var buf bytes.Buffer
	Printer{Color: true}.Print(&buf, []Diagnostic{New(testRule, Location{File: "A.cs"}, "x")})
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestPrinter_Empty(t *testing.T) {
	// Test: Nothing is written for no diagnostics
	var buf bytes.Buffer
	Printer{}.Print(&buf, nil)
	assert.Empty(t, buf.String())
}
