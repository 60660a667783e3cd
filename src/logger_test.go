package gmlfront

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerDebugCategories(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLogger(true)
	logger.SetOutput(&out, &errOut)

	logger.DebugCat(CatEnum, "hidden")
	assert.Empty(t, out.String(), "nothing before the category is enabled")

	logger.EnableCategory(CatEnum)
	logger.DebugCat(CatEnum, "resolved %d", 3)
	logger.DebugCat(CatMacro, "still hidden")
	logger.Debug("uncategorized %s", "note")
	assert.Equal(t, "[DEBUG:enum] resolved 3\n[DEBUG] uncategorized note\n", out.String())

	logger.SetEnabled(false)
	out.Reset()
	logger.DebugCat(CatEnum, "disabled")
	logger.Debug("disabled")
	assert.Empty(t, out.String(), "nothing while disabled")
}

func TestLoggerHighSeverityAlwaysShown(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLogger(false)
	logger.SetOutput(&out, &errOut)

	logger.Notice("3 entries")
	logger.Warn("careful")
	logger.ErrorCat(CatSystem, "broken %s", "thing")
	logger.Fatal("giving up")

	want := "[GML NOTICE] 3 entries\n" +
		"[GML WARN] careful\n" +
		"[GML:system ERROR] broken thing\n" +
		"[GML ERROR] giving up\n"
	assert.Equal(t, want, errOut.String())
	assert.Empty(t, out.String())
}

func TestLoggerMacroChain(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLogger(false)
	logger.SetOutput(&out, &errOut)

	logger.CompileError(&CompileError{
		Message: "bad thing",
		Warning: true,
		Position: &SourcePosition{
			Line:     1,
			Column:   3,
			Filename: "entry",
			MacroContext: &MacroContext{
				MacroName:        "INNER",
				DefinitionFile:   "entry",
				DefinitionLine:   4,
				DefinitionColumn: 8,
			},
		},
	})

	text := errOut.String()
	for _, want := range []string{
		"[GML:parse WARN] bad thing",
		"at line 1, column 3 in entry",
		"Macro chain:",
		`macro "INNER"`,
		"defined in entry:4:8",
	} {
		assert.Contains(t, text, want)
	}
}

func TestLoggerContextLines(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLogger(false)
	logger.SetOutput(&out, &errOut)
	logger.SetContextLines(0)

	logger.CompileError(&CompileError{
		Message:  "oops",
		Position: &SourcePosition{Line: 3, Column: 1, Length: 3, Filename: "f"},
		Context:  []string{"one", "two", "three", "four"},
	})

	text := errOut.String()
	assert.NotContains(t, text, "one")
	assert.NotContains(t, text, "two")
	assert.Contains(t, text, ">   3 | three")
	assert.Contains(t, text, "^^^")
}
