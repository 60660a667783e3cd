package gmlfront

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileEntriesSharesMacros(t *testing.T) {
	cc := newTestContext(ModernFlags())
	entries := []CodeEntry{
		{Name: "gml_Script_uses", Source: "spd = SPEED * 2;"},
		{Name: "gml_Script_macros", Source: "#macro SPEED 4\n#macro NAME \"hero\""},
		{Name: "gml_Script_name", Source: "show_debug_message(NAME);"},
	}

	results := cc.CompileEntries(entries)
	require.Empty(t, cc.Errors())
	require.Len(t, results, 3)

	for i, result := range results {
		assert.Equal(t, entries[i].Name, result.Name, "results keep input order")
	}
	assert.Equal(t, "{ (= spd (chain 4 * 2)) }", FormatNode(results[0].Root))
	assert.Equal(t, "{ }", FormatNode(results[1].Root))
	assert.Equal(t, `{ (call show_debug_message "hero") }`, FormatNode(results[2].Root))
	assert.Equal(t, []string{"NAME", "SPEED"}, cc.Macros().Names())
}

func TestCompileEntriesManyWorkers(t *testing.T) {
	cc := newTestContext(ModernFlags())
	cc.Config().Workers = 8

	entries := make([]CodeEntry, 50)
	for i := range entries {
		entries[i] = CodeEntry{
			Name:   fmt.Sprintf("entry_%d", i),
			Source: fmt.Sprintf("var v = %d;\nif v > 2 { v = BAD; }", i),
		}
	}
	entries[10].Source += "\n#macro BAD -1"

	results := cc.CompileEntries(entries)
	require.Empty(t, cc.Errors())
	for i, result := range results {
		want := fmt.Sprintf("{ (var v=%d) (if (chain local.v > 2) { (= local.v (- 1)) }) }", i)
		assert.Equal(t, want, FormatNode(result.Root))
	}
}

func TestCompileEntriesDiagnosticsFromEveryEntry(t *testing.T) {
	cc := newTestContext(ModernFlags())
	cc.CompileEntries([]CodeEntry{
		{Name: "a", Source: "x = ;"},
		{Name: "b", Source: "y = 1;"},
		{Name: "c", Source: "id = 2;"},
	})

	files := map[string]bool{}
	for _, err := range cc.Errors() {
		files[err.Position.Filename] = true
	}
	assert.Equal(t, map[string]bool{"a": true, "c": true}, files)
}

func TestEnumsVisibleToLaterEntries(t *testing.T) {
	cc := newTestContext(ModernFlags())
	cc.CompileEntry("enums", "enum Dir { Up, Down = 10, Left }")
	result := cc.CompileEntry("user", "d = Dir.Left;")

	require.Empty(t, cc.Errors())
	assert.Equal(t, "{ (= d 11) }", FormatNode(result.Root))
	require.Len(t, cc.Enums(), 1)
	assert.Equal(t, "Dir", cc.Enums()[0].Name)
}

func TestErrJoinsErrors(t *testing.T) {
	cc := newTestContext(ModernFlags())
	require.NoError(t, cc.Err())

	cc.CompileEntry("bad", "exit; a = ;\nb = 1;")
	err := cc.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad:1:11: unexpected ';', expected an expression")
	assert.NotContains(t, err.Error(), "unreachable", "warnings are not errors")

	var compileErr *CompileError
	assert.True(t, errors.As(err, &compileErr))
	assert.Len(t, cc.Warnings(), 1)
	assert.Len(t, cc.Diagnostics(), 2)
}

func TestReportErrors(t *testing.T) {
	cc := newTestContext(ModernFlags())
	var out, errOut bytes.Buffer
	cc.Logger().SetOutput(&out, &errOut)

	cc.CompileEntry("report", "a = 1;\nb = ;\nc = 3;")
	cc.ReportErrors()

	text := errOut.String()
	assert.Contains(t, text, "[GML:parse ERROR] unexpected ';', expected an expression")
	assert.Contains(t, text, "at line 2, column 5 in report")
	assert.Contains(t, text, ">   2 | b = ;")
	assert.Contains(t, text, "    1 | a = 1;")
	assert.True(t, strings.Contains(text, "      |     ^"), "caret under the column:\n%s", text)
	assert.Empty(t, out.String())
}
