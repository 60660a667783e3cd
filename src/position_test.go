package gmlfront

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLineAndColumnFromPos(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("positions", "a = 1;\nbb = 2;\r\n\nc")

	tests := []struct {
		pos          int
		line, column int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{6, 2, 1}, // the newline itself
		{7, 2, 1},
		{9, 2, 3},
		{15, 3, 1},
		{16, 4, 1},
		{17, 4, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.pos), func(t *testing.T) {
			line, column := lc.GetLineAndColumnFromPos(tt.pos)
			assert.Equal(t, tt.line, line)
			assert.Equal(t, tt.column, column)
		})
	}
}

func TestLines(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("lines", "one\r\ntwo\nthree")

	assert.Equal(t, []string{"one", "two", "three"}, lc.Lines())
}

func TestTokenPosition(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Lex("obj_player_Step_0", "x = 1;\nspeed = 22;")

	pos := TokenPosition(lc.Tokens[6])
	require.NotNil(t, pos)
	assert.Equal(t, "obj_player_Step_0:2:9", pos.String())
	assert.Equal(t, 2, pos.Length)
	assert.Nil(t, pos.MacroContext, "no macro context outside a macro")
}

func TestMacroTokenPosition(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Lex("macros", "// speeds\n#macro FAST 10\nspd = FAST;")

	// spd = 10 ;
	pos := TokenPosition(lc.Tokens[2])
	require.NotNil(t, pos)
	assert.Equal(t, 1, pos.Line, "line inside the macro body")
	assert.Equal(t, 1, pos.Column, "column inside the macro body")

	require.NotNil(t, pos.MacroContext)
	assert.Equal(t, "FAST", pos.MacroContext.MacroName)
	assert.Equal(t, 2, pos.MacroContext.DefinitionLine)
	assert.Equal(t, 8, pos.MacroContext.DefinitionColumn)
	assert.Equal(t, "macros", pos.MacroContext.DefinitionFile)
}

func TestErrorPositionInMacro(t *testing.T) {
	cc := newTestContext(ModernFlags())
	cc.CompileEntry("macro_error", "#macro BAD 1 +\nx = BAD;")

	errs := cc.Errors()
	require.Len(t, errs, 1)
	assert.Equal(t, "macro_error", errs[0].Position.Filename)
	assert.Equal(t, 2, errs[0].Position.Line, "reported at the ';' on line 2")
}
