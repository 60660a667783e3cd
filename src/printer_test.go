package gmlfront

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTokens(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Lex("t", "#macro ONE 1\nx = ONE;")

	lines := strings.Split(strings.TrimSuffix(FormatTokens(lc.Tokens), "\n"), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, []string{"2:1", "builtin-var", "x"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"1:1", "in", "ONE", "number", "1"}, strings.Fields(lines[2]))
}
