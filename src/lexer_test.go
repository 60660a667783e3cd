package gmlfront

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(flags LanguageFlags) *CompileContext {
	config := DefaultConfig()
	config.Flags = flags
	config.Workers = 2
	return New(config, DefaultGameContext())
}

// describeTokens renders tokens without positions so two lexes can be compared
func describeTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%s:%s", tokenKind(tok), tok)
	}
	return strings.Join(parts, " ")
}

func errorMessages(cc *CompileContext) []string {
	var out []string
	for _, err := range cc.Errors() {
		out = append(out, err.Message)
	}
	return out
}

func TestNumberLiterals(t *testing.T) {
	cc := newTestContext(ModernFlags())

	tests := []struct {
		src     string
		isInt64 bool
		value   float64
	}{
		{"42", false, 42},
		{"1.5", false, 1.5},
		{".25", false, 0.25},
		{"2147483648", false, 2147483648},
		{"$1F", false, 31},
		{"0x1F", false, 31},
		{"#FF8800", false, 0x0088FF},
		{"$FFFFFFFF", true, 0},
		{"9007199254740993", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			lc := cc.Tokenize("numbers", tt.src)
			require.Len(t, lc.Tokens, 1)
			if tt.isInt64 {
				assert.IsType(t, &TokenInt64{}, lc.Tokens[0])
				return
			}
			tok, ok := lc.Tokens[0].(*TokenNumber)
			require.True(t, ok, "expected a number token, got %T", lc.Tokens[0])
			assert.Equal(t, tt.value, tok.Value)
		})
	}

	assert.Empty(t, errorMessages(cc))
}

func TestInt64Value(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("int64", "9007199254740993 $FFFFFFFF")

	want := []int64{9007199254740993, 0xFFFFFFFF}
	require.Len(t, lc.Tokens, len(want))
	for i, w := range want {
		tok, ok := lc.Tokens[i].(*TokenInt64)
		require.True(t, ok, "token %d: got %T", i, lc.Tokens[i])
		assert.Equal(t, w, tok.Value)
	}
}

func TestColorLiteralWithAlpha(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("color", "#11223344")

	tok, ok := lc.Tokens[0].(*TokenNumber)
	require.True(t, ok, "got %T", lc.Tokens[0])
	assert.Equal(t, float64(0x33221144), tok.Value)
}

func TestStringEscapes(t *testing.T) {
	cc := newTestContext(ModernFlags())

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"simple", `"a\tb"`, "a\tb"},
		{"hex", `"\x41"`, "A"},
		{"octal", `"\101"`, "A"},
		{"unicode", `"\u00e9"`, "é"},
		{"unknown stands for itself", `"\q"`, "q"},
		{"quote", `"say \"hi\""`, `say "hi"`},
		{"single quotes", `'it\'s'`, "it's"},
		{"verbatim", `@"C:\path"`, `C:\path`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := cc.Tokenize("strings", tt.src)
			require.Len(t, lc.Tokens, 1)
			tok, ok := lc.Tokens[0].(*TokenString)
			require.True(t, ok, "got %T", lc.Tokens[0])
			assert.Equal(t, tt.want, tok.Value)
		})
	}

	assert.Empty(t, errorMessages(cc))
}

func TestLegacyStringsAreVerbatim(t *testing.T) {
	cc := newTestContext(LegacyFlags())
	lc := cc.Tokenize("legacy", `"a\tb"`)

	tok := lc.Tokens[0].(*TokenString)
	assert.Equal(t, `a\tb`, tok.Value)
}

func TestUnterminatedString(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("unterminated", `s = "abc`)

	assert.Equal(t, []string{"string not closed"}, errorMessages(cc))
	last, ok := lc.Tokens[len(lc.Tokens)-1].(*TokenString)
	require.True(t, ok, "trailing token should be a string")
	assert.Equal(t, "abc", last.Value)
}

func TestInvalidOctalEscape(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("octal", `"\18"`)

	assert.Equal(t, []string{"invalid octal escape code"}, errorMessages(cc))
	assert.Equal(t, "18", lc.Tokens[0].(*TokenString).Value)
}

func TestComments(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("comments", "a // line\n/* block\n */ b /* open")

	assert.Equal(t, "identifier:a identifier:b", describeTokens(lc.Tokens))
}

func TestMacroExpansion(t *testing.T) {
	cc := newTestContext(ModernFlags())
	withMacro := cc.Lex("macro", "#macro FOO 1 + 2\nx = FOO;")

	inline := newTestContext(ModernFlags()).Lex("inline", "x = 1 + 2;")

	assert.Equal(t, describeTokens(inline.Tokens), describeTokens(withMacro.Tokens))
	assert.True(t, cc.Macros().Has("FOO"))
}

func TestMacroDiagnosticsReportedOnce(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Lex("twice", "#macro M \"oops\ntotal = M + M;")

	assert.Equal(t, []string{"string not closed"}, errorMessages(cc))
	assert.Equal(t, `variable:total operator:= string:"oops" operator:+ string:"oops" separator:;`, describeTokens(lc.Tokens))
}

func TestMacroContinuation(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Lex("continuation", "#macro SUM 1 + \\\n 2\ntotal = SUM;")

	assert.Equal(t, "variable:total operator:= number:1 operator:+ number:2 separator:;", describeTokens(lc.Tokens))
}

func TestDuplicateMacro(t *testing.T) {
	cc := newTestContext(ModernFlags())
	cc.Lex("dup", "#macro A 1\n#macro A 2\nx = A;")

	require.Equal(t, []string{`duplicate macro name "A"`}, errorMessages(cc))
	body := cc.Macros().Lookup("A").Tokens()
	require.Len(t, body, 1, "first definition wins")
	assert.Equal(t, "1", body[0].String())
}

func TestCircularMacro(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Lex("circular", "#macro A B\n#macro B A\nx = A;")

	assert.Nil(t, lc.Tokens, "no tokens after runaway expansion")
	errs := errorMessages(cc)
	require.Len(t, errs, 1)
	assert.True(t, strings.HasPrefix(errs[0], ErrMacroExpansionLimit.Error()), "unexpected message %q", errs[0])
}

func TestKeywordGating(t *testing.T) {
	src := "try throw new static function"

	modern := newTestContext(ModernFlags()).Tokenize("modern", src)
	for _, tok := range modern.Tokens {
		assert.IsType(t, &TokenKeyword{}, tok, "modern %s", tok)
	}

	legacy := newTestContext(LegacyFlags()).Tokenize("legacy", src)
	for _, tok := range legacy.Tokens {
		assert.IsType(t, &TokenIdentifier{}, tok, "legacy %s", tok)
	}
}

func TestWordOperators(t *testing.T) {
	cc := newTestContext(LegacyFlags())
	lc := cc.Tokenize("words", "a and b or not c begin end")

	want := "identifier:a operator:&& identifier:b operator:|| operator:! identifier:c separator:{ separator:}"
	assert.Equal(t, want, describeTokens(lc.Tokens))
}

func TestNullishGating(t *testing.T) {
	modern := newTestContext(ModernFlags()).Tokenize("modern", "a ?? b")
	op, ok := modern.Tokens[1].(*TokenOperator)
	require.True(t, ok)
	assert.Equal(t, OperatorNullishCoalesce, op.Kind)

	legacy := newTestContext(LegacyFlags()).Tokenize("legacy", "a ?? b")
	require.Len(t, legacy.Tokens, 4)
	for _, tok := range legacy.Tokens[1:3] {
		op, ok := tok.(*TokenOperator)
		require.True(t, ok)
		assert.Equal(t, OperatorConditional, op.Kind)
	}
}

func TestLongestSymbolMatch(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("symbols", "a ??= b <> c [| d [# e")

	want := "identifier:a operator:??= identifier:b operator:!= identifier:c separator:[| identifier:d separator:[# identifier:e"
	assert.Equal(t, want, describeTokens(lc.Tokens))
}

func TestUnrecognizedCharacter(t *testing.T) {
	cc := newTestContext(ModernFlags())
	lc := cc.Tokenize("bad", "x = 1 @ 2;")

	assert.Equal(t, []string{"unrecognized character '@'"}, errorMessages(cc))
	assert.Len(t, lc.Tokens, 5, "lexing continues past the bad character")
}

func TestClassifyIdentifiers(t *testing.T) {
	game := DefaultGameContext()
	game.Assets["spr_player"] = 7
	game.Assets["scr_move"] = 2
	game.Scripts["scr_move"] = true
	game.RoomInstances["inst_door"] = 100001

	cc := New(DefaultConfig(), game)
	lc := cc.Lex("classify", "foo() bar spr_player scr_move inst_door true c_white room")

	want := "function:foo separator:( separator:) variable:bar asset:spr_player<asset 7> variable:scr_move " +
		"asset:inst_door<asset 100001> boolean:true constant:c_white builtin-var:room"
	assert.Equal(t, want, describeTokens(lc.Tokens))
	assert.Equal(t, 1, game.NameReferences()["bar"])
	assert.Contains(t, game.ReferencedNames(), "bar")
}
