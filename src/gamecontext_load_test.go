package gmlfront

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const tomlGameContext = `
include_defaults = false
scripts = ["scr_move"]

[language]
gmlv2 = false

[[functions]]
name = "draw_self"
min_args = 0
max_args = 0

[[variables]]
name = "hp"
can_set = true

[[variables]]
name = "timers"
can_set = true
is_auto_array = true

[constants]
MAX_HP = 100.0

[assets]
spr_player = 3
scr_move = 4

[room_instances]
inst_door = 100001
`

func TestLoadGameContextTOML(t *testing.T) {
	path := writeTempFile(t, "game.toml", tomlGameContext)

	game, flags, err := LoadGameContext(path, nil)
	require.NoError(t, err)

	assert.False(t, flags.UsingGMLv2)
	assert.True(t, flags.UsingGMS2OrLater, "unset flags keep their modern default")
	assert.True(t, flags.UsingNullishOperator)

	require.NotNil(t, game.LookupBuiltinFunction("draw_self"))
	assert.Nil(t, game.LookupBuiltinFunction("show_debug_message"), "defaults were not requested")

	hp := game.LookupBuiltinVariable("hp")
	require.NotNil(t, hp)
	assert.True(t, hp.CanSet)
	assert.True(t, game.LookupBuiltinVariable("timers").IsAutomaticArray)

	value, ok := game.LookupConstant("MAX_HP")
	assert.True(t, ok)
	assert.Equal(t, 100.0, value)

	id, ok := game.GetAssetID("spr_player")
	assert.True(t, ok)
	assert.Equal(t, int32(3), id)
	assert.True(t, game.IsScriptName("scr_move"))

	id, ok = game.GetRoomInstanceAssetID("inst_door")
	assert.True(t, ok)
	assert.Equal(t, int32(100001), id)
}

func TestLoadGameContextLogsSummary(t *testing.T) {
	path := writeTempFile(t, "game.toml", tomlGameContext)

	var buf bytes.Buffer
	logger := NewLogger(true)
	logger.EnableCategory(CatSystem)
	logger.SetOutput(&buf, &buf)

	_, _, err := LoadGameContext(path, logger)
	require.NoError(t, err)
	assert.Equal(t, "[DEBUG:system] Loaded game context "+path+": 1 functions, 2 variables, 2 assets\n", buf.String())
}

func TestLoadGameContextYAML(t *testing.T) {
	path := writeTempFile(t, "game.yaml", `
include_defaults: true
language:
  nullish: false
functions:
  - name: scr_helper
    min_args: 1
    max_args: 2
constants:
  TILE: 16.5
assets:
  obj_enemy: 12
`)

	game, flags, err := LoadGameContext(path, nil)
	require.NoError(t, err)

	assert.True(t, flags.UsingGMLv2)
	assert.False(t, flags.UsingNullishOperator)

	assert.NotNil(t, game.LookupBuiltinFunction("show_debug_message"), "defaults were requested")
	fn := game.LookupBuiltinFunction("scr_helper")
	require.NotNil(t, fn)
	assert.Equal(t, 1, fn.MinArguments)
	assert.Equal(t, 2, fn.MaxArguments)

	value, _ := game.LookupConstant("TILE")
	assert.Equal(t, 16.5, value)
	id, _ := game.GetAssetID("obj_enemy")
	assert.Equal(t, int32(12), id)
}

func TestLoadGameContextErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, _, err := LoadGameContext(writeTempFile(t, "game.json", "{}"), nil)
		assert.ErrorContains(t, err, "unsupported file type")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := LoadGameContext(filepath.Join(t.TempDir(), "missing.yaml"), nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed toml", func(t *testing.T) {
		_, _, err := LoadGameContext(writeTempFile(t, "bad.toml", "functions = [[["), nil)
		assert.Error(t, err)
	})

	t.Run("nameless function", func(t *testing.T) {
		_, _, err := LoadGameContext(writeTempFile(t, "bad.yaml", "functions:\n  - min_args: 1\n"), nil)
		assert.ErrorContains(t, err, "builtin function without a name")
	})
}

func TestLoadedContextDrivesCompilation(t *testing.T) {
	path := writeTempFile(t, "game.toml", tomlGameContext)
	game, flags, err := LoadGameContext(path, nil)
	require.NoError(t, err)

	config := DefaultConfig()
	config.Flags = flags
	cc := New(config, game)
	result := cc.CompileEntry("obj_player_Create_0", "timers = MAX_HP;\nsprite_index = spr_player;\ndraw_self();")

	require.Empty(t, cc.Errors())
	assert.Equal(t, "{ (= ([ timers 0) 100) (= sprite_index (asset spr_player 3)) (call draw_self) }", FormatNode(result.Root))
}
