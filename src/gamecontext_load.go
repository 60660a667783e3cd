package gmlfront

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// gameContextFile is the on-disk description of a game's builtins and assets
type gameContextFile struct {
	IncludeDefaults bool `toml:"include_defaults" yaml:"include_defaults"`

	Language struct {
		GMLv2   *bool `toml:"gmlv2" yaml:"gmlv2"`
		GMS2    *bool `toml:"gms2" yaml:"gms2"`
		Nullish *bool `toml:"nullish" yaml:"nullish"`
	} `toml:"language" yaml:"language"`

	Functions []struct {
		Name    string `toml:"name" yaml:"name"`
		MinArgs int    `toml:"min_args" yaml:"min_args"`
		MaxArgs int    `toml:"max_args" yaml:"max_args"`
	} `toml:"functions" yaml:"functions"`

	Variables []struct {
		Name        string `toml:"name" yaml:"name"`
		CanSet      bool   `toml:"can_set" yaml:"can_set"`
		IsAutoArray bool   `toml:"is_auto_array" yaml:"is_auto_array"`
	} `toml:"variables" yaml:"variables"`

	Constants     map[string]float64 `toml:"constants" yaml:"constants"`
	Assets        map[string]int32   `toml:"assets" yaml:"assets"`
	RoomInstances map[string]int32   `toml:"room_instances" yaml:"room_instances"`
	Scripts       []string           `toml:"scripts" yaml:"scripts"`
}

// LoadGameContext reads a game context from a TOML (.toml) or YAML
// (.yaml, .yml) file. The returned flags start from ModernFlags and are
// overridden by the file's [language] table. A nil logger discards debug
// output.
func LoadGameContext(path string, logger *Logger) (*StaticGameContext, LanguageFlags, error) {
	if logger == nil {
		logger = NewLogger(false)
	}
	var file gameContextFile
	flags := ModernFlags()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &file); err != nil {
			return nil, flags, fmt.Errorf("loading game context %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, flags, fmt.Errorf("loading game context %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, flags, fmt.Errorf("loading game context %s: %w", path, err)
		}
	default:
		return nil, flags, fmt.Errorf("loading game context %s: unsupported file type %q", path, ext)
	}

	gc, flags, err := file.build(flags)
	if err != nil {
		return nil, flags, fmt.Errorf("loading game context %s: %w", path, err)
	}
	logger.DebugCat(CatSystem, "Loaded game context %s: %d functions, %d variables, %d assets",
		path, len(file.Functions), len(file.Variables), len(file.Assets))
	return gc, flags, nil
}

func (f *gameContextFile) build(flags LanguageFlags) (*StaticGameContext, LanguageFlags, error) {
	var gc *StaticGameContext
	if f.IncludeDefaults {
		gc = DefaultGameContext()
	} else {
		gc = NewStaticGameContext()
	}

	for _, fn := range f.Functions {
		if fn.Name == "" {
			return nil, flags, fmt.Errorf("builtin function without a name")
		}
		gc.AddFunction(BuiltinFunction{Name: fn.Name, MinArguments: fn.MinArgs, MaxArguments: fn.MaxArgs})
	}
	for _, v := range f.Variables {
		if v.Name == "" {
			return nil, flags, fmt.Errorf("builtin variable without a name")
		}
		gc.AddVariable(BuiltinVariable{Name: v.Name, CanSet: v.CanSet, IsAutomaticArray: v.IsAutoArray})
	}
	for name, value := range f.Constants {
		gc.Constants[name] = value
	}
	for name, id := range f.Assets {
		gc.Assets[name] = id
	}
	for name, id := range f.RoomInstances {
		gc.RoomInstances[name] = id
	}
	for _, name := range f.Scripts {
		gc.Scripts[name] = true
	}

	if f.Language.GMLv2 != nil {
		flags.UsingGMLv2 = *f.Language.GMLv2
	}
	if f.Language.GMS2 != nil {
		flags.UsingGMS2OrLater = *f.Language.GMS2
	}
	if f.Language.Nullish != nil {
		flags.UsingNullishOperator = *f.Language.Nullish
	}
	return gc, flags, nil
}
