package gmlfront

import (
	"sort"
	"sync"
)

// BuiltinFunction describes an engine-provided function
type BuiltinFunction struct {
	Name         string
	MinArguments int
	MaxArguments int
}

// BuiltinVariable describes an engine-provided variable
type BuiltinVariable struct {
	Name             string
	CanSet           bool
	IsAutomaticArray bool
}

// Builtins answers name lookups for engine-provided functions, variables and constants
type Builtins interface {
	LookupBuiltinFunction(name string) *BuiltinFunction
	LookupBuiltinVariable(name string) *BuiltinVariable
	LookupConstant(name string) (float64, bool)
}

// GameContext is everything the lexer and parser query about the game being
// compiled. Implementations must be safe for concurrent reads, and
// OnParseNameIdentifier safe for concurrent calls, when entries are compiled
// in parallel.
type GameContext interface {
	Builtins
	GetAssetID(name string) (int32, bool)
	GetRoomInstanceAssetID(name string) (int32, bool)
	IsScriptName(name string) bool
	OnParseNameIdentifier(name string)
}

// StaticGameContext is a table-backed GameContext
type StaticGameContext struct {
	Functions     map[string]*BuiltinFunction
	Variables     map[string]*BuiltinVariable
	Constants     map[string]float64
	Assets        map[string]int32
	RoomInstances map[string]int32
	Scripts       map[string]bool

	mu         sync.Mutex
	references map[string]int
}

// NewStaticGameContext creates an empty game context
func NewStaticGameContext() *StaticGameContext {
	return &StaticGameContext{
		Functions:     make(map[string]*BuiltinFunction),
		Variables:     make(map[string]*BuiltinVariable),
		Constants:     make(map[string]float64),
		Assets:        make(map[string]int32),
		RoomInstances: make(map[string]int32),
		Scripts:       make(map[string]bool),
		references:    make(map[string]int),
	}
}

// DefaultGameContext returns a game context seeded with common engine builtins
func DefaultGameContext() *StaticGameContext {
	gc := NewStaticGameContext()
	for _, f := range []BuiltinFunction{
		{"show_debug_message", 1, 1},
		{"show_message", 1, 1},
		{"string", 1, 1},
		{"real", 1, 1},
		{"array_length", 1, 1},
		{"array_push", 2, -1},
		{"instance_create_depth", 4, 5},
		{"instance_destroy", 0, 2},
		{"ds_list_create", 0, 0},
		{"ds_map_create", 0, 0},
		{"ds_grid_create", 2, 2},
		{"irandom", 1, 1},
		{"random", 1, 1},
		{"floor", 1, 1},
		{"abs", 1, 1},
		{"script_execute", 1, -1},
		{"method", 2, 2},
	} {
		gc.AddFunction(f)
	}
	for _, v := range []BuiltinVariable{
		{Name: "x", CanSet: true},
		{Name: "y", CanSet: true},
		{Name: "id"},
		{Name: "object_index"},
		{Name: "depth", CanSet: true},
		{Name: "image_index", CanSet: true},
		{Name: "image_speed", CanSet: true},
		{Name: "visible", CanSet: true},
		{Name: "room", CanSet: true},
		{Name: "room_speed", CanSet: true},
		{Name: "fps"},
		{Name: "current_time"},
		{Name: "instance_count"},
		{Name: "global"},
		{Name: "undefined"},
		{Name: "argument_count"},
		{Name: "argument", CanSet: true, IsAutomaticArray: true},
		{Name: "alarm", CanSet: true, IsAutomaticArray: true},
		{Name: "view_xview", CanSet: true, IsAutomaticArray: true},
		{Name: "view_yview", CanSet: true, IsAutomaticArray: true},
	} {
		gc.AddVariable(v)
	}
	for name, value := range map[string]float64{
		"self":     -1,
		"other":    -2,
		"all":      -3,
		"noone":    -4,
		"pi":       3.141592653589793,
		"c_white":  16777215,
		"c_black":  0,
		"c_red":    255,
		"vk_space": 32,
		"vk_enter": 13,
	} {
		gc.Constants[name] = value
	}
	return gc
}

// AddFunction registers a builtin function
func (gc *StaticGameContext) AddFunction(f BuiltinFunction) {
	gc.Functions[f.Name] = &f
}

// AddVariable registers a builtin variable
func (gc *StaticGameContext) AddVariable(v BuiltinVariable) {
	gc.Variables[v.Name] = &v
}

func (gc *StaticGameContext) LookupBuiltinFunction(name string) *BuiltinFunction {
	return gc.Functions[name]
}

func (gc *StaticGameContext) LookupBuiltinVariable(name string) *BuiltinVariable {
	return gc.Variables[name]
}

func (gc *StaticGameContext) LookupConstant(name string) (float64, bool) {
	v, ok := gc.Constants[name]
	return v, ok
}

func (gc *StaticGameContext) GetAssetID(name string) (int32, bool) {
	id, ok := gc.Assets[name]
	return id, ok
}

func (gc *StaticGameContext) GetRoomInstanceAssetID(name string) (int32, bool) {
	id, ok := gc.RoomInstances[name]
	return id, ok
}

func (gc *StaticGameContext) IsScriptName(name string) bool {
	return gc.Scripts[name]
}

// OnParseNameIdentifier counts references to each bare name
func (gc *StaticGameContext) OnParseNameIdentifier(name string) {
	gc.mu.Lock()
	if gc.references == nil {
		gc.references = make(map[string]int)
	}
	gc.references[name]++
	gc.mu.Unlock()
}

// NameReferences returns how often each bare name was referenced
func (gc *StaticGameContext) NameReferences() map[string]int {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	out := make(map[string]int, len(gc.references))
	for k, v := range gc.references {
		out[k] = v
	}
	return out
}

// ReferencedNames returns referenced bare names in sorted order
func (gc *StaticGameContext) ReferencedNames() []string {
	refs := gc.NameReferences()
	names := make([]string, 0, len(refs))
	for name := range refs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
