package gmlfront

import (
	"sort"
	"sync"
)

// Macro is a named token sequence defined with #macro. Its body is lexed once,
// when the definition is read, into a private LexContext that every expansion
// site shares read-only.
type Macro struct {
	Name       string
	Body       *LexContext
	Definition *SourcePosition
}

// Tokens returns the raw (not yet post-processed) tokens of the macro body
func (m *Macro) Tokens() []Token {
	return m.Body.Tokens
}

// MacroTable manages macro definitions for a compile context.
// Macros are global to the context: a macro defined in one code entry is
// visible to every other entry post-processed after it.
type MacroTable struct {
	mu     sync.RWMutex
	macros map[string]*Macro
	logger *Logger
}

// NewMacroTable creates an empty macro table
func NewMacroTable(logger *Logger) *MacroTable {
	return &MacroTable{
		macros: make(map[string]*Macro),
		logger: logger,
	}
}

// Define registers a macro. The first definition of a name wins; Define
// reports false and leaves the table untouched for a duplicate.
func (mt *MacroTable) Define(macro *Macro) bool {
	mt.mu.Lock()
	if _, exists := mt.macros[macro.Name]; exists {
		mt.mu.Unlock()
		mt.logger.DebugCat(CatMacro, "Rejected duplicate macro \"%s\"", macro.Name)
		return false
	}
	mt.macros[macro.Name] = macro
	mt.mu.Unlock()

	mt.logger.DebugCat(CatMacro, "Defined macro \"%s\" at %s (%d tokens)", macro.Name, macro.Definition, len(macro.Tokens()))
	return true
}

// Lookup returns the macro with the given name, or nil
func (mt *MacroTable) Lookup(name string) *Macro {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return mt.macros[name]
}

// Has checks if a macro exists
func (mt *MacroTable) Has(name string) bool {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	_, exists := mt.macros[name]
	return exists
}

// Names returns all macro names in sorted order
func (mt *MacroTable) Names() []string {
	mt.mu.RLock()
	defer mt.mu.RUnlock()

	names := make([]string, 0, len(mt.macros))
	for name := range mt.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of defined macros
func (mt *MacroTable) Len() int {
	mt.mu.RLock()
	defer mt.mu.RUnlock()
	return len(mt.macros)
}
