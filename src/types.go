package gmlfront

import (
	"fmt"
	"runtime"
)

// SourcePosition tracks the position of a token or node in a code entry
type SourcePosition struct {
	Offset       int
	Line         int
	Column       int
	Length       int
	Filename     string
	MacroContext *MacroContext
}

func (p *SourcePosition) String() string {
	if p == nil {
		return "<unknown>"
	}
	filename := p.Filename
	if filename == "" {
		filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", filename, p.Line, p.Column)
}

// MacroContext describes the macro body a position lies in, for error reporting
type MacroContext struct {
	MacroName        string
	DefinitionFile   string
	DefinitionLine   int
	DefinitionColumn int
	ParentMacro      *MacroContext
}

// LanguageFlags gates keywords, operators and literal forms by GameMaker version
type LanguageFlags struct {
	// UsingGMLv2 enables try/catch/finally/throw, new, delete, function, static,
	// struct literals and the 2-D array rewrite.
	UsingGMLv2 bool
	// UsingGMS2OrLater enables escaped strings, @-verbatim strings and array literals.
	UsingGMS2OrLater bool
	// UsingNullishOperator enables ?? and ??=.
	UsingNullishOperator bool
}

// ModernFlags returns flags for the newest supported language version
func ModernFlags() LanguageFlags {
	return LanguageFlags{
		UsingGMLv2:           true,
		UsingGMS2OrLater:     true,
		UsingNullishOperator: true,
	}
}

// LegacyFlags returns flags for GameMaker: Studio 1.x code
func LegacyFlags() LanguageFlags {
	return LanguageFlags{}
}

// Config holds configuration for a compile context
type Config struct {
	Debug              bool
	Flags              LanguageFlags
	ShowErrorContext   bool
	ContextLines       int
	MaxMacroExpansions int
	Workers            int
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		Flags:              ModernFlags(),
		ShowErrorContext:   true,
		ContextLines:       2,
		MaxMacroExpansions: 128,
		Workers:            runtime.NumCPU(),
	}
}

// CompileError represents a diagnostic with position information
type CompileError struct {
	Message  string
	Position *SourcePosition
	Context  []string
	Warning  bool
}

func (e *CompileError) Error() string {
	if e.Position == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Position, e.Message)
}
