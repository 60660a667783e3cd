// Package gmlfront provides the front end of a GML compiler: a lexer with
// macro expansion, a parser producing a typed syntax tree, and the semantic
// passes that run during parsing (enum resolution, static declarations and
// try/catch bookkeeping).
//
// This package re-exports the public API from the implementation in src/.
// For full documentation, see the implementation package.
//
// Basic usage:
//
//	cc := gmlfront.New(gmlfront.DefaultConfig(), gmlfront.DefaultGameContext())
//	result := cc.CompileEntry("gml_Script_main", "var a = 1 + 2;")
//	if err := cc.Err(); err != nil {
//		cc.ReportErrors()
//	}
//	fmt.Println(gmlfront.FormatNode(result.Root))
package gmlfront

import (
	impl "github.com/UnderminersTeam/gmlfront/src"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// CompileContext owns the state shared by the code entries of one game.
type CompileContext = impl.CompileContext

// Config holds configuration options for compilation.
type Config = impl.Config

// LanguageFlags selects the GML language version.
type LanguageFlags = impl.LanguageFlags

// CodeEntry is one named piece of GML source.
type CodeEntry = impl.CodeEntry

// CompileResult is the output of compiling one code entry.
type CompileResult = impl.CompileResult

// SourcePosition tracks the position of code in source files.
type SourcePosition = impl.SourcePosition

// MacroContext tracks macro expansion for error reporting.
type MacroContext = impl.MacroContext

// CompileError is a diagnostic reported during compilation.
type CompileError = impl.CompileError

// ErrMacroExpansionLimit is wrapped by errors about runaway macro expansion.
var ErrMacroExpansionLimit = impl.ErrMacroExpansionLimit

// =============================================================================
// GAME CONTEXT
// =============================================================================

// GameContext answers questions about the game being compiled.
type GameContext = impl.GameContext

// Builtins looks up builtin functions, variables and constants.
type Builtins = impl.Builtins

// BuiltinFunction describes a builtin function.
type BuiltinFunction = impl.BuiltinFunction

// BuiltinVariable describes a builtin variable.
type BuiltinVariable = impl.BuiltinVariable

// StaticGameContext is a map-backed GameContext.
type StaticGameContext = impl.StaticGameContext

// =============================================================================
// LEXER TYPES
// =============================================================================

// LexContext holds one source text and its tokens.
type LexContext = impl.LexContext

// Token is a lexical token.
type Token = impl.Token

// Token kinds.
type (
	TokenSeparator      = impl.TokenSeparator
	TokenOperator       = impl.TokenOperator
	TokenKeyword        = impl.TokenKeyword
	TokenIdentifier     = impl.TokenIdentifier
	TokenNumber         = impl.TokenNumber
	TokenInt64          = impl.TokenInt64
	TokenBoolean        = impl.TokenBoolean
	TokenString         = impl.TokenString
	TokenFunction       = impl.TokenFunction
	TokenVariable       = impl.TokenVariable
	TokenAssetReference = impl.TokenAssetReference
)

// SeparatorKind, OperatorKind and KeywordKind enumerate token subkinds.
type (
	SeparatorKind = impl.SeparatorKind
	OperatorKind  = impl.OperatorKind
	KeywordKind   = impl.KeywordKind
)

// Macro is a named, pre-lexed token sequence.
type Macro = impl.Macro

// MacroTable holds the macros of a compile context.
type MacroTable = impl.MacroTable

// =============================================================================
// SYNTAX TREE
// =============================================================================

// Node is a syntax tree node.
type Node = impl.Node

// Expression nodes.
type (
	NumberNode             = impl.NumberNode
	Int64Node              = impl.Int64Node
	BooleanNode            = impl.BooleanNode
	StringNode             = impl.StringNode
	AssetReferenceNode     = impl.AssetReferenceNode
	SimpleVariableNode     = impl.SimpleVariableNode
	UnaryNode              = impl.UnaryNode
	PrefixNode             = impl.PrefixNode
	PostfixNode            = impl.PostfixNode
	BinaryChainNode        = impl.BinaryChainNode
	ConditionalNode        = impl.ConditionalNode
	NullishCoalesceNode    = impl.NullishCoalesceNode
	AccessorNode           = impl.AccessorNode
	DotVariableNode        = impl.DotVariableNode
	SimpleFunctionCallNode = impl.SimpleFunctionCallNode
	FunctionCallNode       = impl.FunctionCallNode
	NewObjectNode          = impl.NewObjectNode
	ArrayInitNode          = impl.ArrayInitNode
	StructNode             = impl.StructNode
	FunctionDeclNode       = impl.FunctionDeclNode
)

// Statement nodes.
type (
	AssignNode        = impl.AssignNode
	BlockNode         = impl.BlockNode
	EmptyNode         = impl.EmptyNode
	IfNode            = impl.IfNode
	SwitchNode        = impl.SwitchNode
	SwitchCaseNode    = impl.SwitchCaseNode
	WhileLoopNode     = impl.WhileLoopNode
	ForLoopNode       = impl.ForLoopNode
	RepeatLoopNode    = impl.RepeatLoopNode
	DoUntilLoopNode   = impl.DoUntilLoopNode
	WithLoopNode      = impl.WithLoopNode
	TryCatchNode      = impl.TryCatchNode
	ExitNode          = impl.ExitNode
	ReturnNode        = impl.ReturnNode
	BreakNode         = impl.BreakNode
	ContinueNode      = impl.ContinueNode
	ThrowNode         = impl.ThrowNode
	LocalVarDeclNode  = impl.LocalVarDeclNode
	GlobalVarDeclNode = impl.GlobalVarDeclNode
)

// StorageKind is where a variable lives.
type StorageKind = impl.StorageKind

// AccessorKind is the kind of an accessor like [| or [?.
type AccessorKind = impl.AccessorKind

// FunctionScope tracks locals and statics of a function body.
type FunctionScope = impl.FunctionScope

// Enum is a resolved enum.
type Enum = impl.Enum

// EnumValue is one resolved enum member.
type EnumValue = impl.EnumValue

// =============================================================================
// LOGGING
// =============================================================================

// Logger writes diagnostics and debug output.
type Logger = impl.Logger

// LogCategory identifies the logging subsystem.
type LogCategory = impl.LogCategory

// Log category constants.
const (
	CatLex    = impl.CatLex
	CatMacro  = impl.CatMacro
	CatParse  = impl.CatParse
	CatEnum   = impl.CatEnum
	CatStatic = impl.CatStatic
	CatTry    = impl.CatTry
	CatBatch  = impl.CatBatch
	CatSystem = impl.CatSystem
)

// =============================================================================
// CONSTRUCTOR FUNCTIONS
// =============================================================================

// New creates a compile context. Nil arguments select the defaults.
func New(config *Config, game GameContext) *CompileContext {
	return impl.New(config, game)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return impl.DefaultConfig()
}

// ModernFlags returns the flags for current GML.
func ModernFlags() LanguageFlags {
	return impl.ModernFlags()
}

// LegacyFlags returns the flags for GML before GMS2.
func LegacyFlags() LanguageFlags {
	return impl.LegacyFlags()
}

// DefaultGameContext returns a game context with a small set of common builtins.
func DefaultGameContext() *StaticGameContext {
	return impl.DefaultGameContext()
}

// NewStaticGameContext returns an empty game context.
func NewStaticGameContext() *StaticGameContext {
	return impl.NewStaticGameContext()
}

// LoadGameContext reads a game context from a TOML or YAML file.
// A nil logger discards debug output.
func LoadGameContext(path string, logger *Logger) (*StaticGameContext, LanguageFlags, error) {
	return impl.LoadGameContext(path, logger)
}

// NewLogger creates a logger writing to stdout and stderr.
func NewLogger(enabled bool) *Logger {
	return impl.NewLogger(enabled)
}

// =============================================================================
// TREE UTILITIES
// =============================================================================

// FormatNode renders a tree as an S-expression.
func FormatNode(n Node) string {
	return impl.FormatNode(n)
}

// FormatTokens renders tokens one per line.
func FormatTokens(tokens []Token) string {
	return impl.FormatTokens(tokens)
}

// Inspect walks a tree in depth-first order.
func Inspect(n Node, fn func(Node) bool) {
	impl.Inspect(n, fn)
}

// Transform rewrites a tree bottom-up, modifying it in place.
func Transform(n Node, fn func(Node) Node) Node {
	return impl.Transform(n, fn)
}

// TokenPosition returns the source position of a token.
func TokenPosition(tok Token) *SourcePosition {
	return impl.TokenPosition(tok)
}
