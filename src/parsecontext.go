package gmlfront

import "fmt"

// FunctionScope tracks the names declared in one function body, or in the
// top level of a code entry for the root scope
type FunctionScope struct {
	Parent     *FunctionScope
	IsFunction bool
	Locals     map[string]bool
	Statics    map[string]bool
	Arguments  []string
	// StaticInitBlock is created on the first static declaration in the scope
	StaticInitBlock *BlockNode
}

func newFunctionScope(parent *FunctionScope, isFunction bool) *FunctionScope {
	return &FunctionScope{
		Parent:     parent,
		IsFunction: isFunction,
		Locals:     make(map[string]bool),
		Statics:    make(map[string]bool),
	}
}

// TryStatementContext is the bookkeeping for break/continue code generation
// inside try statements.
//
// There is exactly one of these per ParseContext. A nested or following try
// statement overwrites it and nothing restores the previous one, so the outer
// statement observes the inner statement's variable names. The reference
// compiler behaves the same way and generated code depends on it.
type TryStatementContext struct {
	BreakVariableName               string
	ContinueVariableName            string
	HasFinally                      bool
	HasBreakContinueVariable        bool
	ShouldGenerateBreakContinueCode bool
	ThrowFinallyGeneration          bool
}

// flowCounters counts statements that leave the current block
type flowCounters struct {
	ExitCount     int
	ReturnCount   int
	BreakCount    int
	ContinueCount int
	ThrowCount    int
}

// ParseContext is a cursor over the post-processed tokens of one code entry
// together with the state the parser mutates while building the tree
type ParseContext struct {
	Flags LanguageFlags

	compile  *CompileContext
	lex      *LexContext
	tokens   []Token
	position int
	// errorToken is the token the last error was reported at
	errorToken Token

	CurrentScope *FunctionScope
	RootScope    *FunctionScope
	globals      map[string]bool

	enumDeclarations map[string]*EnumDeclaration
	enumOrder        []string

	Try        *TryStatementContext
	tryCounter int

	flowCounters
}

func newParseContext(lc *LexContext) *ParseContext {
	root := newFunctionScope(nil, false)
	return &ParseContext{
		Flags:            lc.Flags,
		compile:          lc.compile,
		lex:              lc,
		tokens:           lc.Tokens,
		CurrentScope:     root,
		RootScope:        root,
		globals:          make(map[string]bool),
		enumDeclarations: make(map[string]*EnumDeclaration),
	}
}

// EndOfCode reports whether all tokens have been consumed
func (pc *ParseContext) EndOfCode() bool {
	return pc.position >= len(pc.tokens)
}

// Peek returns the current token, or nil at the end of the code
func (pc *ParseContext) Peek() Token {
	return pc.PeekAt(0)
}

// PeekAt returns the token offset positions past the cursor, or nil
func (pc *ParseContext) PeekAt(offset int) Token {
	if pc.position+offset < len(pc.tokens) {
		return pc.tokens[pc.position+offset]
	}
	return nil
}

// Advance moves past the current token and returns it
func (pc *ParseContext) Advance() Token {
	tok := pc.Peek()
	if tok != nil {
		pc.position++
	}
	return tok
}

// skipFailed moves past a statement that failed to parse. The cursor always
// moves, and a token that already has an error is not parsed again unless it
// ends the enclosing statement list.
func (pc *ParseContext) skipFailed(start int, stop func() bool) {
	if pc.position == start {
		pc.Advance()
		return
	}
	if pc.errorToken != nil && pc.Peek() == pc.errorToken && !stop() {
		pc.Advance()
	}
}

func (pc *ParseContext) currentSeparator(kind SeparatorKind) (*TokenSeparator, bool) {
	s, ok := pc.Peek().(*TokenSeparator)
	if !ok || s.Kind != kind {
		return nil, false
	}
	return s, true
}

func (pc *ParseContext) currentOperator(kind OperatorKind) (*TokenOperator, bool) {
	o, ok := pc.Peek().(*TokenOperator)
	if !ok || o.Kind != kind {
		return nil, false
	}
	return o, true
}

func (pc *ParseContext) currentKeyword(kind KeywordKind) (*TokenKeyword, bool) {
	k, ok := pc.Peek().(*TokenKeyword)
	if !ok || k.Kind != kind {
		return nil, false
	}
	return k, true
}

// IsCurrentSeparator checks the current token without consuming it
func (pc *ParseContext) IsCurrentSeparator(kind SeparatorKind) bool {
	_, ok := pc.currentSeparator(kind)
	return ok
}

// IsCurrentOperator checks the current token without consuming it
func (pc *ParseContext) IsCurrentOperator(kind OperatorKind) bool {
	_, ok := pc.currentOperator(kind)
	return ok
}

// IsCurrentKeyword checks the current token without consuming it
func (pc *ParseContext) IsCurrentKeyword(kind KeywordKind) bool {
	_, ok := pc.currentKeyword(kind)
	return ok
}

// EnsureSeparator consumes the expected separator, or reports one
// diagnostic and leaves the cursor alone
func (pc *ParseContext) EnsureSeparator(kind SeparatorKind) bool {
	if pc.IsCurrentSeparator(kind) {
		pc.position++
		return true
	}
	pc.PushError(fmt.Sprintf("expected '%s', got %s", kind, pc.describeCurrent()), pc.Peek())
	return false
}

func (pc *ParseContext) describeCurrent() string {
	tok := pc.Peek()
	if tok == nil {
		return "end of code"
	}
	return fmt.Sprintf("'%s'", tok)
}

func (pc *ParseContext) optionalSemicolon() {
	if pc.IsCurrentSeparator(SeparatorSemicolon) {
		pc.position++
	}
}

// PushError reports a diagnostic at tok. A nil token means the end of the
// code, which is reported just past the last token.
func (pc *ParseContext) PushError(message string, tok Token) {
	pc.errorToken = tok
	lc, pos := pc.locate(tok)
	pc.compile.PushError(message, lc, pos)
}

// PushWarning reports a non-fatal diagnostic at tok
func (pc *ParseContext) PushWarning(message string, tok Token) {
	lc, pos := pc.locate(tok)
	pc.compile.PushWarning(message, lc, pos)
}

func (pc *ParseContext) locate(tok Token) (*LexContext, int) {
	if tok == nil {
		if len(pc.tokens) == 0 {
			return pc.lex, len(pc.lex.Text)
		}
		tok = pc.tokens[len(pc.tokens)-1]
	}
	return tok.Context(), tok.Pos()
}

// storageOf resolves the storage class of a bare name in the current scope
func (pc *ParseContext) storageOf(name string) StorageKind {
	switch {
	case pc.CurrentScope.Locals[name]:
		return StorageLocal
	case pc.CurrentScope.Statics[name]:
		return StorageStatic
	case pc.globals[name]:
		return StorageGlobal
	}
	return StorageDefault
}

// enterFunction switches to a fresh function scope and flow counters, and
// returns the function that restores the enclosing ones
func (pc *ParseContext) enterFunction() (*FunctionScope, func()) {
	savedScope := pc.CurrentScope
	savedCounters := pc.flowCounters
	pc.CurrentScope = newFunctionScope(savedScope, true)
	pc.flowCounters = flowCounters{}
	return pc.CurrentScope, func() {
		pc.CurrentScope = savedScope
		pc.flowCounters = savedCounters
	}
}
