package gmlfront

import (
	"sort"
	"sync"
	"time"
)

// CompileContext owns everything shared by the code entries of one game: the
// configuration, the game context, the macro table, resolved enums and the
// diagnostic sink.
type CompileContext struct {
	config *Config
	logger *Logger
	game   GameContext
	macros *MacroTable
	sink   *ErrorSink

	enumsMu sync.RWMutex
	enums   map[string]*Enum
}

// CodeEntry is one named piece of GML source
type CodeEntry struct {
	Name   string
	Source string
}

// CompileResult is the output of compiling one code entry
type CompileResult struct {
	Name  string
	Lex   *LexContext
	Root  Node
	Scope *FunctionScope
}

// New creates a compile context. A nil config uses DefaultConfig and a nil
// game context uses DefaultGameContext.
func New(config *Config, game GameContext) *CompileContext {
	if config == nil {
		config = DefaultConfig()
	}
	if game == nil {
		game = DefaultGameContext()
	}
	if config.MaxMacroExpansions <= 0 {
		config.MaxMacroExpansions = 128
	}

	logger := NewLogger(config.Debug)
	logger.SetContextLines(config.ContextLines)

	return &CompileContext{
		config: config,
		logger: logger,
		game:   game,
		macros: NewMacroTable(logger),
		sink:   &ErrorSink{},
		enums:  make(map[string]*Enum),
	}
}

// Config returns the configuration
func (cc *CompileContext) Config() *Config { return cc.config }

// Logger returns the logger
func (cc *CompileContext) Logger() *Logger { return cc.logger }

// Game returns the game context
func (cc *CompileContext) Game() GameContext { return cc.game }

// Macros returns the macro table
func (cc *CompileContext) Macros() *MacroTable { return cc.macros }

// Tokenize lexes a code entry into raw tokens, defining any macros it
// contains. Identifiers are not yet classified.
func (cc *CompileContext) Tokenize(name, source string) *LexContext {
	lc := newLexContext(cc, name, source)
	lc.Tokenize()
	return lc
}

// Lex tokenizes a code entry and post-processes its tokens
func (cc *CompileContext) Lex(name, source string) *LexContext {
	lc := cc.Tokenize(name, source)
	lc.PostProcess()
	return lc
}

// CompileEntry lexes and parses one code entry
func (cc *CompileContext) CompileEntry(name, source string) *CompileResult {
	lc := cc.Tokenize(name, source)
	return cc.compileTokenized(lc)
}

func (cc *CompileContext) compileTokenized(lc *LexContext) *CompileResult {
	lc.PostProcess()
	pc := newParseContext(lc)
	root := pc.ParseRoot()
	pc.ResolveEnums()
	result := &CompileResult{
		Name:  lc.Filename,
		Lex:   lc,
		Root:  pc.PostProcessTree(root),
		Scope: pc.RootScope,
	}
	cc.logger.DebugCat(CatParse, "Compiled %s: %d tokens, %d statements", lc.Filename, len(lc.Tokens), len(root.Children))
	return result
}

// CompileEntries compiles a batch of code entries in parallel. All entries
// are tokenized first, so macros defined in any entry are visible to all of
// them; then each entry is post-processed and parsed. Results are returned
// in input order.
func (cc *CompileContext) CompileEntries(entries []CodeEntry) []*CompileResult {
	start := time.Now()
	workers := cc.config.Workers
	if workers < 1 {
		workers = 1
	}

	lexed := make([]*LexContext, len(entries))
	cc.runParallel(len(entries), workers, func(i int) {
		lexed[i] = cc.Tokenize(entries[i].Name, entries[i].Source)
	})
	cc.logger.DebugCat(CatBatch, "Tokenized %d entries, %d macros defined", len(entries), cc.macros.Len())

	results := make([]*CompileResult, len(entries))
	cc.runParallel(len(entries), workers, func(i int) {
		results[i] = cc.compileTokenized(lexed[i])
	})

	cc.logger.DebugCat(CatBatch, "Compiled %d entries with %d workers in %v", len(entries), workers, time.Since(start))
	return results
}

// runParallel calls fn for each index in [0, n) on a pool of workers
func (cc *CompileContext) runParallel(n, workers int, fn func(i int)) {
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(workers, n); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// Enum returns a resolved enum by name, or nil
func (cc *CompileContext) Enum(name string) *Enum {
	cc.enumsMu.RLock()
	defer cc.enumsMu.RUnlock()
	return cc.enums[name]
}

// Enums returns all resolved enums sorted by name
func (cc *CompileContext) Enums() []*Enum {
	cc.enumsMu.RLock()
	defer cc.enumsMu.RUnlock()
	out := make([]*Enum, 0, len(cc.enums))
	for _, e := range cc.enums {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// defineEnum records a resolved enum. It reports false if the name is taken.
func (cc *CompileContext) defineEnum(e *Enum) bool {
	cc.enumsMu.Lock()
	defer cc.enumsMu.Unlock()
	if _, exists := cc.enums[e.Name]; exists {
		return false
	}
	cc.enums[e.Name] = e
	return true
}

// PushError records an error at a byte offset of a lex context
func (cc *CompileContext) PushError(message string, lc *LexContext, pos int) {
	cc.push(message, lc, pos, false)
}

// PushWarning records a warning at a byte offset of a lex context
func (cc *CompileContext) PushWarning(message string, lc *LexContext, pos int) {
	cc.push(message, lc, pos, true)
}

func (cc *CompileContext) push(message string, lc *LexContext, pos int, warning bool) {
	err := &CompileError{Message: message, Warning: warning}
	if lc != nil {
		err.Position = lc.Position(pos, 1)
		if cc.config.ShowErrorContext {
			err.Context = lc.Lines()
		}
	}
	cc.sink.Push(err)
	cc.logger.TraceCat(CatParse, "diagnostic: %s", err)
}

// Errors returns all error diagnostics
func (cc *CompileContext) Errors() []*CompileError { return cc.sink.Errors() }

// Warnings returns all warning diagnostics
func (cc *CompileContext) Warnings() []*CompileError { return cc.sink.Warnings() }

// Diagnostics returns errors and warnings in the order they were reported
func (cc *CompileContext) Diagnostics() []*CompileError { return cc.sink.All() }

// Err returns all errors joined into one, or nil
func (cc *CompileContext) Err() error { return cc.sink.Err() }

// ReportErrors logs every diagnostic with its source context
func (cc *CompileContext) ReportErrors() {
	for _, d := range cc.sink.All() {
		cc.logger.CompileError(d)
	}
}
