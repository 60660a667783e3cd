package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/UnderminersTeam/gmlfront"
	"github.com/fsnotify/fsnotify"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

var version = "dev" // set via -ldflags at build time

// ANSI color codes for terminal output
const (
	colorCyan  = "\x1b[96m"
	colorReset = "\x1b[0m" // Reset to default
)

const historyFile = ".gmlc_history"

// options collected from the command line
type options struct {
	contextFile string
	tokens      bool
	ast         bool
	legacy      bool
	debug       bool
	logCats     string
	refs        bool
	workers     int
}

// stdoutSupportsColor checks if stdout is a terminal that supports color output
func stdoutSupportsColor() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// enableCategories turns on the debug categories selected by -log, or all
// of them when -debug is given alone
func enableCategories(logger *gmlfront.Logger, opts options) {
	if !opts.debug {
		return
	}
	if opts.logCats == "" {
		logger.EnableAllCategories()
		return
	}
	for _, name := range strings.Split(opts.logCats, ",") {
		logger.EnableCategory(gmlfront.LogCategory(strings.TrimSpace(name)))
	}
}

func main() {
	var opts options

	debugFlag := flag.Bool("debug", false, "Enable debug output")
	flag.BoolVar(debugFlag, "d", false, "Enable debug output (short)")
	flag.StringVar(&opts.contextFile, "context", "", "Game context file (.toml, .yaml)")
	flag.BoolVar(&opts.tokens, "tokens", false, "Dump post-processed tokens")
	flag.BoolVar(&opts.ast, "ast", false, "Dump syntax trees")
	flag.BoolVar(&opts.refs, "refs", false, "List referenced names after compiling")
	flag.StringVar(&opts.logCats, "log", "", "Comma-separated debug categories (with -debug)")
	flag.BoolVar(&opts.legacy, "legacy", false, "Compile as pre-GMS2 GML")
	flag.IntVar(&opts.workers, "workers", 0, "Number of parallel workers (default: CPU count)")
	watchFlag := flag.Bool("watch", false, "Recompile when input files change")
	interactiveFlag := flag.Bool("i", false, "Interactive mode")
	versionFlag := flag.Bool("version", false, "Show version")

	flag.Usage = showUsage
	flag.Parse()

	if *versionFlag {
		fmt.Println("gmlc", version)
		return
	}
	opts.debug = *debugFlag
	logger := gmlfront.NewLogger(opts.debug)
	enableCategories(logger, opts)

	if *interactiveFlag {
		os.Exit(runInteractive(opts, logger))
	}

	files := flag.Args()
	if len(files) == 0 {
		showUsage()
		os.Exit(2)
	}

	if !*watchFlag {
		os.Exit(compileFiles(opts, files, logger))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	if err := watchFiles(opts, files, sigChan, logger); err != nil {
		logger.Fatal("%v", err)
		os.Exit(1)
	}
}

func showUsage() {
	usage := `Usage: gmlc [options] file.gml [file.gml...]
       gmlc [options] -i

Lex and parse GML code entries, reporting diagnostics.
Every file is one code entry named after the file; macros and
enums are shared across all entries of a run.

Options:
  -d, -debug          Enable debug output
  -context FILE       Load builtins and assets from a .toml or .yaml file
  -legacy             Compile as pre-GMS2 GML (no try, structs, new)
  -log CATS           Debug categories to enable, e.g. macro,enum
  -tokens             Dump post-processed tokens
  -ast                Dump syntax trees
  -refs               List referenced names after compiling
  -workers N          Number of parallel workers
  -watch              Recompile when input files change
  -i                  Interactive mode
  -version            Show version

Examples:
  gmlc -ast scripts/*.gml
  gmlc -context game.toml -watch obj_player_Step_0.gml
`
	fmt.Fprint(os.Stderr, usage)
}

// newCompileContext builds a compile context and its game context from the
// options
func newCompileContext(opts options, logger *gmlfront.Logger) (*gmlfront.CompileContext, *gmlfront.StaticGameContext, error) {
	config := gmlfront.DefaultConfig()
	config.Debug = opts.debug
	if opts.workers > 0 {
		config.Workers = opts.workers
	}

	game := gmlfront.DefaultGameContext()
	if opts.contextFile != "" {
		loaded, flags, err := gmlfront.LoadGameContext(opts.contextFile, logger)
		if err != nil {
			return nil, nil, err
		}
		game = loaded
		config.Flags = flags
		if opts.legacy {
			logger.Warn("-legacy overrides the language flags in %s", opts.contextFile)
		}
	}
	if opts.legacy {
		config.Flags = gmlfront.LegacyFlags()
	}

	cc := gmlfront.New(config, game)
	enableCategories(cc.Logger(), opts)
	return cc, game, nil
}

// compileFiles compiles every file as one batch and returns the exit code
func compileFiles(opts options, files []string, logger *gmlfront.Logger) int {
	cc, game, err := newCompileContext(opts, logger)
	if err != nil {
		logger.Fatal("%v", err)
		return 1
	}
	logger = cc.Logger()

	entries := make([]gmlfront.CodeEntry, 0, len(files))
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.ErrorCat(gmlfront.CatSystem, "reading %s: %v", path, err)
			return 1
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		entries = append(entries, gmlfront.CodeEntry{Name: name, Source: string(content)})
	}

	logger.Debug("Compiling %d file(s)", len(entries))
	results := cc.CompileEntries(entries)
	for _, result := range results {
		printResult(opts, result)
	}
	if opts.refs {
		printReferences(game)
	}

	cc.ReportErrors()
	if len(cc.Errors()) > 0 {
		logger.Notice("%d error(s), %d warning(s)", len(cc.Errors()), len(cc.Warnings()))
		return 1
	}
	return 0
}

// printReferences lists every bare name the entries referenced, with counts
func printReferences(game *gmlfront.StaticGameContext) {
	refs := game.NameReferences()
	fmt.Println("== references ==")
	for _, name := range game.ReferencedNames() {
		fmt.Printf("%-24s %d\n", name, refs[name])
	}
}

func printResult(opts options, result *gmlfront.CompileResult) {
	if !opts.tokens && !opts.ast {
		return
	}
	fmt.Printf("== %s ==\n", result.Name)
	if opts.tokens {
		fmt.Print(gmlfront.FormatTokens(result.Lex.Tokens))
	}
	if opts.ast {
		fmt.Println(gmlfront.FormatNode(result.Root))
	}
}

// watchFiles compiles the files, then recompiles them whenever one is
// written, until a signal arrives
func watchFiles(opts options, files []string, stop <-chan os.Signal, logger *gmlfront.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors often replace files on save, so watch the directories
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, path := range files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	compileFiles(opts, files, logger)
	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] {
				continue
			}
			logger.Notice("%s changed, recompiling", filepath.Base(event.Name))
			compileFiles(opts, files, logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.ErrorCat(gmlfront.CatSystem, "watching: %v", err)
		}
	}
}

// runInteractive reads code entries from the terminal and compiles each one
// into the same compile context, so macros and enums carry over
func runInteractive(opts options, logger *gmlfront.Logger) int {
	cc, _, err := newCompileContext(opts, logger)
	if err != nil {
		logger.Fatal("%v", err)
		return 1
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("gmlc", version, "interactive mode. Type :quit to leave, :tokens, :ast or :debug to toggle output.")
	opts.ast = true

	seen := 0
	for entry := 1; ; entry++ {
		code, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		switch strings.TrimSpace(code) {
		case "":
			entry--
			continue
		case ":quit":
			return 0
		case ":tokens":
			opts.tokens = !opts.tokens
			entry--
			continue
		case ":ast":
			opts.ast = !opts.ast
			entry--
			continue
		case ":debug":
			opts.debug = !opts.debug
			cc.Logger().SetEnabled(opts.debug)
			enableCategories(cc.Logger(), opts)
			entry--
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		result := cc.CompileEntry(fmt.Sprintf("repl_%d", entry), code)
		if opts.tokens {
			fmt.Print(gmlfront.FormatTokens(result.Lex.Tokens))
		}
		if opts.ast {
			if stdoutSupportsColor() {
				fmt.Println(colorCyan + gmlfront.FormatNode(result.Root) + colorReset)
			} else {
				fmt.Println(gmlfront.FormatNode(result.Root))
			}
		}

		diagnostics := cc.Diagnostics()
		for _, d := range diagnostics[seen:] {
			cc.Logger().CompileError(d)
		}
		seen = len(diagnostics)
	}
}

// readEntry reads lines until braces and parentheses balance
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := "gml> "
		if b.Len() > 0 {
			prompt = "...> "
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl-C discards the pending entry
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if isComplete(b.String()) {
			return b.String(), true
		}
	}
}

// isComplete reports whether every bracket opened in src has been closed,
// ignoring brackets inside strings and comments
func isComplete(src string) bool {
	depth := 0
	var quote byte
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case quote != 0:
			if c == '\\' && quote == '"' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '{' || c == '(' || c == '[':
			depth++
		case c == '}' || c == ')' || c == ']':
			depth--
		}
	}
	return depth <= 0 && quote == 0 && !strings.HasSuffix(strings.TrimRight(src, " \t"), "\\")
}
