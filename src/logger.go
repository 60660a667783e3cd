package gmlfront

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// LogLevel represents the severity of a log message (higher value = higher severity)
type LogLevel int

const (
	LevelTrace  LogLevel = iota // Detailed tracing (requires enabled + category)
	LevelInfo                   // Informational messages (requires enabled + category)
	LevelDebug                  // Development debugging (requires enabled + category)
	LevelNotice                 // Notable events (always shown)
	LevelWarn                   // Warnings (always shown)
	LevelError                  // Compile errors (always shown)
	LevelFatal                  // Driver failures (always shown)
)

// LogCategory represents the subsystem generating the message
type LogCategory string

const (
	CatNone   LogCategory = ""       // Uncategorized
	CatLex    LogCategory = "lex"    // Tokenizer
	CatMacro  LogCategory = "macro"  // Macro definition and expansion
	CatParse  LogCategory = "parse"  // Expression and statement parser
	CatEnum   LogCategory = "enum"   // Enum resolution
	CatStatic LogCategory = "static" // Static declarations
	CatTry    LogCategory = "try"    // try/catch bookkeeping
	CatBatch  LogCategory = "batch"  // Parallel compilation of code entries
	CatSystem LogCategory = "system" // Game context files, input files
)

var allCategories = []LogCategory{
	CatLex, CatMacro, CatParse, CatEnum, CatStatic, CatTry, CatBatch, CatSystem,
}

// ANSI color codes for terminal output
const (
	colorYellow = "\x1b[93m" // Bright yellow foreground
	colorReset  = "\x1b[0m"  // Reset to default
)

// Logger handles logging for the compiler front end
type Logger struct {
	enabled           bool
	enabledCategories map[LogCategory]bool
	out               io.Writer
	errOut            io.Writer
	// colorEnabled is true if terminal colors should be used for stderr output
	colorEnabled bool
	// contextLines is how many source lines to show before an error line
	contextLines int
}

// stderrSupportsColor checks if stderr is a terminal that supports color output
func stderrSupportsColor() bool {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return false
	}

	// Respect NO_COLOR environment variable (https://no-color.org/)
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if t := os.Getenv("TERM"); t == "dumb" {
		return false
	}

	return true
}

// NewLogger creates a new logger
func NewLogger(enabled bool) *Logger {
	return &Logger{
		enabled:           enabled,
		enabledCategories: make(map[LogCategory]bool),
		out:               os.Stdout,
		errOut:            os.Stderr,
		colorEnabled:      stderrSupportsColor(),
		contextLines:      2,
	}
}

// SetContextLines sets how many source lines precede the error line in diagnostics
func (l *Logger) SetContextLines(n int) {
	l.contextLines = max(0, n)
}

// SetOutput redirects both streams, disabling color
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.out = out
	l.errOut = errOut
	l.colorEnabled = false
}

func (l *Logger) writeOutput(isDebug bool, output string) {
	if isDebug {
		_, _ = fmt.Fprintln(l.out, output)
		return
	}
	if l.colorEnabled {
		_, _ = fmt.Fprintf(l.errOut, "%s%s%s\n", colorYellow, output, colorReset)
	} else {
		_, _ = fmt.Fprintln(l.errOut, output)
	}
}

// SetEnabled enables or disables debug logging
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// EnableCategory enables debug logging for a specific category
func (l *Logger) EnableCategory(cat LogCategory) {
	l.enabledCategories[cat] = true
}

// EnableAllCategories enables all categories for debug logging
func (l *Logger) EnableAllCategories() {
	for _, cat := range allCategories {
		l.enabledCategories[cat] = true
	}
}

func (l *Logger) shouldLog(level LogLevel, cat LogCategory) bool {
	switch level {
	case LevelFatal, LevelError, LevelWarn, LevelNotice:
		return true
	case LevelDebug, LevelInfo, LevelTrace:
		return l.enabled && (cat == CatNone || l.enabledCategories[cat])
	default:
		return false
	}
}

// Log is the unified logging method
func (l *Logger) Log(level LogLevel, cat LogCategory, message string, position *SourcePosition, context []string) {
	if !l.shouldLog(level, cat) {
		return
	}

	var prefix string
	catSuffix := ""
	if cat != CatNone {
		catSuffix = fmt.Sprintf(":%s", cat)
	}

	switch level {
	case LevelTrace:
		prefix = fmt.Sprintf("[TRACE%s]", catSuffix)
	case LevelInfo:
		prefix = fmt.Sprintf("[INFO%s]", catSuffix)
	case LevelDebug:
		prefix = fmt.Sprintf("[DEBUG%s]", catSuffix)
	case LevelNotice:
		prefix = fmt.Sprintf("[GML%s NOTICE]", catSuffix)
	case LevelWarn:
		prefix = fmt.Sprintf("[GML%s WARN]", catSuffix)
	case LevelError, LevelFatal:
		prefix = fmt.Sprintf("[GML%s ERROR]", catSuffix)
	}

	output := fmt.Sprintf("%s %s", prefix, message)

	if position != nil {
		filename := position.Filename
		if filename == "" {
			filename = "<unknown>"
		}
		output += fmt.Sprintf("\n  at line %d, column %d in %s", position.Line, position.Column, filename)

		if position.MacroContext != nil {
			output += l.formatMacroContext(position.MacroContext)
		}

		if len(context) > 0 {
			output += l.formatSourceContext(position, context)
		}
	}

	isLowSeverity := level == LevelTrace || level == LevelInfo || level == LevelDebug
	l.writeOutput(isLowSeverity, output)
}

// Fatal logs a fatal error message (no position)
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.Log(LevelFatal, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// ErrorCat logs a categorized error message
func (l *Logger) ErrorCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelError, cat, fmt.Sprintf(format, args...), nil, nil)
}

// Warn logs a warning message (no position)
func (l *Logger) Warn(format string, args ...interface{}) {
	l.Log(LevelWarn, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// Notice logs a notable event (no position)
func (l *Logger) Notice(format string, args ...interface{}) {
	l.Log(LevelNotice, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// Debug logs a debug message (no position)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.Log(LevelDebug, CatNone, fmt.Sprintf(format, args...), nil, nil)
}

// DebugCat logs a categorized debug message
func (l *Logger) DebugCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelDebug, cat, fmt.Sprintf(format, args...), nil, nil)
}

// TraceCat logs a categorized trace message
func (l *Logger) TraceCat(cat LogCategory, format string, args ...interface{}) {
	l.Log(LevelTrace, cat, fmt.Sprintf(format, args...), nil, nil)
}

// CompileError logs a diagnostic produced while lexing or parsing
func (l *Logger) CompileError(err *CompileError) {
	level := LevelError
	if err.Warning {
		level = LevelWarn
	}
	l.Log(level, CatParse, err.Message, err.Position, err.Context)
}

// formatMacroContext formats the macro chain a position was defined in
func (l *Logger) formatMacroContext(macroContext *MacroContext) string {
	var message strings.Builder
	message.WriteString("\n\nMacro chain:")

	i := 0
	for current := macroContext; current != nil; current = current.ParentMacro {
		indent := strings.Repeat("  ", i+1)
		message.WriteString(fmt.Sprintf("\n%s→ macro \"%s\"", indent, current.MacroName))
		message.WriteString(fmt.Sprintf("\n%s  defined in %s:%d:%d", indent, current.DefinitionFile, current.DefinitionLine, current.DefinitionColumn))
		i++
	}

	return message.String()
}

// formatSourceContext formats source context with line numbers
func (l *Logger) formatSourceContext(position *SourcePosition, context []string) string {
	var message strings.Builder
	message.WriteString("\n")

	contextStart := max(0, position.Line-1-l.contextLines)
	contextEnd := min(len(context), position.Line+1)

	for i := contextStart; i < contextEnd; i++ {
		lineNum := i + 1
		isErrorLine := lineNum == position.Line

		prefix := " "
		if isErrorLine {
			prefix = ">"
		}

		message.WriteString(fmt.Sprintf("\n  %s %3d | %s", prefix, lineNum, context[i]))

		if isErrorLine && position.Column > 0 {
			indent := "      | " + strings.Repeat(" ", position.Column-1)
			caret := strings.Repeat("^", max(1, position.Length))
			message.WriteString(fmt.Sprintf("\n  %s%s", indent, caret))
		}
	}

	return message.String()
}
