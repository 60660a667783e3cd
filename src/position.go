package gmlfront

import (
	"sort"
	"strings"
)

// GetLineAndColumnFromPos maps a byte offset to a 1-based line and column.
// The newline table is built on first use; it is safe to call from several
// goroutines since macro bodies are shared between code entries.
func (lc *LexContext) GetLineAndColumnFromPos(pos int) (line, column int) {
	lc.lineIndexOnce.Do(func() {
		for i := 0; i < len(lc.Text); i++ {
			if lc.Text[i] == '\n' {
				lc.lineIndex = append(lc.lineIndex, i)
			}
		}
	})

	i := sort.SearchInts(lc.lineIndex, pos)
	if i < len(lc.lineIndex) && lc.lineIndex[i] == pos {
		// The newline itself counts as the start of the next line
		return i + 2, 1
	}

	lineStart := 0
	if i > 0 {
		lineStart = lc.lineIndex[i-1] + 1
	}
	return i + 1, pos - lineStart + 1
}

// Lines returns the source split into lines, without line terminators
func (lc *LexContext) Lines() []string {
	lc.linesOnce.Do(func() {
		lc.lines = strings.Split(lc.Text, "\n")
		for i, line := range lc.lines {
			lc.lines[i] = strings.TrimSuffix(line, "\r")
		}
	})
	return lc.lines
}

// Position builds a SourcePosition for a byte range in this context. Positions
// inside a macro body carry the macro's definition site.
func (lc *LexContext) Position(pos, length int) *SourcePosition {
	line, column := lc.GetLineAndColumnFromPos(pos)
	return &SourcePosition{
		Offset:       pos,
		Line:         line,
		Column:       column,
		Length:       length,
		Filename:     lc.Filename,
		MacroContext: lc.macroContext(),
	}
}

func (lc *LexContext) macroContext() *MacroContext {
	if lc.MacroName == "" || lc.parent == nil {
		return nil
	}
	line, column := lc.parent.GetLineAndColumnFromPos(lc.definedAt)
	return &MacroContext{
		MacroName:        lc.MacroName,
		DefinitionFile:   lc.parent.Filename,
		DefinitionLine:   line,
		DefinitionColumn: column,
		ParentMacro:      lc.parent.macroContext(),
	}
}

// TokenPosition returns the source position of a token
func TokenPosition(tok Token) *SourcePosition {
	if tok == nil || tok.Context() == nil {
		return nil
	}
	return tok.Context().Position(tok.Pos(), len(tok.String()))
}
