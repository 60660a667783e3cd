package gmlfront

import "strings"

// lexTag handles everything introduced by '#': regions, macro definitions and
// colour literals.
func (lc *LexContext) lexTag() {
	start := lc.pos
	end, name := scanIdentifier(lc.Text, start+1)
	lc.pos = end

	switch {
	case name == "region" || name == "endregion":
		lc.pos, _ = scanUntil(lc.Text, lc.pos, '\n')
	case name == "macro":
		lc.lexMacroDefinition(start)
	case isColorLiteral(name):
		lc.emitHex(lc.Text[start:end], swapColorBytes(name), start)
	default:
		lc.pushError("unrecognized tag \"#"+name+"\"", start)
	}
}

// lexMacroDefinition reads "#macro NAME body". The body runs to the end of the
// line; a backslash followed only by spaces up to the newline joins the next
// line onto the body.
func (lc *LexContext) lexMacroDefinition(tagStart int) {
	text := lc.Text
	nameStart := skipHorizontalWhitespace(text, lc.pos)
	nameEnd, name := scanIdentifier(text, nameStart)
	lc.pos = nameEnd
	if name == "" {
		lc.pushError("expected macro name", tagStart)
		lc.pos, _ = scanUntil(text, lc.pos, '\n')
		return
	}

	body, bodyEnd := readMacroBody(text, skipHorizontalWhitespace(text, nameEnd))
	lc.pos = bodyEnd

	logger := lc.compile.logger
	macros := lc.compile.macros
	if macros.Has(name) {
		lc.pushError("duplicate macro name \""+name+"\"", nameStart)
		return
	}
	if lc.depth >= maxLexDepth {
		lc.pushError("macro \""+name+"\" is nested too deeply", nameStart)
		return
	}

	bodyCtx := lc.child(name, body, nameStart)
	bodyCtx.Tokenize()

	macro := &Macro{
		Name:       name,
		Body:       bodyCtx,
		Definition: lc.Position(nameStart, len(name)),
	}
	if !macros.Define(macro) {
		// Another entry compiled in parallel defined it first
		lc.pushError("duplicate macro name \""+name+"\"", nameStart)
		return
	}
	logger.TraceCat(CatMacro, "Macro %s body %q", name, body)
}

// readMacroBody returns the macro body starting at start, with line
// continuations removed, and the offset of the end of the definition
func readMacroBody(text string, start int) (string, int) {
	var body strings.Builder
	i := start
	for i < len(text) && text[i] != '\n' {
		c := text[i]
		if c == '\\' {
			j := i + 1
			for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\r') {
				j++
			}
			if j < len(text) && text[j] == '\n' {
				i = j + 1
				continue
			}
		}
		body.WriteByte(c)
		i++
	}
	return strings.TrimRight(body.String(), " \t\r"), i
}
