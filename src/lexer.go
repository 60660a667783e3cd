package gmlfront

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// maxLexDepth bounds how deeply macro bodies may define further macros
const maxLexDepth = 16

// LexContext holds the source text of one code entry or macro body and the
// tokens lexed from it.
type LexContext struct {
	Text      string
	Filename  string
	Tokens    []Token
	MacroName string
	Flags     LanguageFlags

	compile   *CompileContext
	parent    *LexContext
	definedAt int
	depth     int

	lineIndexOnce sync.Once
	lineIndex     []int
	linesOnce     sync.Once
	lines         []string

	pos int
}

func newLexContext(cc *CompileContext, filename, text string) *LexContext {
	return &LexContext{
		Text:     text,
		Filename: filename,
		Flags:    cc.config.Flags,
		compile:  cc,
	}
}

// child creates the nested context a macro body is lexed in
func (lc *LexContext) child(macroName, body string, definedAt int) *LexContext {
	return &LexContext{
		Text:      body,
		Filename:  lc.Filename,
		MacroName: macroName,
		Flags:     lc.Flags,
		compile:   lc.compile,
		parent:    lc,
		definedAt: definedAt,
		depth:     lc.depth + 1,
	}
}

// pushError records a lexical diagnostic at a byte offset in this context
func (lc *LexContext) pushError(message string, pos int) {
	lc.compile.PushError(message, lc, pos)
}

func (lc *LexContext) peekByte(offset int) byte {
	if lc.pos+offset < len(lc.Text) {
		return lc.Text[lc.pos+offset]
	}
	return 0
}

func (lc *LexContext) base(pos int) tokenBase {
	return tokenBase{ctx: lc, pos: pos}
}

// Tokenize lexes the whole text into raw tokens in a single left-to-right
// pass. Errors are reported to the compile context and lexing continues.
func (lc *LexContext) Tokenize() {
	lc.pos = 0
	lc.Tokens = lc.Tokens[:0]
	text := lc.Text

	for lc.pos < len(text) {
		c := text[lc.pos]
		next := lc.peekByte(1)

		switch {
		case isWhitespace(c):
			lc.pos++
		case c == '/' && next == '/':
			lc.pos, _ = scanUntil(text, lc.pos, '\n')
		case c == '/' && next == '*':
			end := strings.Index(text[lc.pos+2:], "*/")
			if end < 0 {
				lc.pos = len(text)
			} else {
				lc.pos += end + 4
			}
		case c == '#':
			lc.lexTag()
		case isIdentifierStart(c):
			lc.lexIdentifier()
		case c == '$' || (c == '0' && (next == 'x' || next == 'X')):
			lc.lexHex()
		case isDigit(c) || (c == '.' && isDigit(next)):
			lc.lexNumber()
		case c == '@' && lc.Flags.UsingGMS2OrLater && (next == '"' || next == '\''):
			lc.lexVerbatimString(lc.pos+2, next)
		case c == '"' || c == '\'':
			if lc.Flags.UsingGMS2OrLater {
				lc.lexEscapedString(c)
			} else {
				lc.lexVerbatimString(lc.pos+1, c)
			}
		default:
			lc.lexSymbol()
		}
	}

	lc.compile.logger.TraceCat(CatLex, "Lexed %d tokens from %s", len(lc.Tokens), lc.describe())
}

func (lc *LexContext) describe() string {
	if lc.MacroName != "" {
		return "macro " + lc.MacroName
	}
	return lc.Filename
}

type wordEntry struct {
	keyword  KeywordKind
	operator OperatorKind
	sep      SeparatorKind
	kind     byte // 'k', 'o' or 's'
	modern   bool
}

var wordTable = map[string]wordEntry{
	"var":       {keyword: KeywordVar, kind: 'k'},
	"globalvar": {keyword: KeywordGlobalVar, kind: 'k'},
	"if":        {keyword: KeywordIf, kind: 'k'},
	"then":      {keyword: KeywordThen, kind: 'k'},
	"else":      {keyword: KeywordElse, kind: 'k'},
	"switch":    {keyword: KeywordSwitch, kind: 'k'},
	"case":      {keyword: KeywordCase, kind: 'k'},
	"default":   {keyword: KeywordDefault, kind: 'k'},
	"while":     {keyword: KeywordWhile, kind: 'k'},
	"for":       {keyword: KeywordFor, kind: 'k'},
	"repeat":    {keyword: KeywordRepeat, kind: 'k'},
	"do":        {keyword: KeywordDo, kind: 'k'},
	"until":     {keyword: KeywordUntil, kind: 'k'},
	"with":      {keyword: KeywordWith, kind: 'k'},
	"break":     {keyword: KeywordBreak, kind: 'k'},
	"continue":  {keyword: KeywordContinue, kind: 'k'},
	"exit":      {keyword: KeywordExit, kind: 'k'},
	"return":    {keyword: KeywordReturn, kind: 'k'},
	"enum":      {keyword: KeywordEnum, kind: 'k'},
	"try":       {keyword: KeywordTry, kind: 'k', modern: true},
	"catch":     {keyword: KeywordCatch, kind: 'k', modern: true},
	"finally":   {keyword: KeywordFinally, kind: 'k', modern: true},
	"throw":     {keyword: KeywordThrow, kind: 'k', modern: true},
	"new":       {keyword: KeywordNew, kind: 'k', modern: true},
	"delete":    {keyword: KeywordDelete, kind: 'k', modern: true},
	"function":  {keyword: KeywordFunction, kind: 'k', modern: true},
	"static":    {keyword: KeywordStatic, kind: 'k', modern: true},

	"and": {operator: OperatorLogicalAnd, kind: 'o'},
	"or":  {operator: OperatorLogicalOr, kind: 'o'},
	"xor": {operator: OperatorLogicalXor, kind: 'o'},
	"not": {operator: OperatorNot, kind: 'o'},
	"div": {operator: OperatorDiv, kind: 'o'},
	"mod": {operator: OperatorMod, kind: 'o'},

	"begin": {sep: SeparatorBlockOpen, kind: 's'},
	"end":   {sep: SeparatorBlockClose, kind: 's'},
}

func (lc *LexContext) lexIdentifier() {
	start := lc.pos
	end, text := scanIdentifier(lc.Text, start)
	lc.pos = end

	if entry, ok := wordTable[text]; ok && (!entry.modern || lc.Flags.UsingGMLv2) {
		switch entry.kind {
		case 'k':
			lc.Tokens = append(lc.Tokens, &TokenKeyword{lc.base(start), entry.keyword})
		case 'o':
			lc.Tokens = append(lc.Tokens, &TokenOperator{lc.base(start), entry.operator})
		case 's':
			lc.Tokens = append(lc.Tokens, &TokenSeparator{lc.base(start), entry.sep})
		}
		return
	}
	lc.Tokens = append(lc.Tokens, &TokenIdentifier{lc.base(start), text})
}

type symbolEntry struct {
	sep     SeparatorKind
	op      OperatorKind
	isSep   bool
	nullish bool
}

func symSep(k SeparatorKind) symbolEntry { return symbolEntry{sep: k, isSep: true} }
func symOp(k OperatorKind) symbolEntry { return symbolEntry{op: k} }

var symbolTable = map[string]symbolEntry{
	"??=": {op: OperatorCompoundNullishCoalesce, nullish: true},

	"??": {op: OperatorNullishCoalesce, nullish: true},
	"[|": symSep(SeparatorArrayListOpen),
	"[?": symSep(SeparatorArrayMapOpen),
	"[#": symSep(SeparatorArrayGridOpen),
	"[@": symSep(SeparatorArrayDirectOpen),
	"[$": symSep(SeparatorArrayStructOpen),
	"==": symOp(OperatorCompareEqual),
	"!=": symOp(OperatorCompareNotEqual),
	"<>": symOp(OperatorCompareNotEqual),
	">=": symOp(OperatorCompareGreaterEqual),
	"<=": symOp(OperatorCompareLesserEqual),
	"&&": symOp(OperatorLogicalAnd),
	"||": symOp(OperatorLogicalOr),
	"^^": symOp(OperatorLogicalXor),
	"<<": symOp(OperatorBitwiseShiftLeft),
	">>": symOp(OperatorBitwiseShiftRight),
	"++": symOp(OperatorIncrement),
	"--": symOp(OperatorDecrement),
	"+=": symOp(OperatorCompoundPlus),
	"-=": symOp(OperatorCompoundMinus),
	"*=": symOp(OperatorCompoundTimes),
	"/=": symOp(OperatorCompoundDivide),
	"%=": symOp(OperatorCompoundMod),
	"&=": symOp(OperatorCompoundBitwiseAnd),
	"|=": symOp(OperatorCompoundBitwiseOr),
	"^=": symOp(OperatorCompoundBitwiseXor),
	":=": symOp(OperatorAssign2),

	"(": symSep(SeparatorGroupOpen),
	")": symSep(SeparatorGroupClose),
	"{": symSep(SeparatorBlockOpen),
	"}": symSep(SeparatorBlockClose),
	"[": symSep(SeparatorArrayOpen),
	"]": symSep(SeparatorArrayClose),
	",": symSep(SeparatorComma),
	".": symSep(SeparatorDot),
	";": symSep(SeparatorSemicolon),
	":": symSep(SeparatorColon),
	"=": symOp(OperatorAssign),
	">": symOp(OperatorCompareGreater),
	"<": symOp(OperatorCompareLesser),
	"+": symOp(OperatorPlus),
	"-": symOp(OperatorMinus),
	"*": symOp(OperatorTimes),
	"/": symOp(OperatorDivide),
	"%": symOp(OperatorMod),
	"&": symOp(OperatorBitwiseAnd),
	"|": symOp(OperatorBitwiseOr),
	"^": symOp(OperatorBitwiseXor),
	"!": symOp(OperatorNot),
	"~": symOp(OperatorBitwiseNegate),
	"?": symOp(OperatorConditional),
}

// lexSymbol matches the longest operator or separator at the cursor
func (lc *LexContext) lexSymbol() {
	start := lc.pos
	for length := 3; length >= 1; length-- {
		if start+length > len(lc.Text) {
			continue
		}
		entry, ok := symbolTable[lc.Text[start:start+length]]
		if !ok || (entry.nullish && !lc.Flags.UsingNullishOperator) {
			continue
		}
		if entry.isSep {
			lc.Tokens = append(lc.Tokens, &TokenSeparator{lc.base(start), entry.sep})
		} else {
			lc.Tokens = append(lc.Tokens, &TokenOperator{lc.base(start), entry.op})
		}
		lc.pos += length
		return
	}

	r, size := utf8.DecodeRuneInString(lc.Text[start:])
	lc.pushError("unrecognized character '"+string(r)+"'", start)
	lc.pos += size
}
