package gmlfront

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// lexNumber lexes a decimal literal: digits with at most one '.'
func (lc *LexContext) lexNumber() {
	start := lc.pos
	end, text := scanDecimal(lc.Text, start)
	lc.pos = end
	lc.emitDecimal(text, start)
}

func (lc *LexContext) emitDecimal(text string, start int) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		if roundTripsFloat(v) {
			lc.Tokens = append(lc.Tokens, &TokenNumber{tokenBase: lc.base(start), Text: text, Value: float64(v)})
		} else {
			lc.Tokens = append(lc.Tokens, &TokenInt64{lc.base(start), text, v})
		}
		return
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		lc.Tokens = append(lc.Tokens, &TokenNumber{tokenBase: lc.base(start), Text: text, Value: f})
		return
	}
	lc.pushError("invalid number literal \""+text+"\"", start)
}

// roundTripsFloat reports whether v survives conversion to float64 and back
func roundTripsFloat(v int64) bool {
	f := float64(v)
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return false
	}
	return int64(f) == v
}

// lexHex lexes "$XXXX" and "0xXXXX"
func (lc *LexContext) lexHex() {
	start := lc.pos
	digitsStart := start + 1
	if lc.Text[start] == '0' {
		digitsStart = start + 2
	}
	end, digits := scanHex(lc.Text, digitsStart)
	lc.pos = end
	if digits == "" {
		lc.pushError("invalid hex literal", start)
		return
	}
	lc.emitHex(lc.Text[start:end], digits, start)
}

// emitHex parses hex digits, producing a 32-bit range number token when the
// value fits and a 64-bit integer token otherwise
func (lc *LexContext) emitHex(text, digits string, start int) {
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		lc.pushError("invalid hex literal \""+text+"\"", start)
		return
	}
	if v <= math.MaxInt32 {
		lc.Tokens = append(lc.Tokens, &TokenNumber{tokenBase: lc.base(start), Text: text, Value: float64(v)})
		return
	}
	lc.Tokens = append(lc.Tokens, &TokenInt64{lc.base(start), text, int64(v)})
}

// swapColorBytes converts RRGGBB(AA) to the engine's BBGGRR(AA) order
func swapColorBytes(digits string) string {
	swapped := digits[4:6] + digits[2:4] + digits[0:2]
	if len(digits) == 8 {
		swapped += digits[6:8]
	}
	return swapped
}

func isColorLiteral(body string) bool {
	return (len(body) == 6 || len(body) == 8) && isAllHex(body)
}

// lexVerbatimString lexes a string with no escapes. contentStart is the first
// byte after the opening delimiter.
func (lc *LexContext) lexVerbatimString(contentStart int, delimiter byte) {
	start := lc.pos
	end, value := scanUntil(lc.Text, contentStart, delimiter)
	if end >= len(lc.Text) {
		lc.pushError("string not closed", start)
		lc.pos = len(lc.Text)
	} else {
		lc.pos = end + 1
	}
	lc.Tokens = append(lc.Tokens, &TokenString{lc.base(start), lc.Text[start:lc.pos], value})
}

// lexEscapedString lexes a string with C-style escape sequences
func (lc *LexContext) lexEscapedString(delimiter byte) {
	start := lc.pos
	text := lc.Text
	i := start + 1

	var value strings.Builder
	reportedNewline := false
	closed := false

	for i < len(text) {
		c := text[i]
		if c == delimiter {
			closed = true
			i++
			break
		}
		if c == '\n' {
			if !reportedNewline {
				lc.pushError("newline in string", i)
				reportedNewline = true
			}
			value.WriteByte(c)
			i++
			continue
		}
		if c != '\\' {
			value.WriteByte(c)
			i++
			continue
		}

		// escape sequence
		i++
		if i >= len(text) {
			break
		}
		i = lc.lexEscape(&value, i)
	}

	if !closed {
		lc.pushError("string not closed", start)
	}
	lc.pos = i
	lc.Tokens = append(lc.Tokens, &TokenString{lc.base(start), text[start:i], value.String()})
}

var simpleEscapes = map[byte]byte{
	'a': '\a',
	'b': '\b',
	'f': '\f',
	'n': '\n',
	'r': '\r',
	't': '\t',
	'v': '\v',
}

// lexEscape decodes the escape whose code character is at i and returns the
// offset just past it
func (lc *LexContext) lexEscape(value *strings.Builder, i int) int {
	text := lc.Text
	c := text[i]

	if decoded, ok := simpleEscapes[c]; ok {
		value.WriteByte(decoded)
		return i + 1
	}

	switch {
	case c == 'u':
		end, digits := scanHex(text, i+1)
		if len(digits) > 6 {
			digits = digits[:6]
			end = i + 1 + 6
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			lc.pushError("invalid escape code \\u"+digits, i-1)
			return end
		}
		value.WriteRune(rune(v))
		return end

	case c == 'x':
		if i+2 < len(text) && isHexDigit(text[i+1]) && isHexDigit(text[i+2]) {
			v, _ := strconv.ParseUint(text[i+1:i+3], 16, 8)
			value.WriteRune(rune(v))
			return i + 3
		}
		lc.pushError("invalid escape code \\x", i-1)
		return i + 1

	case isOctalDigit(c):
		if i+2 < len(text) && isOctalDigit(text[i+1]) && isOctalDigit(text[i+2]) {
			v, _ := strconv.ParseUint(text[i:i+3], 8, 16)
			value.WriteRune(rune(v))
			return i + 3
		}
		lc.pushError("invalid octal escape code", i-1)
		value.WriteByte(c)
		return i + 1
	}

	// Anything else, including the delimiter and backslash, stands for itself
	value.WriteByte(c)
	return i + 1
}
