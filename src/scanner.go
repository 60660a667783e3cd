package gmlfront

// Character-run scanners. Each advances from start while its predicate holds
// and returns the new offset together with the scanned slice of text. A zero
// length match is valid; callers decide what an empty run means.

func scanWhile(text string, start int, pred func(byte) bool) (int, string) {
	end := start
	for end < len(text) && pred(text[end]) {
		end++
	}
	return end, text[start:end]
}

func scanNonWhitespace(text string, start int) (int, string) {
	return scanWhile(text, start, func(c byte) bool { return !isWhitespace(c) })
}

func scanUntil(text string, start int, delimiter byte) (int, string) {
	return scanWhile(text, start, func(c byte) bool { return c != delimiter })
}

func scanIdentifier(text string, start int) (int, string) {
	return scanWhile(text, start, isIdentifierChar)
}

// scanDecimal accepts digits and at most one '.'
func scanDecimal(text string, start int) (int, string) {
	seenDot := false
	return scanWhile(text, start, func(c byte) bool {
		if c == '.' {
			if seenDot {
				return false
			}
			seenDot = true
			return true
		}
		return isDigit(c)
	})
}

func scanHex(text string, start int) (int, string) {
	return scanWhile(text, start, isHexDigit)
}

// skipHorizontalWhitespace skips spaces and tabs but stops at line breaks
func skipHorizontalWhitespace(text string, start int) int {
	end, _ := scanWhile(text, start, func(c byte) bool { return c == ' ' || c == '\t' })
	return end
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctalDigit(c byte) bool {
	return c >= '0' && c <= '7'
}

func isIdentifierStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentifierChar(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isAllHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return false
		}
	}
	return true
}
