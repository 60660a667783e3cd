package gmlfront

import (
	"fmt"
	"strconv"
)

// Token is one lexical unit. The set of implementations is closed; switch on
// the concrete type. Tokens are never mutated after creation: post-processing
// builds a new sequence of replacement tokens.
type Token interface {
	// Context is the lex context the token's text lives in: the code entry,
	// or a macro body for tokens spliced in by macro expansion.
	Context() *LexContext
	// Pos is the byte offset of the token within Context().Text.
	Pos() int
	String() string
	isToken()
}

type tokenBase struct {
	ctx *LexContext
	pos int
}

func (t tokenBase) Context() *LexContext { return t.ctx }
func (t tokenBase) Pos() int { return t.pos }
func (tokenBase) isToken() {}

// SeparatorKind enumerates punctuation tokens
type SeparatorKind uint8

const (
	SeparatorGroupOpen SeparatorKind = iota
	SeparatorGroupClose
	SeparatorBlockOpen
	SeparatorBlockClose
	SeparatorArrayOpen
	SeparatorArrayClose
	SeparatorArrayListOpen
	SeparatorArrayMapOpen
	SeparatorArrayGridOpen
	SeparatorArrayDirectOpen
	SeparatorArrayStructOpen
	SeparatorComma
	SeparatorDot
	SeparatorSemicolon
	SeparatorColon
)

var separatorText = [...]string{
	SeparatorGroupOpen:       "(",
	SeparatorGroupClose:      ")",
	SeparatorBlockOpen:       "{",
	SeparatorBlockClose:      "}",
	SeparatorArrayOpen:       "[",
	SeparatorArrayClose:      "]",
	SeparatorArrayListOpen:   "[|",
	SeparatorArrayMapOpen:    "[?",
	SeparatorArrayGridOpen:   "[#",
	SeparatorArrayDirectOpen: "[@",
	SeparatorArrayStructOpen: "[$",
	SeparatorComma:           ",",
	SeparatorDot:             ".",
	SeparatorSemicolon:       ";",
	SeparatorColon:           ":",
}

func (k SeparatorKind) String() string { return separatorText[k] }

// OperatorKind enumerates operator tokens, including word operators like "and"
type OperatorKind uint8

const (
	OperatorAssign OperatorKind = iota
	OperatorAssign2
	OperatorCompareEqual
	OperatorCompareNotEqual
	OperatorCompareGreater
	OperatorCompareGreaterEqual
	OperatorCompareLesser
	OperatorCompareLesserEqual
	OperatorPlus
	OperatorMinus
	OperatorTimes
	OperatorDivide
	OperatorMod
	OperatorDiv
	OperatorLogicalAnd
	OperatorLogicalOr
	OperatorLogicalXor
	OperatorBitwiseAnd
	OperatorBitwiseOr
	OperatorBitwiseXor
	OperatorBitwiseShiftLeft
	OperatorBitwiseShiftRight
	OperatorNot
	OperatorBitwiseNegate
	OperatorIncrement
	OperatorDecrement
	OperatorConditional
	OperatorNullishCoalesce
	OperatorCompoundPlus
	OperatorCompoundMinus
	OperatorCompoundTimes
	OperatorCompoundDivide
	OperatorCompoundMod
	OperatorCompoundBitwiseAnd
	OperatorCompoundBitwiseOr
	OperatorCompoundBitwiseXor
	OperatorCompoundNullishCoalesce
)

var operatorText = [...]string{
	OperatorAssign:                  "=",
	OperatorAssign2:                 ":=",
	OperatorCompareEqual:            "==",
	OperatorCompareNotEqual:         "!=",
	OperatorCompareGreater:          ">",
	OperatorCompareGreaterEqual:     ">=",
	OperatorCompareLesser:           "<",
	OperatorCompareLesserEqual:      "<=",
	OperatorPlus:                    "+",
	OperatorMinus:                   "-",
	OperatorTimes:                   "*",
	OperatorDivide:                  "/",
	OperatorMod:                     "%",
	OperatorDiv:                     "div",
	OperatorLogicalAnd:              "&&",
	OperatorLogicalOr:               "||",
	OperatorLogicalXor:              "^^",
	OperatorBitwiseAnd:              "&",
	OperatorBitwiseOr:               "|",
	OperatorBitwiseXor:              "^",
	OperatorBitwiseShiftLeft:        "<<",
	OperatorBitwiseShiftRight:       ">>",
	OperatorNot:                     "!",
	OperatorBitwiseNegate:           "~",
	OperatorIncrement:               "++",
	OperatorDecrement:               "--",
	OperatorConditional:             "?",
	OperatorNullishCoalesce:         "??",
	OperatorCompoundPlus:            "+=",
	OperatorCompoundMinus:           "-=",
	OperatorCompoundTimes:           "*=",
	OperatorCompoundDivide:          "/=",
	OperatorCompoundMod:             "%=",
	OperatorCompoundBitwiseAnd:      "&=",
	OperatorCompoundBitwiseOr:       "|=",
	OperatorCompoundBitwiseXor:      "^=",
	OperatorCompoundNullishCoalesce: "??=",
}

func (k OperatorKind) String() string { return operatorText[k] }

// KeywordKind enumerates reserved words
type KeywordKind uint8

const (
	KeywordVar KeywordKind = iota
	KeywordGlobalVar
	KeywordIf
	KeywordThen
	KeywordElse
	KeywordSwitch
	KeywordCase
	KeywordDefault
	KeywordWhile
	KeywordFor
	KeywordRepeat
	KeywordDo
	KeywordUntil
	KeywordWith
	KeywordBreak
	KeywordContinue
	KeywordExit
	KeywordReturn
	KeywordEnum
	KeywordTry
	KeywordCatch
	KeywordFinally
	KeywordThrow
	KeywordNew
	KeywordDelete
	KeywordFunction
	KeywordStatic
)

var keywordText = [...]string{
	KeywordVar:       "var",
	KeywordGlobalVar: "globalvar",
	KeywordIf:        "if",
	KeywordThen:      "then",
	KeywordElse:      "else",
	KeywordSwitch:    "switch",
	KeywordCase:      "case",
	KeywordDefault:   "default",
	KeywordWhile:     "while",
	KeywordFor:       "for",
	KeywordRepeat:    "repeat",
	KeywordDo:        "do",
	KeywordUntil:     "until",
	KeywordWith:      "with",
	KeywordBreak:     "break",
	KeywordContinue:  "continue",
	KeywordExit:      "exit",
	KeywordReturn:    "return",
	KeywordEnum:      "enum",
	KeywordTry:       "try",
	KeywordCatch:     "catch",
	KeywordFinally:   "finally",
	KeywordThrow:     "throw",
	KeywordNew:       "new",
	KeywordDelete:    "delete",
	KeywordFunction:  "function",
	KeywordStatic:    "static",
}

func (k KeywordKind) String() string { return keywordText[k] }

// TokenSeparator is punctuation such as parentheses, brackets and commas
type TokenSeparator struct {
	tokenBase
	Kind SeparatorKind
}

func (t *TokenSeparator) String() string { return t.Kind.String() }

// TokenOperator is an operator symbol or word operator
type TokenOperator struct {
	tokenBase
	Kind OperatorKind
}

func (t *TokenOperator) String() string { return t.Kind.String() }

// TokenKeyword is a reserved word
type TokenKeyword struct {
	tokenBase
	Kind KeywordKind
}

func (t *TokenKeyword) String() string { return t.Kind.String() }

// TokenIdentifier is a name before post-processing has classified it
type TokenIdentifier struct {
	tokenBase
	Text string
}

func (t *TokenIdentifier) String() string { return t.Text }

// TokenNumber is a double-valued numeric literal or named constant
type TokenNumber struct {
	tokenBase
	Text       string
	Value      float64
	IsConstant bool
}

func (t *TokenNumber) String() string { return t.Text }

// TokenInt64 is an integer literal that does not fit a double or 32 bits
type TokenInt64 struct {
	tokenBase
	Text  string
	Value int64
}

func (t *TokenInt64) String() string { return t.Text }

// TokenBoolean is true or false
type TokenBoolean struct {
	tokenBase
	Value bool
}

func (t *TokenBoolean) String() string { return strconv.FormatBool(t.Value) }

// TokenString is a string literal with its decoded value
type TokenString struct {
	tokenBase
	Text  string
	Value string
}

func (t *TokenString) String() string { return strconv.Quote(t.Value) }

// TokenFunction is a name immediately followed by "("
type TokenFunction struct {
	tokenBase
	Text    string
	Builtin *BuiltinFunction
}

func (t *TokenFunction) String() string { return t.Text }

// TokenVariable is a name that resolved to neither function, asset nor constant
type TokenVariable struct {
	tokenBase
	Text    string
	Builtin *BuiltinVariable
}

func (t *TokenVariable) String() string { return t.Text }

// TokenAssetReference is a name that resolved to a game asset
type TokenAssetReference struct {
	tokenBase
	Text           string
	AssetID        int32
	IsRoomInstance bool
}

func (t *TokenAssetReference) String() string {
	return fmt.Sprintf("%s<asset %d>", t.Text, t.AssetID)
}

// tokenName returns the name carried by a name-like token
func tokenName(tok Token) (string, bool) {
	switch t := tok.(type) {
	case *TokenIdentifier:
		return t.Text, true
	case *TokenVariable:
		return t.Text, true
	case *TokenFunction:
		return t.Text, true
	case *TokenAssetReference:
		return t.Text, true
	case *TokenNumber:
		if t.IsConstant {
			return t.Text, true
		}
	}
	return "", false
}
