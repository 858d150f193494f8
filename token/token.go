package token

type TokenType string

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	NUMBER = "NUMBER" // 1343456, 1.23, or the expansion of a constant
	SYMBOL = "SYMBOL" // +, sqrt, (, ...
)

// A Token records the half-open span of input it was scanned from, so that the
// parser can un-consume it by rewinding to ChStart. For a constant the Literal is
// the substituted numeric text, not the symbol, and the span is the symbol's.
type Token struct {
	Type    TokenType
	Literal string
	ChStart int
	ChEnd   int
}
