package utils

// CountTokens estimates the number of tokens in the given text.
// Rough heuristic: 1 token ~= 4 characters. Used only for context-window
// warnings, not billing.
func CountTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	tokens := len([]rune(text)) / 4
	if tokens == 0 {
		return 1
	}
	return tokens
}
