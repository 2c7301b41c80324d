package utils

import "unicode/utf8"

// CharsPerToken is the heuristic ratio behind every budget decision.
const CharsPerToken = 4

// EstimateTokens approximates the oracle's token count for text: one token per
// four characters, rounded up. Empty text is 0.
func EstimateTokens(text string) int {
	return tokensForRunes(utf8.RuneCountInString(text))
}

func tokensForRunes(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + CharsPerToken - 1) / CharsPerToken
}
