package chunker

import (
	"regexp"
	"strings"
)

// tokenPattern splits text into alphanumeric runs and single
// punctuation characters. It is the
// deterministic, dependency-free stand-in for a BPE tokenizer: no
// library in this module's dependency stack offers a pure-Go BPE
// encoder, so token counting here is word/punctuation-based rather
// than sub-word based. What matters for the pipeline's contract is
// preserved regardless: the same text always produces the same count
// and the same split.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+|[^\sA-Za-z0-9]`)

// CountTokens returns the exact, deterministic token count for text.
func CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(tokenPattern.FindAllString(text, -1))
}

// SplitByTokens splits text into pieces of at most maxTokens tokens
// each, preserving token order. Deterministic: same input, same split.
func SplitByTokens(text string, maxTokens int) []string {
	if text == "" {
		return nil
	}
	tokens := tokenPattern.FindAllString(text, -1)
	if len(tokens) <= maxTokens {
		return []string{text}
	}

	var out []string
	for i := 0; i < len(tokens); i += maxTokens {
		end := i + maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		out = append(out, strings.Join(tokens[i:end], " "))
	}
	return out
}
