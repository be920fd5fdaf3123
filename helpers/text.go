package helpers

import (
	"regexp"
	"strings"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	sentenceRegex   = regexp.MustCompile(`([.!?])\s+`)
)

// NormalizeText collapses whitespace runs to single spaces and trims.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

// DedupLines drops empty and exact-duplicate lines, keeping first-seen order.
func DedupLines(text string) string {
	if text == "" {
		return ""
	}

	seen := make(map[string]struct{})
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// SplitSentences splits normalized text on sentence-ending punctuation.
func SplitSentences(text string) []string {
	normalized := NormalizeText(text)
	if normalized == "" {
		return nil
	}

	marked := sentenceRegex.ReplaceAllString(normalized, "$1\x00")
	var sentences []string
	for _, s := range strings.Split(marked, "\x00") {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// ClampSentences keeps at most maxSentences sentences from the text.
func ClampSentences(text string, maxSentences int) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	if maxSentences < len(sentences) {
		sentences = sentences[:maxSentences]
	}
	return strings.Join(sentences, " ")
}
