package utils

import (
	"strings"
	"unicode/utf8"
)

// Chunk is one bounded slice of a longer message.
type Chunk struct {
	Text  string
	Index int // 1-based position
	Total int
}

type tier int

const (
	tierSentence tier = iota
	tierLine
	tierChar
)

// SplitText splits text into chunks whose estimated size never exceeds ceiling.
// Chunks are contiguous slices of the input, so joining them in order gives the
// input back.
//
// Boundaries are tried in tiers: sentences first, then line breaks for a single
// sentence that is too large on its own, then fixed ceiling*4 character windows
// for a single line that is still too large.
func SplitText(text string, ceiling int) []Chunk {
	if ceiling < 1 {
		ceiling = 1
	}
	if EstimateTokens(text) <= ceiling {
		return []Chunk{{Text: text, Index: 1, Total: 1}}
	}

	s := splitter{ceiling: ceiling}
	pieces := s.accumulate(splitSentences(text), tierSentence)

	chunks := make([]Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = Chunk{Text: p, Index: i + 1, Total: len(pieces)}
	}
	return chunks
}

type splitter struct {
	ceiling int
}

// accumulate greedily packs segments of one tier. A segment that does not fit
// even on its own is handed to the next tier and its pieces are emitted as-is.
func (s splitter) accumulate(segments []string, t tier) []string {
	var out []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
			current.Reset()
			currentRunes = 0
		}
	}

	for _, seg := range segments {
		n := utf8.RuneCountInString(seg)
		if tokensForRunes(n) > s.ceiling {
			flush()
			out = append(out, s.descend(seg, t)...)
			continue
		}
		// boundary is inclusive: an exact fit stays in the current chunk
		if tokensForRunes(currentRunes+n) > s.ceiling {
			flush()
		}
		current.WriteString(seg)
		currentRunes += n
	}
	flush()

	return out
}

func (s splitter) descend(seg string, t tier) []string {
	if t == tierSentence {
		return s.accumulate(splitLines(seg), tierLine)
	}
	return splitRunes(seg, s.ceiling*CharsPerToken)
}

// splitSentences cuts after a run of terminators that is followed by
// whitespace or the end of text; the trailing whitespace stays with the
// sentence. "3.14" is not a boundary.
func splitSentences(text string) []string {
	var segments []string
	start, i := 0, 0

	for i < len(text) {
		if !isTerminator(text[i]) {
			i++
			continue
		}
		j := i
		for j < len(text) && isTerminator(text[j]) {
			j++
		}
		if j < len(text) && !isSpace(text[j]) {
			i = j
			continue
		}
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		segments = append(segments, text[start:j])
		start, i = j, j
	}
	if start < len(text) {
		segments = append(segments, text[start:])
	}

	return segments
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func splitRunes(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	// slice the original bytes so invalid UTF-8 survives concatenation
	var out []string
	start, n := 0, 0
	for i := 0; i < len(text); {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		n++
		if n == width {
			out = append(out, text[start:i])
			start, n = i, 0
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func isTerminator(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
