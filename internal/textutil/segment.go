// Package textutil provides word segmentation and script-aware text helpers
// shared by the claim extraction and similarity scoring paths.
package textutil

import (
	"strings"

	"github.com/go-ego/gse"
)

// Segmenter tokenizes text into word-like units. CJK text is segmented with
// gse; space-delimited scripts fall back to whitespace fields.
type Segmenter struct {
	seg gse.Segmenter
}

// NewSegmenter creates a segmenter with the default embedded dictionary.
func NewSegmenter() (*Segmenter, error) {
	s := &Segmenter{}
	if err := s.seg.LoadDict(); err != nil {
		return nil, err
	}
	return s, nil
}

// Tokens returns the ordered word segments of text.
func (s *Segmenter) Tokens(text string) []string {
	if ContainsCJK(text) {
		return s.seg.Cut(text, true)
	}
	return strings.Fields(text)
}

// Overlap counts the distinct tokens shared between two texts.
func (s *Segmenter) Overlap(a, b string) int {
	aSet := make(map[string]struct{})
	for _, tok := range s.Tokens(a) {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			aSet[tok] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	count := 0
	for _, tok := range s.Tokens(b) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := aSet[tok]; ok {
			count++
		}
	}
	return count
}

// ContainsCJK reports whether text contains any CJK Unified Ideograph.
func ContainsCJK(text string) bool {
	for _, r := range text {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

// SentenceTerminators lists every terminator SplitSentences recognizes.
const SentenceTerminators = "。！？.!?"

// SplitSentences splits text on sentence terminators. CJK text splits on
// 。！？, other text on .!? The terminator stays attached to its sentence so
// callers can still tell questions from statements.
func SplitSentences(text string) []string {
	var terminators string
	if ContainsCJK(text) {
		terminators = "。！？"
	} else {
		terminators = ".!?"
	}

	var sentences []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if strings.ContainsRune(terminators, r) {
			if s := strings.TrimSpace(current.String()); strings.TrimRight(s, terminators) != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
