// Package normalize cleans Korean dialogue text before tokenization.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// two or more compatibility jamo, or jamo followed by a slash
	jamoRun = regexp.MustCompile(`[ㄱ-ㅎㅏ-ㅣ]+[/ㄱ-ㅎㅏ-ㅣ]`)
	// anything outside Hangul syllables, lowercase latin, digits and # @ , - [ ] ( )
	disallowed = regexp.MustCompile(`[^가-힣a-z0-9#@,\-\[\]()]`)
	spaces     = regexp.MustCompile(` +`)
)

// Options tweaks Normalizer behaviour.
type Options struct {
	// ComposeNFC composes decomposed Hangul (NFD input) into syllables before cleaning.
	ComposeNFC bool
}

// Normalizer applies the cleaning rules to dialogue and summary text.
type Normalizer struct {
	opts Options
}

// New returns a Normalizer with opts.
func New(opts Options) *Normalizer {
	return &Normalizer{opts: opts}
}

// Normalize runs the cleaning rules on s.
func (n *Normalizer) Normalize(s string) string {
	if n != nil && n.opts.ComposeNFC {
		s = norm.NFC.String(s)
	}
	return Sentence(s)
}

// NormalizeAll runs Normalize over every element of texts.
func (n *Normalizer) NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = n.Normalize(s)
	}
	return out
}

// Sentence lowercases s, drops runs of bare jamo, blanks out characters outside the allow-list,
// collapses spaces and trims the result.
func Sentence(s string) string {
	s = strings.ToLower(s)
	s = jamoRun.ReplaceAllString(s, "")
	s = disallowed.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
