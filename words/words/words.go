// Package words turns free text into an ordered sequence of normalized tokens.
//
// The pipeline is: replace invalid UTF-8 and U+FFFD with spaces, NFKC-fold,
// lowercase, delete every rune outside the allow-list (letters and digits by
// default), split on whitespace, drop stop-words, lemmatize. Token order and repetitions are
// preserved so the output can feed a bag-of-words model.
//
// A Normalizer is immutable after construction and safe for concurrent use.
package words

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

type Option func(*Normalizer)

type Normalizer struct {
	stop      map[string]struct{}
	snowball  bool
	lemmatize func(string) string
	allowed   func(rune) bool
	minLen    int
}

// WithStopWords replaces the default stop-word set.
func WithStopWords(words ...string) Option {
	return func(n *Normalizer) {
		n.stop = make(map[string]struct{}, len(words))
		for _, w := range words {
			n.stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
		}
		n.snowball = false
	}
}

// WithLemmatizer replaces the default snowball English stemmer. fn must be
// deterministic.
func WithLemmatizer(fn func(string) string) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.lemmatize = fn
		}
	}
}

// WithAllowed replaces the default allow-list of letters and digits.
// Whitespace always separates tokens.
func WithAllowed(fn func(rune) bool) Option {
	return func(n *Normalizer) {
		if fn != nil {
			n.allowed = fn
		}
	}
}

// WithMinTokenLength drops tokens shorter than size runes.
func WithMinTokenLength(size int) Option {
	return func(n *Normalizer) {
		n.minLen = max(size, 1)
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		snowball:  true,
		lemmatize: stem,
		allowed:   alphanumeric,
		minLen:    1,
	}
	n.stop = make(map[string]struct{}, len(englishStopWords))
	for _, w := range englishStopWords {
		n.stop[w] = struct{}{}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func alphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func stem(word string) string {
	return english.Stem(word, false)
}

var defaultNormalizer = New()

// Norm normalizes phrase with the default English settings.
func Norm(phrase string) []string {
	return defaultNormalizer.Norm(phrase)
}

// Norm never fails: undecodable bytes are replaced, and input without any
// content word yields an empty, non-nil slice.
func (n *Normalizer) Norm(phrase string) []string {
	tokens := make([]string, 0)
	if phrase == "" {
		return tokens
	}
	if !utf8.ValidString(phrase) {
		phrase = strings.ToValidUTF8(phrase, " ")
	}
	phrase = norm.NFKC.String(phrase)
	// Caser keeps state between calls, so it is created per call.
	phrase = cases.Lower(language.English).String(phrase)
	phrase = strings.Map(func(r rune) rune {
		switch {
		case r == utf8.RuneError:
			return ' '
		case unicode.IsSpace(r) || n.allowed(r):
			return r
		}
		return -1
	}, phrase)

	for _, word := range strings.Fields(phrase) {
		if utf8.RuneCountInString(word) < n.minLen || n.isStopWord(word) {
			continue
		}
		lemma := n.lemmatize(word)
		if lemma == "" || n.isStopWord(lemma) {
			continue
		}
		tokens = append(tokens, lemma)
	}
	return tokens
}

func (n *Normalizer) isStopWord(word string) bool {
	if _, ok := n.stop[word]; ok {
		return true
	}
	return n.snowball && english.IsStopWord(word)
}
