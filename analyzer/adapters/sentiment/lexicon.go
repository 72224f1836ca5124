package sentiment

import (
	"context"
	"strings"
	"unicode"

	"review-insights/analyzer/core"
)

// negationWindow is how many following words a negator flips.
const negationWindow = 3

var defaultPositive = []string{
	"amazing", "awesome", "best", "brilliant", "comfortable", "durable", "easy",
	"excellent", "fantastic", "fast", "good", "great", "happy", "impressed",
	"love", "loved", "loves", "nice", "perfect", "recommend", "recommended",
	"reliable", "satisfied", "sharp", "smooth", "solid", "sturdy", "superb",
	"worth", "wonderful",
}

var defaultNegative = []string{
	"awful", "bad", "broke", "broken", "cheap", "crack", "cracked", "dead",
	"defective", "died", "disappointed", "disappointing", "flimsy", "hate",
	"horrible", "junk", "poor", "problem", "refund", "return", "returned",
	"slow", "terrible", "useless", "waste", "worse", "worst",
}

var negators = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "dont": {}, "doesnt": {}, "didnt": {},
	"isnt": {}, "wasnt": {}, "cant": {}, "wont": {}, "hardly": {},
}

// Lexicon is an offline sentiment oracle that counts polar words, flipping
// the polarity of words shortly after a negator.
type Lexicon struct {
	positive map[string]struct{}
	negative map[string]struct{}
}

func NewLexicon(positive, negative []string) *Lexicon {
	l := &Lexicon{
		positive: make(map[string]struct{}, len(positive)),
		negative: make(map[string]struct{}, len(negative)),
	}
	for _, w := range positive {
		l.positive[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range negative {
		l.negative[strings.ToLower(w)] = struct{}{}
	}
	return l
}

func DefaultLexicon() *Lexicon {
	return NewLexicon(defaultPositive, defaultNegative)
}

func (l *Lexicon) Classify(ctx context.Context, texts []string) ([]core.SentimentResult, error) {
	results := make([]core.SentimentResult, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = l.classify(text)
	}
	return results, nil
}

func (l *Lexicon) classify(text string) core.SentimentResult {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	var pos, neg int
	negated := 0
	for _, tok := range tokens {
		tok = strings.ReplaceAll(tok, "'", "")
		if _, ok := negators[tok]; ok {
			negated = negationWindow
			continue
		}
		_, isPos := l.positive[tok]
		_, isNeg := l.negative[tok]
		if negated > 0 {
			isPos, isNeg = isNeg, isPos
			negated--
		}
		if isPos {
			pos++
		}
		if isNeg {
			neg++
		}
	}
	if pos == 0 && neg == 0 {
		return core.NewSentimentResult(core.Probabilities{Positive: 0.1, Negative: 0.1, Neutral: 0.8})
	}
	return core.NewSentimentResult(core.Probabilities{
		Positive: float64(pos) + 0.1,
		Negative: float64(neg) + 0.1,
		Neutral:  1 + float64(min(pos, neg)),
	})
}

func (l *Lexicon) Ping(context.Context) error {
	return nil
}
