package sentiment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"review-insights/analyzer/adapters/sentiment"
	"review-insights/analyzer/core"
)

func TestLexiconClassify(t *testing.T) {
	testCases := []struct {
		desc     string
		text     string
		expected core.Label
	}{
		{desc: "positive", text: "Great sound, I love it", expected: core.LabelPositive},
		{desc: "negative", text: "Terrible battery, it died in a week", expected: core.LabelNegative},
		{desc: "negated positive", text: "This is not good at all", expected: core.LabelNegative},
		{desc: "negated with apostrophe", text: "I don't recommend it", expected: core.LabelNegative},
		{desc: "no polar words", text: "It arrived on Tuesday", expected: core.LabelNeutral},
		{desc: "balanced", text: "good screen, bad battery", expected: core.LabelNeutral},
		{desc: "empty", text: "", expected: core.LabelNeutral},
	}

	lexicon := sentiment.DefaultLexicon()
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			results, err := lexicon.Classify(context.Background(), []string{tc.text})
			require.NoError(t, err)
			require.Len(t, results, 1)
			require.Equal(t, tc.expected, results[0].Label)

			p := results[0].Probabilities
			require.InDelta(t, 1, p.Positive+p.Negative+p.Neutral, 1e-9)
		})
	}
}

func TestLexiconCustomWords(t *testing.T) {
	lexicon := sentiment.NewLexicon([]string{"Crisp"}, []string{"muddy"})

	results, err := lexicon.Classify(context.Background(), []string{"crisp highs", "muddy bass", "great"})
	require.NoError(t, err)
	require.Equal(t, core.LabelPositive, results[0].Label)
	require.Equal(t, core.LabelNegative, results[1].Label)
	require.Equal(t, core.LabelNeutral, results[2].Label)
}

func TestLexiconCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sentiment.DefaultLexicon().Classify(ctx, []string{"good"})
	require.ErrorIs(t, err, context.Canceled)
}
