package words_test

import (
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"review-insights/words/words"
)

var testCases = []struct {
	desc     string
	given    string
	expected []string
}{
	{
		desc:     "empty",
		given:    "",
		expected: []string{},
	},
	{
		desc:     "simple",
		given:    "simple",
		expected: []string{"simpl"},
	},
	{
		desc:     "repetitions kept",
		given:    "I follow followers",
		expected: []string{"follow", "follow"},
	},
	{
		desc:     "punctuation deleted",
		given:    "I shouted: give me your car!!!",
		expected: []string{"shout", "give", "car"},
	},
	{
		desc:     "stop words only",
		given:    "I and you or me or them, who will?",
		expected: []string{},
	},
	{
		desc:     "contraction collapses to stop word",
		given:    "Don't buy it!!!",
		expected: []string{"buy"},
	},
	{
		desc:     "numbers kept",
		given:    "123 456 789",
		expected: []string{"123", "456", "789"},
	},
	{
		desc:     "order preserved",
		given:    "Battery shipping running",
		expected: []string{"batteri", "ship", "run"},
	},
	{
		desc:     "mixed case",
		given:    "GoLang GOLANG golang",
		expected: []string{"golang", "golang", "golang"},
	},
	{
		desc:     "multiple spaces",
		given:    "hello    world \t\n test",
		expected: []string{"hello", "world", "test"},
	},
	{
		desc:     "invalid utf8",
		given:    "\xff\xfebattery",
		expected: []string{"batteri"},
	},
	{
		desc:     "invalid utf8 separates words",
		given:    "good\xffbattery",
		expected: []string{"good", "batteri"},
	},
	{
		desc:     "replacement character separates words",
		given:    "good\ufffdbattery",
		expected: []string{"good", "batteri"},
	},
	{
		desc:     "fullwidth folded",
		given:    "ＢＡＴＴＥＲＹ",
		expected: []string{"batteri"},
	},
	{
		desc:     "emoji and symbols dropped",
		given:    "great 👍 sound ★★★",
		expected: []string{"great", "sound"},
	},
}

func TestNorm(t *testing.T) {
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, tc.expected, words.Norm(tc.given))
		})
	}
}

func TestNormalizerOptions(t *testing.T) {
	testCases := []struct {
		desc     string
		opts     []words.Option
		given    string
		expected []string
	}{
		{
			desc:     "custom stop words replace defaults",
			opts:     []words.Option{words.WithStopWords("battery")},
			given:    "the battery died",
			expected: []string{"the", "die"},
		},
		{
			desc:     "identity lemmatizer",
			opts:     []words.Option{words.WithLemmatizer(func(s string) string { return s })},
			given:    "shipping batteries",
			expected: []string{"shipping", "batteries"},
		},
		{
			desc:     "lemmatizer producing stop word",
			opts:     []words.Option{words.WithLemmatizer(func(s string) string { return "the" })},
			given:    "shipping batteries",
			expected: []string{},
		},
		{
			desc:     "lemmatizer producing empty string",
			opts:     []words.Option{words.WithLemmatizer(func(s string) string { return "" })},
			given:    "shipping",
			expected: []string{},
		},
		{
			desc:     "custom allow-list keeps hyphens",
			opts: []words.Option{
				words.WithAllowed(func(r rune) bool { return r == '-' || unicode.IsLetter(r) }),
				words.WithLemmatizer(func(s string) string { return s }),
			},
			given:    "wi-fi drops 24/7",
			expected: []string{"wi-fi", "drops"},
		},
		{
			desc:     "min token length",
			opts:     []words.Option{words.WithMinTokenLength(4)},
			given:    "car battery 42 sound",
			expected: []string{"batteri", "sound"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			n := words.New(tc.opts...)
			require.Equal(t, tc.expected, n.Norm(tc.given))
		})
	}
}

func TestNormDeterministicConcurrent(t *testing.T) {
	text := strings.Repeat("The battery lasts long and shipping was fast. ", 20)
	want := words.Norm(text)

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.Equal(t, want, words.Norm(text))
		}()
	}
	wg.Wait()
}

func TestDefaultStopWordsIsCopy(t *testing.T) {
	list := words.DefaultStopWords()
	require.NotEmpty(t, list)
	list[0] = "battery"
	require.Equal(t, []string{"batteri"}, words.Norm("battery"))
}
