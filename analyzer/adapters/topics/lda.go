// Package topics fits Latent Dirichlet Allocation models over normalized
// review documents.
//
// Fitting uses collapsed Gibbs sampling driven by a seeded PCG generator,
// so the same corpus, parameters and seed always give the same model.
// Projection of documents onto a fitted model is a deterministic fold-in
// that does not touch the random source, which keeps a fitted Model
// immutable and safe for concurrent use.
package topics

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"review-insights/analyzer/core"
)

const (
	foldInIterations = 100
	foldInTolerance  = 1e-10
)

// Modeler fits a new Model per call.
type Modeler struct {
	log *slog.Logger
}

func NewModeler(log *slog.Logger) *Modeler {
	return &Modeler{log: log}
}

func (m *Modeler) Fit(ctx context.Context, documents [][]string, params core.AnalysisParams) (core.TopicModel, error) {
	m.log.Debug("fit started", "documents", len(documents), "n_topics", params.NTopics)
	defer func(start time.Time) {
		m.log.Debug("fit finished", "duration", time.Since(start))
	}(time.Now())

	model, err := Fit(ctx, documents, params)
	if err != nil {
		return nil, err
	}
	m.log.Debug("fitted vocabulary", "terms", len(model.vocab))
	return model, nil
}

// Model is a fitted LDA model. The zero value is unfitted.
type Model struct {
	vocab []string
	index map[string]int
	// topic-term probabilities, one row per topic
	phi   *mat.Dense
	alpha float64
}

// Fit builds the vocabulary from documents and samples topic assignments.
func Fit(ctx context.Context, documents [][]string, params core.AnalysisParams) (*Model, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	vocab, index := buildVocabulary(documents, params.MinTermFrequency)
	corpus := make([][]int, 0, len(documents))
	for _, doc := range documents {
		ids := encode(doc, index)
		if len(ids) > 0 {
			corpus = append(corpus, ids)
		}
	}
	if len(corpus) < params.MinCorpusSize {
		return nil, &core.InsufficientDataError{Observed: len(corpus), Required: params.MinCorpusSize}
	}

	k, v := params.NTopics, len(vocab)
	alpha := 1 / float64(k)
	eta := 1 / float64(k)
	rng := rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15))

	docTopic := make([][]int, len(corpus))
	topicTerm := make([][]int, k)
	for t := range topicTerm {
		topicTerm[t] = make([]int, v)
	}
	topicTotal := make([]int, k)
	assignments := make([][]int, len(corpus))

	for d, doc := range corpus {
		docTopic[d] = make([]int, k)
		assignments[d] = make([]int, len(doc))
		for i, w := range doc {
			t := rng.IntN(k)
			assignments[d][i] = t
			docTopic[d][t]++
			topicTerm[t][w]++
			topicTotal[t]++
		}
	}

	weights := make([]float64, k)
	vEta := float64(v) * eta
	for iter := 0; iter < params.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for d, doc := range corpus {
			for i, w := range doc {
				t := assignments[d][i]
				docTopic[d][t]--
				topicTerm[t][w]--
				topicTotal[t]--

				var total float64
				for j := range k {
					weights[j] = (float64(docTopic[d][j]) + alpha) *
						(float64(topicTerm[j][w]) + eta) /
						(float64(topicTotal[j]) + vEta)
					total += weights[j]
				}
				t = sample(weights, total*rng.Float64())

				assignments[d][i] = t
				docTopic[d][t]++
				topicTerm[t][w]++
				topicTotal[t]++
			}
		}
	}

	phi := mat.NewDense(k, v, nil)
	for t := range k {
		row := phi.RawRowView(t)
		for w := range v {
			row[w] = (float64(topicTerm[t][w]) + eta) / (float64(topicTotal[t]) + vEta)
		}
	}

	return &Model{vocab: vocab, index: index, phi: phi, alpha: alpha}, nil
}

func sample(weights []float64, target float64) int {
	var acc float64
	for i, w := range weights {
		acc += w
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

// buildVocabulary keeps terms seen at least minFreq times, sorted
// lexicographically so term ids do not depend on map order.
func buildVocabulary(documents [][]string, minFreq int) ([]string, map[string]int) {
	freq := make(map[string]int)
	for _, doc := range documents {
		for _, term := range doc {
			freq[term]++
		}
	}
	vocab := make([]string, 0, len(freq))
	for term, n := range freq {
		if n >= minFreq && term != "" {
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	for i, term := range vocab {
		index[term] = i
	}
	return vocab, index
}

func encode(doc []string, index map[string]int) []int {
	ids := make([]int, 0, len(doc))
	for _, term := range doc {
		if id, ok := index[term]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *Model) fitted() bool {
	return m != nil && m.phi != nil
}

func (m *Model) NTopics() int {
	if !m.fitted() {
		return 0
	}
	k, _ := m.phi.Dims()
	return k
}

// Vocabulary returns the fitted terms in id order.
func (m *Model) Vocabulary() []string {
	if !m.fitted() {
		return nil
	}
	out := make([]string, len(m.vocab))
	copy(out, m.vocab)
	return out
}

// Topics returns up to nWords keywords per topic, by weight descending and
// term ascending on equal weight.
func (m *Model) Topics(nWords int) ([]core.Topic, error) {
	if !m.fitted() {
		return nil, &core.ProjectionError{Op: "topics", Reason: "model is not fitted"}
	}
	if nWords < 1 {
		return nil, &core.InvalidConfigurationError{Param: "n_words_per_topic", Value: nWords}
	}

	k, v := m.phi.Dims()
	n := min(nWords, v)
	topics := make([]core.Topic, k)
	for t := range k {
		row := m.phi.RawRowView(t)
		ids := make([]int, v)
		for i := range ids {
			ids[i] = i
		}
		sort.Slice(ids, func(a, b int) bool {
			wa, wb := row[ids[a]], row[ids[b]]
			if wa != wb {
				return wa > wb
			}
			return m.vocab[ids[a]] < m.vocab[ids[b]]
		})

		keywords := make([]core.Keyword, n)
		for i := range n {
			keywords[i] = core.Keyword{Term: m.vocab[ids[i]], Weight: row[ids[i]]}
		}
		topics[t] = core.Topic{ID: t, Keywords: keywords}
	}
	return topics, nil
}

// Transform projects documents onto the fitted topics. Unknown terms are
// dropped and documents without known terms get the uniform distribution.
func (m *Model) Transform(documents [][]string) ([]core.TopicDistribution, error) {
	if !m.fitted() {
		return nil, &core.ProjectionError{Op: "transform", Reason: "model is not fitted"}
	}
	out := make([]core.TopicDistribution, len(documents))
	for i, doc := range documents {
		out[i] = m.foldIn(encode(doc, m.index))
	}
	return out, nil
}

func (m *Model) foldIn(ids []int) core.TopicDistribution {
	k, _ := m.phi.Dims()
	theta := make([]float64, k)
	for t := range theta {
		theta[t] = 1 / float64(k)
	}
	if len(ids) == 0 {
		return theta
	}

	next := make([]float64, k)
	resp := make([]float64, k)
	for range foldInIterations {
		for t := range next {
			next[t] = m.alpha
		}
		for _, w := range ids {
			for t := range k {
				resp[t] = theta[t] * m.phi.At(t, w)
			}
			sum := floats.Sum(resp)
			if sum == 0 {
				continue
			}
			floats.AddScaled(next, 1/sum, resp)
		}
		floats.Scale(1/floats.Sum(next), next)

		delta := floats.Distance(theta, next, math.Inf(1))
		theta, next = next, theta
		if delta < foldInTolerance {
			break
		}
	}
	return theta
}
