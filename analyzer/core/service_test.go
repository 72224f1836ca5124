package core_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"review-insights/analyzer/core"
)

const (
	concurrency = 4
	batchSize   = 2
)

type mocks struct {
	db        *core.MockDB
	words     *core.MockNormalizer
	oracle    *core.MockSentimentOracle
	modeler   *core.MockTopicModeler
	model     *core.MockTopicModel
	source    *core.MockReviewSource
	publisher *core.MockPublisher
}

func newMocks(ctrl *gomock.Controller) mocks {
	return mocks{
		db:        core.NewMockDB(ctrl),
		words:     core.NewMockNormalizer(ctrl),
		oracle:    core.NewMockSentimentOracle(ctrl),
		modeler:   core.NewMockTopicModeler(ctrl),
		model:     core.NewMockTopicModel(ctrl),
		source:    core.NewMockReviewSource(ctrl),
		publisher: core.NewMockPublisher(ctrl),
	}
}

func (m mocks) service(t *testing.T) *core.Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := core.NewService(log, m.db, m.words, m.oracle, m.modeler, m.source, m.publisher, concurrency, batchSize)
	require.NoError(t, err)
	return s
}

// splitter normalizes by splitting on whitespace.
func splitter(_ context.Context, texts []string) ([][]string, error) {
	docs := make([][]string, len(texts))
	for i, text := range texts {
		docs[i] = strings.Fields(strings.ToLower(text))
	}
	return docs, nil
}

// keywordOracle is positive for texts mentioning "great", negative otherwise.
func keywordOracle(_ context.Context, texts []string) ([]core.SentimentResult, error) {
	out := make([]core.SentimentResult, len(texts))
	for i, text := range texts {
		if strings.Contains(text, "great") {
			out[i] = core.NewSentimentResult(core.Probabilities{Positive: 0.8, Negative: 0.1, Neutral: 0.1})
		} else {
			out[i] = core.NewSentimentResult(core.Probabilities{Positive: 0.1, Negative: 0.8, Neutral: 0.1})
		}
	}
	return out, nil
}

// firstTokenTransform puts all mass on topic 0 for documents starting with
// "great" and on topic 1 otherwise.
func firstTokenTransform(docs [][]string) ([]core.TopicDistribution, error) {
	out := make([]core.TopicDistribution, len(docs))
	for i, doc := range docs {
		if len(doc) > 0 && doc[0] == "great" {
			out[i] = core.TopicDistribution{1, 0}
		} else {
			out[i] = core.TopicDistribution{0, 1}
		}
	}
	return out, nil
}

var testReviews = []core.Review{
	{ID: "1", ProductID: "A", Text: "great battery", Rating: rating(5)},
	{ID: "2", ProductID: "B", Text: "poor battery", Rating: rating(1)},
	{ID: "3", ProductID: "A", Text: "great sound"},
	{ID: "4", ProductID: "C", Text: "   "},
	{ID: "5", ProductID: "B", Text: "great value", Rating: rating(4)},
}

func twoTopics() []core.Topic {
	return []core.Topic{
		{ID: 0, Keywords: []core.Keyword{{Term: "great", Weight: 0.5}}},
		{ID: 1, Keywords: []core.Keyword{{Term: "battery", Weight: 0.5}}},
	}
}

func TestAnalyze(t *testing.T) {
	params := core.DefaultParams()
	params.NTopics = 2

	testCases := []struct {
		desc    string
		reviews []core.Review
		params  core.AnalysisParams
		prepare func(m mocks)
		check   func(t *testing.T, report core.Report)
		wantErr error
	}{
		{
			desc:    "success - ordered report",
			reviews: testReviews,
			params:  params,
			prepare: func(m mocks) {
				m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(splitter).Times(3)
				m.modeler.EXPECT().Fit(gomock.Any(), gomock.Any(), params).Return(m.model, nil)
				m.model.EXPECT().Topics(params.NWordsPerTopic).Return(twoTopics(), nil)
				m.model.EXPECT().Transform(gomock.Any()).DoAndReturn(firstTokenTransform).Times(3)
				m.oracle.EXPECT().Classify(gomock.Any(), gomock.Any()).DoAndReturn(keywordOracle).Times(3)
				m.db.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				m.publisher.EXPECT().Publish(core.EventAnalysisCompleted).Return(nil)
			},
			check: func(t *testing.T, report core.Report) {
				require.NotEmpty(t, report.ID)
				require.Len(t, report.Reviews, 5)
				for i, r := range report.Reviews {
					require.Equal(t, testReviews[i].ID, r.ID)
				}
				require.Equal(t, core.LabelPositive, report.Reviews[0].Sentiment.Label)
				require.Equal(t, core.LabelNegative, report.Reviews[1].Sentiment.Label)
				require.Equal(t, core.NeutralResult(), report.Reviews[3].Sentiment)
				require.Equal(t, 0, report.Reviews[2].DominantTopic)
				require.Equal(t, 1, report.Reviews[1].DominantTopic)

				require.Len(t, report.Products, 3)
				require.Equal(t, "A", report.Products[0].ProductID)
				require.Equal(t, 1, report.Products[0].SentimentRank)
				require.Equal(t, 2, report.Products[1].ReviewCount)
				require.Equal(t, 3, report.Overview.Positive)
				require.Equal(t, 1, report.Overview.Negative)
				require.Equal(t, 1, report.Overview.Neutral)
			},
		},
		{
			desc:    "error - invalid params",
			reviews: testReviews,
			params:  core.AnalysisParams{NTopics: 1},
			prepare: func(m mocks) {},
			wantErr: core.ErrInvalidConfiguration,
		},
		{
			desc:    "error - malformed batch",
			reviews: []core.Review{{ID: "1"}},
			params:  params,
			prepare: func(m mocks) {},
			wantErr: core.ErrInvalidConfiguration,
		},
		{
			desc:    "error - insufficient data",
			reviews: testReviews[:2],
			params:  params,
			prepare: func(m mocks) {
				m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(splitter)
				m.modeler.EXPECT().Fit(gomock.Any(), gomock.Any(), params).
					Return(nil, &core.InsufficientDataError{Observed: 2, Required: 3})
			},
			wantErr: core.ErrInsufficientData,
		},
		{
			desc:    "error - normalizer unavailable",
			reviews: testReviews,
			params:  params,
			prepare: func(m mocks) {
				m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).Return(nil, core.ErrServiceUnavailable)
			},
			wantErr: core.ErrServiceUnavailable,
		},
		{
			desc:    "error - sentiment oracle failed",
			reviews: testReviews,
			params:  params,
			prepare: func(m mocks) {
				m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(splitter).Times(3)
				m.modeler.EXPECT().Fit(gomock.Any(), gomock.Any(), params).Return(m.model, nil)
				m.model.EXPECT().Topics(params.NWordsPerTopic).Return(twoTopics(), nil)
				m.model.EXPECT().Transform(gomock.Any()).DoAndReturn(firstTokenTransform).AnyTimes()
				m.oracle.EXPECT().Classify(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("oracle down")).MinTimes(1)
			},
			wantErr: errors.New("oracle down"),
		},
		{
			desc:    "error - save failed",
			reviews: testReviews,
			params:  params,
			prepare: func(m mocks) {
				m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(splitter).Times(3)
				m.modeler.EXPECT().Fit(gomock.Any(), gomock.Any(), params).Return(m.model, nil)
				m.model.EXPECT().Topics(params.NWordsPerTopic).Return(twoTopics(), nil)
				m.model.EXPECT().Transform(gomock.Any()).DoAndReturn(firstTokenTransform).Times(3)
				m.oracle.EXPECT().Classify(gomock.Any(), gomock.Any()).DoAndReturn(keywordOracle).Times(3)
				m.db.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
		{
			desc:    "success - publisher error ignored",
			reviews: testReviews[:3],
			params:  params,
			prepare: func(m mocks) {
				m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(splitter).Times(2)
				m.modeler.EXPECT().Fit(gomock.Any(), gomock.Any(), params).Return(m.model, nil)
				m.model.EXPECT().Topics(params.NWordsPerTopic).Return(twoTopics(), nil)
				m.model.EXPECT().Transform(gomock.Any()).DoAndReturn(firstTokenTransform).Times(2)
				m.oracle.EXPECT().Classify(gomock.Any(), gomock.Any()).DoAndReturn(keywordOracle).Times(2)
				m.db.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				m.publisher.EXPECT().Publish(core.EventAnalysisCompleted).Return(errors.New("nats down"))
			},
			check: func(t *testing.T, report core.Report) {
				require.Len(t, report.Reviews, 3)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			tc.prepare(m)

			report, err := m.service(t).Analyze(context.Background(), tc.reviews, tc.params)
			if tc.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tc.wantErr, core.ErrInvalidConfiguration) ||
					errors.Is(tc.wantErr, core.ErrInsufficientData) ||
					errors.Is(tc.wantErr, core.ErrServiceUnavailable) {
					require.ErrorIs(t, err, tc.wantErr)
				} else {
					require.Contains(t, err.Error(), tc.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			tc.check(t, report)
		})
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	ctx, cancel := context.WithCancel(context.Background())
	m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, texts []string) ([][]string, error) {
			cancel()
			return splitter(ctx, texts)
		})

	s := m.service(t)
	_, err := s.Analyze(ctx, testReviews, core.DefaultParams())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, core.StatusIdle, s.Status(context.Background()))
}

func TestAnalyzeAlreadyRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	s := m.service(t)

	started := make(chan struct{})
	release := make(chan struct{})
	m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, texts []string) ([][]string, error) {
			close(started)
			<-release
			return nil, errors.New("stopped")
		})

	done := make(chan error)
	go func() {
		_, err := s.Analyze(context.Background(), testReviews[:1], core.DefaultParams())
		done <- err
	}()

	<-started
	require.Equal(t, core.StatusRunning, s.Status(context.Background()))
	_, err := s.Analyze(context.Background(), testReviews[:1], core.DefaultParams())
	require.ErrorIs(t, err, core.ErrAlreadyExists)
	require.ErrorIs(t, s.Drop(context.Background()), core.ErrAlreadyExists)

	close(release)
	require.Error(t, <-done)
	require.Equal(t, core.StatusIdle, s.Status(context.Background()))
}

func TestAnalyzeScraped(t *testing.T) {
	params := core.DefaultParams()
	params.NTopics = 2
	req := core.ScrapeRequest{Query: "headphones", Domain: "com", MaxReviews: 10}

	testCases := []struct {
		desc    string
		req     core.ScrapeRequest
		prepare func(m mocks)
		wantErr error
	}{
		{
			desc: "success",
			req:  req,
			prepare: func(m mocks) {
				m.source.EXPECT().Fetch(gomock.Any(), req).Return(testReviews[:2], nil)
				m.words.EXPECT().Norm(gomock.Any(), gomock.Any()).DoAndReturn(splitter)
				m.modeler.EXPECT().Fit(gomock.Any(), gomock.Any(), params).Return(m.model, nil)
				m.model.EXPECT().Topics(params.NWordsPerTopic).Return(twoTopics(), nil)
				m.model.EXPECT().Transform(gomock.Any()).DoAndReturn(firstTokenTransform)
				m.oracle.EXPECT().Classify(gomock.Any(), gomock.Any()).DoAndReturn(keywordOracle)
				m.db.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, report core.Report) error {
						if report.Source != "scrape:headphones" {
							return errors.New("unexpected source " + report.Source)
						}
						return nil
					})
				m.publisher.EXPECT().Publish(core.EventAnalysisCompleted).Return(nil)
			},
		},
		{
			desc:    "error - empty query",
			req:     core.ScrapeRequest{Query: "  "},
			prepare: func(m mocks) {},
			wantErr: core.ErrInvalidConfiguration,
		},
		{
			desc: "error - fetch failed",
			req:  req,
			prepare: func(m mocks) {
				m.source.EXPECT().Fetch(gomock.Any(), req).Return(nil, core.ErrServiceUnavailable)
			},
			wantErr: core.ErrServiceUnavailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			tc.prepare(m)

			_, err := m.service(t).AnalyzeScraped(context.Background(), tc.req, params)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClassify(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	long := strings.Repeat("é", core.MaxSentimentRunes+10)
	m.oracle.EXPECT().Classify(gomock.Any(), []string{"great", "bad"}).DoAndReturn(keywordOracle)
	m.oracle.EXPECT().Classify(gomock.Any(), []string{strings.Repeat("é", core.MaxSentimentRunes)}).DoAndReturn(keywordOracle)

	results, err := m.service(t).Classify(context.Background(), []string{"great", "bad", "", long})
	require.NoError(t, err)
	require.Len(t, results, 4)
	require.Equal(t, core.LabelPositive, results[0].Label)
	require.Equal(t, core.LabelNegative, results[1].Label)
	require.Equal(t, core.NeutralResult(), results[2])
	require.Equal(t, core.LabelNegative, results[3].Label)
}

func TestClassifyOracleMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.oracle.EXPECT().Classify(gomock.Any(), gomock.Any()).Return([]core.SentimentResult{}, nil)

	_, err := m.service(t).Classify(context.Background(), []string{"great"})
	require.Error(t, err)
}

func TestTopics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	params := core.DefaultParams()
	params.NTopics = 2
	docs := []string{"great sound", "poor battery", "great battery"}

	m.words.EXPECT().Norm(gomock.Any(), docs[:2]).DoAndReturn(splitter)
	m.words.EXPECT().Norm(gomock.Any(), docs[2:]).DoAndReturn(splitter)
	m.modeler.EXPECT().Fit(gomock.Any(), [][]string{{"great", "sound"}, {"poor", "battery"}, {"great", "battery"}}, params).
		Return(m.model, nil)
	m.model.EXPECT().Topics(params.NWordsPerTopic).Return(twoTopics(), nil)
	m.model.EXPECT().Transform(gomock.Any()).DoAndReturn(firstTokenTransform)

	res, err := m.service(t).Topics(context.Background(), docs, params)
	require.NoError(t, err)
	require.Equal(t, twoTopics(), res.Topics)
	require.Equal(t, []core.TopicDistribution{{1, 0}, {0, 1}, {1, 0}}, res.Distributions)
}

func TestRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := newMocks(ctrl)
	m.db.EXPECT().Run(gomock.Any(), "missing").Return(core.Report{}, core.ErrNotFound)
	m.db.EXPECT().Run(gomock.Any(), "run-1").Return(core.Report{ID: "run-1"}, nil)

	s := m.service(t)
	_, err := s.Run(context.Background(), "missing")
	require.ErrorIs(t, err, core.ErrNotFound)

	report, err := s.Run(context.Background(), "run-1")
	require.NoError(t, err)
	require.Equal(t, "run-1", report.ID)
}

func TestDrop(t *testing.T) {
	testCases := []struct {
		desc    string
		prepare func(m mocks)
		wantErr bool
	}{
		{
			desc: "success",
			prepare: func(m mocks) {
				m.db.EXPECT().Drop(gomock.Any()).Return(nil)
				m.publisher.EXPECT().Publish(core.EventReset).Return(nil)
			},
		},
		{
			desc: "db error",
			prepare: func(m mocks) {
				m.db.EXPECT().Drop(gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newMocks(ctrl)
			tc.prepare(m)
			err := m.service(t).Drop(context.Background())
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewServiceValidation(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := core.NewService(log, nil, nil, nil, nil, nil, nil, 0, 1)
	require.Error(t, err)
	_, err = core.NewService(log, nil, nil, nil, nil, nil, nil, 1, 0)
	require.Error(t, err)
}
