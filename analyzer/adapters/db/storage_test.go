package db_test

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"review-insights/analyzer/adapters/db"
	"review-insights/analyzer/core"
)

var (
	psqlC  testcontainers.Container
	conn   *sqlx.DB
	testDB *db.DB
)

func TestMain(m *testing.M) {
	buildContext, err := filepath.Abs("./testdata")
	if err != nil {
		log.Fatalf("failed to resolve absolute path: %v\n", err)
	}

	req := testcontainers.ContainerRequest{
		FromDockerfile: testcontainers.FromDockerfile{
			Context: buildContext,
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	}

	psqlC, err = testcontainers.GenericContainer(context.TODO(), testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatal(err)
	}

	host, err := psqlC.Host(context.TODO())
	if err != nil {
		log.Fatal(err)
	}
	mappedPort, err := psqlC.MappedPort(context.TODO(), "5432")
	if err != nil {
		log.Fatal(err)
	}

	psqlURL := fmt.Sprintf(
		"postgres://user:password@%s:%s/test_db?sslmode=disable",
		host,
		mappedPort.Port(),
	)

	conn, err = sqlx.Connect("pgx", psqlURL)
	if err != nil {
		log.Fatalln("failed to connect to database:", err)
	}

	testDB, err = db.New(slog.Default(), psqlURL)
	if err != nil {
		log.Fatalln("failed to connect to database:", err)
	}
	if err := testDB.Migrate(); err != nil {
		log.Fatalln("failed to migrate database:", err)
	}

	code := m.Run()

	testDB.Close()
	if err := testcontainers.TerminateContainer(psqlC); err != nil {
		log.Fatalln("failed to terminate container:", err)
	}
	os.Exit(code)
}

func teardown(t *testing.T) {
	_, err := conn.Exec("TRUNCATE runs CASCADE")
	require.NoError(t, err)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func testReport(id, source string, createdAt time.Time) core.Report {
	pos := core.NewSentimentResult(core.Probabilities{Positive: 0.8, Negative: 0.1, Neutral: 0.1})
	neg := core.NewSentimentResult(core.Probabilities{Positive: 0.1, Negative: 0.7, Neutral: 0.2})
	return core.Report{
		ID:        id,
		CreatedAt: createdAt,
		Source:    source,
		Params:    core.DefaultParams(),
		Topics: []core.Topic{
			{ID: 0, Keywords: []core.Keyword{{Term: "batteri", Weight: 0.4}, {Term: "life", Weight: 0.3}}},
			{ID: 1, Keywords: []core.Keyword{{Term: "screen", Weight: 0.5}, {Term: "bright", Weight: 0.2}}},
		},
		Reviews: []core.AnalyzedReview{
			{
				Review:        core.Review{ID: "r1", ProductID: "A", Text: "great battery", Rating: intPtr(5)},
				Sentiment:     pos,
				Score:         pos.Score(),
				Topics:        core.TopicDistribution{0.9, 0.1},
				DominantTopic: 0,
			},
			{
				Review:        core.Review{ID: "r2", ProductID: "B", Text: "dim screen"},
				Sentiment:     neg,
				Score:         neg.Score(),
				Topics:        core.TopicDistribution{0.2, 0.8},
				DominantTopic: 1,
			},
		},
		Products: []core.ProductSummary{
			{ProductID: "A", AvgSentimentScore: pos.Score(), ReviewCount: 1, AvgRating: floatPtr(5), SentimentRank: 1, VolumeRank: 1},
			{ProductID: "B", AvgSentimentScore: neg.Score(), ReviewCount: 1, SentimentRank: 2, VolumeRank: 1},
		},
		Overview: core.Overview([]core.SentimentResult{pos, neg}),
	}
}

func TestSaveAndRun(t *testing.T) {
	defer teardown(t)

	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := testReport("run-1", "upload", createdAt)

	require.NoError(t, testDB.Save(context.TODO(), want))

	got, err := testDB.Run(context.TODO(), "run-1")
	require.NoError(t, err)
	require.Equal(t, want, got)

	var topics []struct {
		TopicID int             `db:"topic_id"`
		Terms   pq.StringArray  `db:"terms"`
		Weights pq.Float64Array `db:"weights"`
	}
	require.NoError(t, conn.Select(&topics, "SELECT topic_id, terms, weights FROM topics ORDER BY topic_id"))
	require.Len(t, topics, 2)
	require.Equal(t, pq.StringArray{"screen", "bright"}, topics[1].Terms)
	require.Equal(t, pq.Float64Array{0.5, 0.2}, topics[1].Weights)
}

func TestSaveDuplicateRolledBack(t *testing.T) {
	defer teardown(t)

	report := testReport("run-1", "upload", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, testDB.Save(context.TODO(), report))
	require.Error(t, testDB.Save(context.TODO(), report))

	var count int
	require.NoError(t, conn.Get(&count, "SELECT COUNT(*) FROM analyzed_reviews"))
	require.Equal(t, 2, count)
}

func TestRunNotFound(t *testing.T) {
	_, err := testDB.Run(context.TODO(), "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRuns(t *testing.T) {
	defer teardown(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, source := range []string{"upload", "scrape:headphones", "upload"} {
		report := testReport(fmt.Sprintf("run-%d", i), source, base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, testDB.Save(context.TODO(), report))
	}

	testCases := []struct {
		desc   string
		filter core.RunFilter
		want   []string
	}{
		{
			desc: "all runs newest first",
			want: []string{"run-2", "run-1", "run-0"},
		},
		{
			desc:   "by source",
			filter: core.RunFilter{Source: "upload"},
			want:   []string{"run-2", "run-0"},
		},
		{
			desc:   "since",
			filter: core.RunFilter{Since: base.Add(time.Hour)},
			want:   []string{"run-2", "run-1"},
		},
		{
			desc:   "limit and offset",
			filter: core.RunFilter{Limit: 1, Offset: 1},
			want:   []string{"run-1"},
		},
		{
			desc:   "no match",
			filter: core.RunFilter{Source: "scrape:phones"},
			want:   []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			runs, err := testDB.Runs(context.TODO(), tc.filter)
			require.NoError(t, err)

			ids := make([]string, len(runs))
			for i, r := range runs {
				ids[i] = r.ID
			}
			require.Equal(t, tc.want, ids)
		})
	}

	runs, err := testDB.Runs(context.TODO(), core.RunFilter{Limit: 1})
	require.NoError(t, err)
	require.Equal(t, core.RunInfo{
		ID:           "run-2",
		CreatedAt:    base.Add(2 * time.Hour),
		Source:       "upload",
		NTopics:      5,
		ReviewCount:  2,
		ProductCount: 2,
	}, runs[0])
}

func TestDrop(t *testing.T) {
	require.NoError(t, testDB.Save(context.TODO(), testReport("run-1", "upload", time.Now().UTC())))

	require.NoError(t, testDB.Drop(context.TODO()))

	runs, err := testDB.Runs(context.TODO(), core.RunFilter{})
	require.NoError(t, err)
	require.Empty(t, runs)

	var count int
	require.NoError(t, conn.Get(&count, "SELECT COUNT(*) FROM product_summaries"))
	require.Zero(t, count)
}

func TestPing(t *testing.T) {
	require.NoError(t, testDB.Ping(context.TODO()))
}

func TestMigrateIdempotent(t *testing.T) {
	require.NoError(t, testDB.Migrate())
}
