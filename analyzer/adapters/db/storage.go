package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"review-insights/analyzer/core"
)

const (
	// rows per multi-row insert, well under the bind parameter limit
	insertChunk = 1000

	// insert
	insertRun = `
		INSERT INTO runs (id, created_at, source, n_topics, review_count, product_count, params, overview)
		VALUES (:id, :created_at, :source, :n_topics, :review_count, :product_count, :params, :overview)
	`
	insertTopic = `
		INSERT INTO topics (run_id, topic_id, terms, weights)
		VALUES ($1, $2, $3, $4)
	`
	insertReview = `
		INSERT INTO analyzed_reviews (run_id, position, review_id, product_id, label, sentiment_score, dominant_topic, data)
		VALUES (:run_id, :position, :review_id, :product_id, :label, :sentiment_score, :dominant_topic, :data)
	`
	insertProduct = `
		INSERT INTO product_summaries (run_id, position, product_id, avg_sentiment_score, review_count,
			avg_rating, sentiment_rank, volume_rank)
		VALUES (:run_id, :position, :product_id, :avg_sentiment_score, :review_count,
			:avg_rating, :sentiment_rank, :volume_rank)
	`

	// select
	getRun = `
		SELECT id, created_at, source, n_topics, review_count, product_count, params, overview
		FROM runs WHERE id = $1
	`
	getTopics   = `SELECT topic_id, terms, weights FROM topics WHERE run_id = $1 ORDER BY topic_id`
	getReviews  = `SELECT data FROM analyzed_reviews WHERE run_id = $1 ORDER BY position`
	getProducts = `
		SELECT product_id, avg_sentiment_score, review_count, avg_rating, sentiment_rank, volume_rank
		FROM product_summaries WHERE run_id = $1 ORDER BY position
	`

	// truncate
	truncateRuns = `TRUNCATE runs CASCADE`
)

type DB struct {
	log  *slog.Logger
	conn *sqlx.DB
}

type runRow struct {
	ID           string    `db:"id"`
	CreatedAt    time.Time `db:"created_at"`
	Source       string    `db:"source"`
	NTopics      int       `db:"n_topics"`
	ReviewCount  int       `db:"review_count"`
	ProductCount int       `db:"product_count"`
	Params       string    `db:"params"`
	Overview     string    `db:"overview"`
}

type topicRow struct {
	TopicID int             `db:"topic_id"`
	Terms   pq.StringArray  `db:"terms"`
	Weights pq.Float64Array `db:"weights"`
}

type reviewRow struct {
	RunID         string  `db:"run_id"`
	Position      int     `db:"position"`
	ReviewID      string  `db:"review_id"`
	ProductID     string  `db:"product_id"`
	Label         string  `db:"label"`
	Score         float64 `db:"sentiment_score"`
	DominantTopic int     `db:"dominant_topic"`
	Data          string  `db:"data"`
}

type productRow struct {
	RunID    string `db:"run_id"`
	Position int    `db:"position"`
	core.ProductSummary
}

func New(log *slog.Logger, address string) (*DB, error) {
	db, err := sqlx.Connect("pgx", address)
	if err != nil {
		log.Error("connection problem", "address", address, "error", err)
		return nil, err
	}
	return &DB{
		log:  log,
		conn: db,
	}, nil
}

func (db *DB) Close() {
	if err := db.conn.Close(); err != nil {
		db.log.Warn("failed to close database connection", "error", err)
	}
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", core.ErrServiceUnavailable, err)
	}
	return nil
}

func (db *DB) Save(ctx context.Context, report core.Report) error {
	params, err := json.Marshal(report.Params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	overview, err := json.Marshal(report.Overview)
	if err != nil {
		return fmt.Errorf("failed to encode overview: %w", err)
	}

	reviews := make([]reviewRow, len(report.Reviews))
	for i, r := range report.Reviews {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode review %s: %w", r.ID, err)
		}
		reviews[i] = reviewRow{
			RunID:         report.ID,
			Position:      i,
			ReviewID:      r.ID,
			ProductID:     r.ProductID,
			Label:         string(r.Sentiment.Label),
			Score:         r.Score,
			DominantTopic: r.DominantTopic,
			Data:          string(data),
		}
	}
	products := make([]productRow, len(report.Products))
	for i, p := range report.Products {
		products[i] = productRow{RunID: report.ID, Position: i, ProductSummary: p}
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			db.log.Error("failed to rollback transaction", "error", err)
		}
	}()

	info := report.Info()
	if _, err := tx.NamedExecContext(ctx, insertRun, runRow{
		ID:           info.ID,
		CreatedAt:    info.CreatedAt,
		Source:       info.Source,
		NTopics:      info.NTopics,
		ReviewCount:  info.ReviewCount,
		ProductCount: info.ProductCount,
		Params:       string(params),
		Overview:     string(overview),
	}); err != nil {
		return fmt.Errorf("failed to insert into runs table: %w", err)
	}

	for _, t := range report.Topics {
		terms := make([]string, len(t.Keywords))
		weights := make([]float64, len(t.Keywords))
		for i, kw := range t.Keywords {
			terms[i], weights[i] = kw.Term, kw.Weight
		}
		if _, err := tx.ExecContext(ctx, insertTopic, report.ID, t.ID, pq.Array(terms), pq.Array(weights)); err != nil {
			return fmt.Errorf("failed to insert into topics table: %w", err)
		}
	}

	for lo := 0; lo < len(reviews); lo += insertChunk {
		hi := min(lo+insertChunk, len(reviews))
		if _, err := tx.NamedExecContext(ctx, insertReview, reviews[lo:hi]); err != nil {
			return fmt.Errorf("failed to insert into analyzed_reviews table: %w", err)
		}
	}
	for lo := 0; lo < len(products); lo += insertChunk {
		hi := min(lo+insertChunk, len(products))
		if _, err := tx.NamedExecContext(ctx, insertProduct, products[lo:hi]); err != nil {
			return fmt.Errorf("failed to insert into product_summaries table: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (db *DB) Runs(ctx context.Context, filter core.RunFilter) ([]core.RunInfo, error) {
	query := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id", "created_at", "source", "n_topics", "review_count", "product_count").
		From("runs").
		OrderBy("created_at DESC", "id")
	if filter.Source != "" {
		query = query.Where(sq.Eq{"source": filter.Source})
	}
	if !filter.Since.IsZero() {
		query = query.Where(sq.GtOrEq{"created_at": filter.Since})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build runs query: %w", err)
	}
	runs := make([]core.RunInfo, 0)
	if err := db.conn.SelectContext(ctx, &runs, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to select from runs table: %w", err)
	}
	for i := range runs {
		runs[i].CreatedAt = runs[i].CreatedAt.UTC()
	}
	return runs, nil
}

func (db *DB) Run(ctx context.Context, id string) (core.Report, error) {
	var run runRow
	if err := db.conn.GetContext(ctx, &run, getRun, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Report{}, core.ErrNotFound
		}
		return core.Report{}, fmt.Errorf("failed to select from runs table: %w", err)
	}

	report := core.Report{
		ID:        run.ID,
		CreatedAt: run.CreatedAt.UTC(),
		Source:    run.Source,
	}
	if err := json.Unmarshal([]byte(run.Params), &report.Params); err != nil {
		return core.Report{}, fmt.Errorf("failed to decode params: %w", err)
	}
	if err := json.Unmarshal([]byte(run.Overview), &report.Overview); err != nil {
		return core.Report{}, fmt.Errorf("failed to decode overview: %w", err)
	}

	var topics []topicRow
	if err := db.conn.SelectContext(ctx, &topics, getTopics, id); err != nil {
		return core.Report{}, fmt.Errorf("failed to select from topics table: %w", err)
	}
	report.Topics = make([]core.Topic, len(topics))
	for i, t := range topics {
		keywords := make([]core.Keyword, len(t.Terms))
		for j := range t.Terms {
			keywords[j] = core.Keyword{Term: t.Terms[j], Weight: t.Weights[j]}
		}
		report.Topics[i] = core.Topic{ID: t.TopicID, Keywords: keywords}
	}

	var data []string
	if err := db.conn.SelectContext(ctx, &data, getReviews, id); err != nil {
		return core.Report{}, fmt.Errorf("failed to select from analyzed_reviews table: %w", err)
	}
	report.Reviews = make([]core.AnalyzedReview, len(data))
	for i, d := range data {
		if err := json.Unmarshal([]byte(d), &report.Reviews[i]); err != nil {
			return core.Report{}, fmt.Errorf("failed to decode review: %w", err)
		}
	}

	report.Products = make([]core.ProductSummary, 0, run.ProductCount)
	if err := db.conn.SelectContext(ctx, &report.Products, getProducts, id); err != nil {
		return core.Report{}, fmt.Errorf("failed to select from product_summaries table: %w", err)
	}
	return report, nil
}

func (db *DB) Drop(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, truncateRuns); err != nil {
		return fmt.Errorf("failed to truncate runs table: %w", err)
	}
	return nil
}
