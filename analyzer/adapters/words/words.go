package words

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"review-insights/analyzer/core"
	"review-insights/words/rpc"
)

// requestBudget caps the encoded size of one NormBatch request, leaving room
// for a reply within rpc.MaxMsgSize.
const requestBudget = rpc.MaxMsgSize / 4

type Client struct {
	log    *slog.Logger
	conn   *grpc.ClientConn
	client *rpc.WordsClient
}

func NewClient(address string, log *slog.Logger, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff: backoff.Config{
				BaseDelay:  1 * time.Second,
				Multiplier: 1.6,
				MaxDelay:   10 * time.Second,
			},
			MinConnectTimeout: 10 * time.Second,
		}),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(rpc.MaxMsgSize),
			grpc.MaxCallSendMsgSize(rpc.MaxMsgSize),
		),
	}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		log:    log,
		conn:   conn,
		client: rpc.NewWordsClient(conn),
	}, nil
}

func (c *Client) Close() {
	if err := c.conn.Close(); err != nil {
		c.log.Warn("failed to close gRPC connection", "error", err)
	}
}

func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.Ping(ctx, &rpc.Empty{}); err != nil {
		return mapError(err)
	}
	return nil
}

// Norm normalizes texts in as many NormBatch calls as the message limits
// require. Oversized texts are truncated and invalid UTF-8 becomes spaces,
// matching in-process normalization.
func (c *Client) Norm(ctx context.Context, texts []string) ([][]string, error) {
	prepared := make([]string, len(texts))
	for i, text := range texts {
		prepared[i] = rpc.Truncate(strings.ToValidUTF8(text, " "))
	}

	docs := make([][]string, 0, len(texts))
	for _, batch := range batches(prepared, requestBudget, rpc.MaxBatchSize) {
		reply, err := c.client.NormBatch(ctx, &rpc.NormBatchRequest{Phrases: batch})
		if err != nil {
			return nil, mapError(err)
		}
		if len(reply.Documents) != len(batch) {
			return nil, fmt.Errorf("words service returned %d documents for %d texts", len(reply.Documents), len(batch))
		}
		for _, doc := range reply.Documents {
			if doc == nil {
				doc = []string{}
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// batches splits texts into consecutive groups of at most maxCount texts whose
// worst-case JSON size stays within budget. A text larger than budget on its
// own travels alone.
func batches(texts []string, budget, maxCount int) [][]string {
	var (
		out   [][]string
		start int
		size  int
	)
	for i, text := range texts {
		cost := encodedSize(text)
		if i > start && (size+cost > budget || i-start == maxCount) {
			out = append(out, texts[start:i])
			start, size = i, 0
		}
		size += cost
	}
	if start < len(texts) {
		out = append(out, texts[start:])
	}
	return out
}

// encodedSize bounds the JSON size of a string: every byte may expand to a
// six-byte escape, plus quotes and a separator.
func encodedSize(text string) int {
	return 6*len(text) + 3
}

func mapError(err error) error {
	switch status.Code(err) {
	case codes.Unavailable:
		return core.ErrServiceUnavailable
	case codes.ResourceExhausted:
		return core.ErrBadArguments
	default:
		return err
	}
}
