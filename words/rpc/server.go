package rpc

import (
	"context"
	"log/slog"
	"strconv"
	"unicode/utf8"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MaxPhraseLen = 1_048_576 // 1MB
	MaxBatchSize = 1024
	// MaxMsgSize bounds one request or reply on both sides of the connection.
	MaxMsgSize = 64 << 20
)

type Normalizer interface {
	Norm(phrase string) []string
}

// ServerOptions raises the default 4MB message limits to MaxMsgSize.
func ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.MaxRecvMsgSize(MaxMsgSize),
		grpc.MaxSendMsgSize(MaxMsgSize),
	}
}

// Truncate cuts phrase to at most MaxPhraseLen bytes on a rune boundary.
func Truncate(phrase string) string {
	if len(phrase) <= MaxPhraseLen {
		return phrase
	}
	cut := MaxPhraseLen
	for cut > 0 && !utf8.RuneStart(phrase[cut]) {
		cut--
	}
	return phrase[:cut]
}

type Server struct {
	log        *slog.Logger
	normalizer Normalizer
}

func NewServer(log *slog.Logger, normalizer Normalizer) *Server {
	return &Server{log: log, normalizer: normalizer}
}

func (s *Server) Ping(_ context.Context, _ *Empty) (*Empty, error) {
	return &Empty{}, nil
}

func (s *Server) Norm(_ context.Context, in *NormRequest) (*NormReply, error) {
	return &NormReply{Words: s.norm(in.Phrase)}, nil
}

func (s *Server) NormBatch(ctx context.Context, in *NormBatchRequest) (*NormBatchReply, error) {
	if len(in.Phrases) > MaxBatchSize {
		return nil, status.Error(
			codes.ResourceExhausted,
			"batch is larger than "+strconv.Itoa(MaxBatchSize),
		)
	}
	docs := make([][]string, len(in.Phrases))
	for i, phrase := range in.Phrases {
		if err := ctx.Err(); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		docs[i] = s.norm(phrase)
	}
	s.log.Debug("normalized batch", "size", len(docs))
	return &NormBatchReply{Documents: docs}, nil
}

func (s *Server) norm(phrase string) []string {
	if len(phrase) > MaxPhraseLen {
		s.log.Debug("phrase truncated", "size", len(phrase), "limit", MaxPhraseLen)
		phrase = Truncate(phrase)
	}
	return s.normalizer.Norm(phrase)
}
