package words

import (
	"context"

	"review-insights/words/words"
)

// Local normalizes in process, for deployments without the Words service.
type Local struct {
	normalizer *words.Normalizer
}

func NewLocal(normalizer *words.Normalizer) *Local {
	return &Local{normalizer: normalizer}
}

func (l *Local) Norm(ctx context.Context, texts []string) ([][]string, error) {
	docs := make([][]string, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs[i] = l.normalizer.Norm(text)
	}
	return docs, nil
}

func (l *Local) Ping(context.Context) error {
	return nil
}
