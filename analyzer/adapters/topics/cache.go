package topics

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"review-insights/analyzer/core"
)

// Cache keeps the most recently fitted models keyed by corpus and fit
// parameters. Concurrent fits of the same key share a single fit.
type Cache struct {
	log     *slog.Logger
	modeler core.TopicModeler
	size    int

	mu     sync.Mutex
	models map[string]core.TopicModel
	order  []string

	group singleflight.Group
}

func NewCache(log *slog.Logger, modeler core.TopicModeler, size int) (*Cache, error) {
	if size < 1 {
		return nil, fmt.Errorf("wrong cache size specified: %d", size)
	}
	return &Cache{
		log:     log,
		modeler: modeler,
		size:    size,
		models:  make(map[string]core.TopicModel, size),
	}, nil
}

func (c *Cache) Fit(ctx context.Context, documents [][]string, params core.AnalysisParams) (core.TopicModel, error) {
	key := CorpusKey(documents, params)

	if model, ok := c.get(key); ok {
		c.log.Debug("topic model cache hit", "key", key[:12])
		return model, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		if model, ok := c.get(key); ok {
			return model, nil
		}
		model, err := c.modeler.Fit(ctx, documents, params)
		if err != nil {
			return nil, err
		}
		c.put(key, model)
		return model, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug("topic model fit shared", "key", key[:12])
	}
	return v.(core.TopicModel), nil
}

// Len reports the number of cached models.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.models)
}

func (c *Cache) get(key string) (core.TopicModel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	model, ok := c.models[key]
	return model, ok
}

func (c *Cache) put(key string, model core.TopicModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.models[key]; ok {
		return
	}
	if len(c.order) >= c.size {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.models, oldest)
	}
	c.models[key] = model
	c.order = append(c.order, key)
}

// CorpusKey identifies a fit: the documents in order and every parameter
// that changes the fitted state.
func CorpusKey(documents [][]string, params core.AnalysisParams) string {
	h := sha256.New()
	writeInt(h, uint64(params.NTopics))
	writeInt(h, uint64(params.MinCorpusSize))
	writeInt(h, uint64(params.MinTermFrequency))
	writeInt(h, uint64(params.Iterations))
	writeInt(h, params.Seed)
	writeInt(h, uint64(len(documents)))
	for _, doc := range documents {
		writeInt(h, uint64(len(doc)))
		for _, term := range doc {
			writeInt(h, uint64(len(term)))
			h.Write([]byte(term))
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeInt(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
