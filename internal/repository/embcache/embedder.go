package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/db"
	"github.com/kailas-cloud/menurank/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "emb_cache:"

// Lookup outcomes reported on the "result" label.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultStale = "stale"
	resultError = "error"
)

type kv interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Options scope cached vectors.
//
// Model is part of every key. TTL of zero keeps entries forever.
// With Dimensions set, cached vectors of another length are treated as stale and re-embedded.
type Options struct {
	Model      string
	TTL        time.Duration
	Dimensions int
}

// CachedEmbedder keeps provider embeddings of menu texts in a key-value store.
type CachedEmbedder struct {
	next    domain.Embedder
	kv      kv
	opts    Options
	lookups *prometheus.CounterVec
	logger  *zap.Logger
}

// New wraps next. lookups may be nil; otherwise it needs a single "result" label.
func New(next domain.Embedder, store kv, opts Options, lookups *prometheus.CounterVec, logger *zap.Logger) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{next: next, kv: store, opts: opts, lookups: lookups, logger: logger}
}

// Embed serves text from the cache when possible. Hits report zero tokens.
// Store failures degrade to a provider call and never fail the embedding.
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	vec, outcome := c.lookup(ctx, key)
	c.count(outcome)
	if outcome == resultHit {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	res, err := c.next.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	if len(res.Embedding) > 0 {
		if err := c.kv.SetWithTTL(ctx, key, encodeVector(res.Embedding), c.opts.TTL); err != nil {
			c.logger.Warn("Failed to store embedding", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

func (c *CachedEmbedder) lookup(ctx context.Context, key string) ([]float32, string) {
	raw, err := c.kv.Get(ctx, key)
	switch {
	case errors.Is(err, db.ErrKeyNotFound):
		return nil, resultMiss
	case err != nil:
		c.logger.Warn("Embedding cache read failed", zap.String("key", key), zap.Error(err))
		return nil, resultError
	case len(raw) == 0:
		return nil, resultMiss
	}

	vec, err := decodeVector(raw)
	if err != nil {
		c.logger.Warn("Dropping unreadable cached embedding", zap.String("key", key), zap.Error(err))
		return nil, resultError
	}
	if c.opts.Dimensions > 0 && len(vec) != c.opts.Dimensions {
		c.logger.Debug("Cached embedding has wrong dimensions",
			zap.String("key", key), zap.Int("got", len(vec)), zap.Int("want", c.opts.Dimensions))
		return nil, resultStale
	}
	return vec, resultHit
}

func (c *CachedEmbedder) count(outcome string) {
	if c.lookups != nil {
		c.lookups.WithLabelValues(outcome).Inc()
	}
}

// cacheKey is sha256(model NUL text), so two models never share an entry.
func (c *CachedEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.opts.Model + "\x00" + text))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// encodeVector packs v as little-endian float32s.
func encodeVector(v []float32) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, f := range v {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("cached vector is %d bytes, not a whole number of float32s", len(raw))
	}
	v := make([]float32, 0, len(raw)/4)
	for off := 0; off < len(raw); off += 4 {
		v = append(v, math.Float32frombits(binary.LittleEndian.Uint32(raw[off:])))
	}
	return v, nil
}
