package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	otelx "github.com/personaforge/personaforge/internal/adapter/otel"
	"github.com/personaforge/personaforge/internal/domain/granularity"
	"github.com/personaforge/personaforge/internal/domain/prompt"
	"github.com/personaforge/personaforge/internal/port/cache"
	"github.com/personaforge/personaforge/internal/port/database"
)

// composeCacheTTL bounds how long a composed prompt may outlive its
// epoch; stale-epoch entries are unreachable and age out on their own.
const composeCacheTTL = 5 * time.Minute

// PromptService composes prompts from a persona's tokens, with an
// in-process cache in front of the pure composer.
//
// Cache keys include a per-persona epoch counter; any token or persona
// mutation bumps the epoch, which orphans all earlier entries without
// needing prefix deletion.
type PromptService struct {
	store   database.Store
	levels  []granularity.Level
	cache   cache.Cache
	metrics *otelx.Metrics

	group  singleflight.Group
	epochs sync.Map // personaID -> *atomic.Uint64
}

// NewPromptService creates a prompt service. cache and metrics may be nil.
func NewPromptService(store database.Store, levels []granularity.Level, c cache.Cache, m *otelx.Metrics) *PromptService {
	return &PromptService{store: store, levels: levels, cache: c, metrics: m}
}

// Compose flattens the persona's tokens into positive/negative prompt
// strings plus a breakdown, honoring the given options.
func (s *PromptService) Compose(ctx context.Context, personaID string, opts prompt.Options) (*prompt.Composed, error) {
	// Unknown personas surface as NotFound rather than an empty prompt.
	if _, err := s.store.GetPersona(ctx, personaID); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Compositions.Add(ctx, 1)
	}

	key := s.cacheKey(personaID, opts)
	if composed, ok := s.cached(ctx, key); ok {
		if s.metrics != nil {
			s.metrics.CompositionCacheHits.Add(ctx, 1)
		}
		return composed, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		tokens, err := s.store.ListTokens(ctx, personaID)
		if err != nil {
			return nil, err
		}
		composed := prompt.Compose(tokens, s.levels, opts)
		s.storeCache(ctx, key, &composed)
		return &composed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*prompt.Composed), nil
}

// Invalidate orphans all cached compositions for the persona.
func (s *PromptService) Invalidate(personaID string) {
	s.epoch(personaID).Add(1)
}

func (s *PromptService) epoch(personaID string) *atomic.Uint64 {
	if e, ok := s.epochs.Load(personaID); ok {
		return e.(*atomic.Uint64)
	}
	e, _ := s.epochs.LoadOrStore(personaID, &atomic.Uint64{})
	return e.(*atomic.Uint64)
}

func (s *PromptService) cacheKey(personaID string, opts prompt.Options) string {
	raw, _ := json.Marshal(opts)
	h := sha256.Sum256(raw)
	return fmt.Sprintf("compose:%s:%d:%s", personaID, s.epoch(personaID).Load(), hex.EncodeToString(h[:8]))
}

func (s *PromptService) cached(ctx context.Context, key string) (*prompt.Composed, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var composed prompt.Composed
	if err := json.Unmarshal(data, &composed); err != nil {
		slog.Warn("corrupt compose cache entry", "key", key, "error", err)
		return nil, false
	}
	return &composed, true
}

func (s *PromptService) storeCache(ctx context.Context, key string, composed *prompt.Composed) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(composed)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, composeCacheTTL); err != nil {
		slog.Warn("compose cache set failed", "key", key, "error", err)
	}
}
