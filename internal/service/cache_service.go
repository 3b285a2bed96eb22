package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
	"github.com/noah-isme/campus-complaints/pkg/jobs"
)

// JobKindInvalidate marks deferred cache invalidations.
const JobKindInvalidate = "cache.invalidate"

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, keys ...string) error
}

// jobEnqueuer accepts deferred work.
type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// Entry is a cache slot bound to the generation seen when it was looked up.
// Values stored through an Entry taken before an invalidation land under a
// generation that is never read again.
type Entry struct {
	key   string
	valid bool
}

// CacheService wraps a CacheRepository with metrics and fail-open semantics:
// cache errors are logged and treated as misses.
//
// Every logical key has a generation counter. Entries live under key:gN and
// Invalidate advances N instead of deleting the entry in place.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool
	retries    jobEnqueuer
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{repo: repo, metrics: metrics, defaultTTL: defaultTTL, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

func generationKey(key string) string {
	return key + ":generation"
}

func entryKey(key string, generation int64) string {
	return fmt.Sprintf("%s:g%d", key, generation)
}

func (s *CacheService) generation(ctx context.Context, key string) (int64, error) {
	var gen int64
	err := s.repo.Get(ctx, generationKey(key), &gen)
	if errors.Is(err, appErrors.ErrCacheMiss) {
		return 0, nil
	}
	return gen, err
}

// Get looks key up under its current generation and decodes it into dest.
// The returned Entry is where a freshly computed value should be stored.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (Entry, bool) {
	if !s.Enabled() {
		return Entry{}, false
	}
	start := time.Now()
	gen, err := s.generation(ctx, key)
	if err != nil {
		s.metrics.RecordCacheOperation(false, time.Since(start))
		s.logger.Warn("cache generation lookup failed", zap.String("key", key), zap.Error(err))
		return Entry{}, false
	}

	entry := Entry{key: entryKey(key, gen), valid: true}
	err = s.repo.Get(ctx, entry.key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", entry.key), zap.Error(err))
	}
	return entry, err == nil
}

// Set stores value in entry. Failures are logged only.
func (s *CacheService) Set(ctx context.Context, entry Entry, value interface{}) {
	if !s.Enabled() || !entry.valid {
		return
	}
	if err := s.repo.Set(ctx, entry.key, value, s.defaultTTL); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", entry.key), zap.Error(err))
	}
}

// UseRetryQueue defers failed invalidations to q instead of leaving stale
// entries until their TTL runs out.
func (s *CacheService) UseRetryQueue(q jobEnqueuer) {
	if s != nil {
		s.retries = q
	}
}

// Invalidate advances the generation of each key.
func (s *CacheService) Invalidate(ctx context.Context, keys ...string) {
	if !s.Enabled() {
		return
	}
	var failed []string
	for _, key := range keys {
		if err := s.bump(ctx, key); err != nil {
			s.logger.Warn("cache invalidate failed", zap.String("key", key), zap.Error(err))
			failed = append(failed, key)
		}
	}
	if len(failed) == 0 || s.retries == nil {
		return
	}
	if err := s.retries.Enqueue(jobs.Job{Kind: JobKindInvalidate, Keys: failed}); err != nil {
		s.logger.Error("cannot defer cache invalidation", zap.Strings("keys", failed), zap.Error(err))
	}
}

// bump advances the generation and drops the superseded entry.
func (s *CacheService) bump(ctx context.Context, key string) error {
	gen, err := s.repo.Incr(ctx, generationKey(key))
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, entryKey(key, gen-1)); err != nil {
		s.logger.Debug("superseded cache entry not dropped", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// HandleJob retries a deferred invalidation. It is the retry queue's handler.
func (s *CacheService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Kind != JobKindInvalidate {
		s.logger.Warn("ignoring unknown cache job", zap.String("kind", job.Kind))
		return nil
	}
	if !s.Enabled() {
		return nil
	}
	var errs []error
	for _, key := range job.Keys {
		if err := s.bump(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
