package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/models"
	"github.com/noah-isme/campus-complaints/pkg/jobs"
)

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func (failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("connection refused")
}

func (failingCache) Incr(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("connection refused")
}

func (failingCache) Delete(ctx context.Context, keys ...string) error {
	return errors.New("connection refused")
}

func TestCacheServiceFailsOpen(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(failingCache{}, metrics, 0, zap.NewNop(), true)
	ctx := context.Background()

	var dest []models.Complaint
	entry, hit := svc.Get(ctx, "k", &dest)
	assert.False(t, hit)
	svc.Set(ctx, entry, []models.Complaint{})
	svc.Invalidate(ctx, "k")

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	var misses float64
	for _, family := range families {
		if family.GetName() != "cache_lookups_total" {
			continue
		}
		for _, m := range family.GetMetric() {
			misses += m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), misses)
}

func TestCacheServiceDisabled(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, cache.Set(context.Background(), "k:g0", []models.Complaint{{ID: 1}}, time.Minute))
	svc := NewCacheService(cache, nil, time.Minute, nil, false)

	var dest []models.Complaint
	assert.False(t, svc.Enabled())
	_, hit := svc.Get(context.Background(), "k", &dest)
	assert.False(t, hit)

	var nilSvc *CacheService
	_, hit = nilSvc.Get(context.Background(), "k", &dest)
	assert.False(t, hit)
	nilSvc.Invalidate(context.Background(), "k")
}

type recordingQueue struct {
	jobs []jobs.Job
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func TestCacheServiceDefersFailedInvalidation(t *testing.T) {
	queue := &recordingQueue{}
	svc := NewCacheService(failingCache{}, nil, time.Minute, zap.NewNop(), true)
	svc.UseRetryQueue(queue)

	svc.Invalidate(context.Background(), ComplaintListCacheKey)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobKindInvalidate, queue.jobs[0].Kind)
	assert.Equal(t, []string{ComplaintListCacheKey}, queue.jobs[0].Keys)

	assert.Error(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	assert.NoError(t, svc.HandleJob(context.Background(), jobs.Job{Kind: "other"}))
}

func TestCacheServiceHandleJobAdvancesGeneration(t *testing.T) {
	cache := newMemoryCache()
	svc := NewCacheService(cache, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var dest []models.Complaint
	entry, _ := svc.Get(ctx, ComplaintListCacheKey, &dest)
	svc.Set(ctx, entry, []models.Complaint{{ID: 1}})
	_, hit := svc.Get(ctx, ComplaintListCacheKey, &dest)
	require.True(t, hit)

	require.NoError(t, svc.HandleJob(ctx, jobs.Job{Kind: JobKindInvalidate, Keys: []string{ComplaintListCacheKey}}))
	_, hit = svc.Get(ctx, ComplaintListCacheKey, &dest)
	assert.False(t, hit)
	assert.NotContains(t, cache.entries, ComplaintListCacheKey+":g0")
}

func TestCacheServiceIgnoresSetFromOlderGeneration(t *testing.T) {
	cache := newMemoryCache()
	svc := NewCacheService(cache, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var dest []models.Complaint
	before, hit := svc.Get(ctx, ComplaintListCacheKey, &dest)
	require.False(t, hit)

	svc.Invalidate(ctx, ComplaintListCacheKey)
	svc.Set(ctx, before, []models.Complaint{{ID: 1}})

	_, hit = svc.Get(ctx, ComplaintListCacheKey, &dest)
	assert.False(t, hit)
}
