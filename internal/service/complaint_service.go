package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-complaints/internal/models"
	appErrors "github.com/noah-isme/campus-complaints/pkg/errors"
)

// ComplaintListCacheKey holds the serialised complaint list.
const ComplaintListCacheKey = "complaints:all"

type complaintRepository interface {
	Create(ctx context.Context, record *models.ComplaintRecord) error
	List(ctx context.Context) ([]models.ComplaintRecord, error)
	Resolve(ctx context.Context, id int, at time.Time) (bool, error)
}

// ComplaintService implements submit, list and resolve.
type ComplaintService struct {
	repo      complaintRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	now       func() time.Time
}

// NewComplaintService constructs a ComplaintService. cache may be nil.
func NewComplaintService(repo complaintRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ComplaintService{repo: repo, cache: cache, validator: validate, logger: logger, metrics: metrics, now: time.Now}
}

// Submit files a pending complaint owned by the token holder.
func (s *ComplaintService) Submit(ctx context.Context, owner *models.Claims, req models.SubmitComplaintRequest) (*models.Complaint, error) {
	if owner == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing fields")
	}

	record := &models.ComplaintRecord{
		StudentID:   owner.ID,
		StudentName: req.StudentName,
		Category:    req.Category,
		Description: req.Description,
		Status:      models.ComplaintPending,
		SubmittedAt: s.now(),
	}
	start := time.Now()
	err := s.repo.Create(ctx, record)
	s.metrics.ObserveDBQuery("complaints.create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store complaint")
	}

	s.cache.Invalidate(ctx, ComplaintListCacheKey)
	s.metrics.RecordComplaintEvent("submitted")
	s.logger.Info("complaint submitted", zap.Int("id", record.ID), zap.String("student_id", owner.ID))
	complaint := record.Complaint()
	return &complaint, nil
}

// List returns every complaint ordered by id, served from cache when possible.
func (s *ComplaintService) List(ctx context.Context) ([]models.Complaint, error) {
	var cached []models.Complaint
	entry, hit := s.cache.Get(ctx, ComplaintListCacheKey, &cached)
	if hit {
		return cached, nil
	}

	start := time.Now()
	records, err := s.repo.List(ctx)
	s.metrics.ObserveDBQuery("complaints.list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaints")
	}

	list := make([]models.Complaint, len(records))
	for i, r := range records {
		list[i] = r.Complaint()
	}
	s.cache.Set(ctx, entry, list)
	return list, nil
}

// Resolve marks a complaint resolved. Unknown and already resolved ids are
// accepted without change, so the first resolution date is kept.
func (s *ComplaintService) Resolve(ctx context.Context, req models.ResolveComplaintRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Missing fields")
	}

	start := time.Now()
	changed, err := s.repo.Resolve(ctx, req.ID, s.now())
	s.metrics.ObserveDBQuery("complaints.resolve", time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve complaint")
	}
	if !changed {
		s.logger.Debug("resolve was a no-op", zap.Int("id", req.ID))
		return nil
	}

	s.cache.Invalidate(ctx, ComplaintListCacheKey)
	s.metrics.RecordComplaintEvent("resolved")
	s.logger.Info("complaint resolved", zap.Int("id", req.ID))
	return nil
}
