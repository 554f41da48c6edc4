package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/internal/repository"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
)

// Messages returned by the calculation trigger.
const (
	MsgCalculationDenied  = "Access denied. Admin privileges required."
	MsgCalculationCheck   = "Failed to check assessment data"
	MsgCalculationNoData  = "No assessment answers found for this round"
	MsgCalculationFailed  = "Calculation failed: "
	MsgCalculationStarted = "Calculations started successfully. Check calculation logs for status."
)

// recomputeProcedures run for every round, in no particular order.
var recomputeProcedures = []string{
	repository.ProcTeacherAverages,
	repository.ProcMajorAverages,
	repository.ProcFacultyAverages,
}

type roleResolver interface {
	Resolve(ctx context.Context) (models.Role, bool)
}

type answerCounter interface {
	CountByRound(ctx context.Context, roundID int64) (int, error)
}

type averageRecomputer interface {
	Recompute(ctx context.Context, procedure string, roundID int64, calculatedBy string) error
}

// CalculationServiceConfig tunes the status surface.
type CalculationServiceConfig struct {
	StatusTTL time.Duration
}

// CalculationService recomputes the average roll-ups of a round.
type CalculationService struct {
	roles   roleResolver
	answers answerCounter
	stats   averageRecomputer
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     CalculationServiceConfig
	now     func() time.Time

	mu   sync.RWMutex
	last map[int64]models.CalculationStatus
}

// CalculationServiceParams groups constructor dependencies.
type CalculationServiceParams struct {
	Roles   roleResolver
	Answers answerCounter
	Stats   averageRecomputer
	Cache   *CacheService
	Metrics *MetricsService
	Logger  *zap.Logger
	Config  CalculationServiceConfig
}

// NewCalculationService constructs a CalculationService.
func NewCalculationService(params CalculationServiceParams) *CalculationService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := params.Config
	if cfg.StatusTTL <= 0 {
		cfg.StatusTTL = 24 * time.Hour
	}
	return &CalculationService{
		roles:   params.Roles,
		answers: params.Answers,
		stats:   params.Stats,
		cache:   params.Cache,
		metrics: params.Metrics,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		last:    make(map[int64]models.CalculationStatus),
	}
}

// StatusKey is the cache key holding the latest outcome for a round.
func StatusKey(roundID int64) string {
	return fmt.Sprintf("calc:status:%d", roundID)
}

// Run recomputes teacher, major and faculty averages for a round. The admin check is
// repeated here regardless of what the caller verified. Procedures run concurrently and
// every failure is reported; procedures that succeeded are kept since each one
// overwrites the round's rows and a rerun repairs partial state.
func (s *CalculationService) Run(ctx context.Context, roundID int64, requestedBy string) models.CalculationResult {
	if strings.TrimSpace(requestedBy) == "" {
		requestedBy = models.DefaultCalculatedBy
	}
	logger := s.logger.With(zap.Int64("around_id", roundID), zap.String("calculated_by", requestedBy))

	role, ok := s.roles.Resolve(ctx)
	if !ok || role != models.RoleAdmin {
		logger.Warn("calculation denied", zap.String("role", role.String()))
		s.metrics.RecordCalculation(OutcomeForbidden)
		return models.CalculationResult{Success: false, Message: MsgCalculationDenied, Status: http.StatusForbidden}
	}

	count, err := s.answers.CountByRound(ctx, roundID)
	if err != nil {
		logger.Error("count answers failed", zap.Error(err))
		return s.finish(ctx, roundID, requestedBy, OutcomeFailed, models.CalculationResult{
			Success: false, Message: MsgCalculationCheck, Status: http.StatusInternalServerError,
		}, nil)
	}
	if count == 0 {
		return s.finish(ctx, roundID, requestedBy, OutcomeNoData, models.CalculationResult{
			Success: false, Message: MsgCalculationNoData, Status: http.StatusNotFound,
		}, nil)
	}

	if err := s.recomputeAll(ctx, roundID, requestedBy); err != nil {
		errs := multierr.Errors(err)
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		logger.Error("calculation failed", zap.Strings("errors", msgs))
		return s.finish(ctx, roundID, requestedBy, OutcomeFailed, models.CalculationResult{
			Success: false, Message: MsgCalculationFailed + strings.Join(msgs, "; "), Status: http.StatusInternalServerError,
		}, msgs)
	}

	logger.Info("calculation finished", zap.Int("answers", count))
	return s.finish(ctx, roundID, requestedBy, OutcomeSuccess, models.CalculationResult{
		Success: true, Message: MsgCalculationStarted, Status: http.StatusOK,
	}, nil)
}

func (s *CalculationService) recomputeAll(ctx context.Context, roundID int64, requestedBy string) error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	began := time.Now()
	for _, procedure := range recomputeProcedures {
		wg.Add(1)
		go func(procedure string) {
			defer wg.Done()
			start := time.Now()
			err := s.stats.Recompute(ctx, procedure, roundID, requestedBy)
			s.metrics.ObserveDBQuery(procedure, time.Since(start))
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", procedure, err))
				mu.Unlock()
			}
		}(procedure)
	}
	wg.Wait()
	s.metrics.ObserveCalculation(time.Since(began))
	return errs
}

func (s *CalculationService) finish(ctx context.Context, roundID int64, requestedBy, outcome string, result models.CalculationResult, errs []string) models.CalculationResult {
	s.metrics.RecordCalculation(outcome)
	status := models.CalculationStatus{
		RoundID:      roundID,
		Success:      result.Success,
		Message:      result.Message,
		Status:       result.Status,
		CalculatedBy: requestedBy,
		Errors:       errs,
		FinishedAt:   s.now().UTC(),
	}
	s.mu.Lock()
	s.last[roundID] = status
	s.mu.Unlock()
	// The cache write is best effort; CacheService already logs failures.
	_ = s.cache.Set(ctx, StatusKey(roundID), status, s.cfg.StatusTTL)
	return result
}

// Forget drops the recorded outcome of a round from memory and the shared cache.
func (s *CalculationService) Forget(ctx context.Context, roundID int64) error {
	s.mu.Lock()
	delete(s.last, roundID)
	s.mu.Unlock()
	return s.cache.Invalidate(ctx, StatusKey(roundID))
}

// Status returns the latest recorded outcome for a round, preferring the shared cache
// so that every instance reports the same run.
func (s *CalculationService) Status(ctx context.Context, roundID int64) (*models.CalculationStatus, error) {
	var status models.CalculationStatus
	if hit, err := s.cache.Get(ctx, StatusKey(roundID), &status); err == nil && hit {
		return &status, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if last, ok := s.last[roundID]; ok {
		return &last, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no calculation recorded for this round")
}
