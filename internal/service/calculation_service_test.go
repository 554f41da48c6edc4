package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/internal/repository"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
)

func newCalculationFixture(role models.Role, count int) (*CalculationService, *fakeIdentity, *fakeAnswers, *fakeStats, *memoryCache) {
	identity := &fakeIdentity{role: role, roleOK: role != models.RoleNone}
	answers := &fakeAnswers{counts: map[int64]int{202501: count}}
	stats := &fakeStats{}
	store := newMemoryCache()
	cache := NewCacheService(store, nil, time.Hour, zap.NewNop(), true)
	svc := NewCalculationService(CalculationServiceParams{
		Roles:   identity,
		Answers: answers,
		Stats:   stats,
		Cache:   cache,
		Metrics: NewMetricsService(),
		Logger:  zap.NewNop(),
	})
	return svc, identity, answers, stats, store
}

func TestCalculationRejectsNonAdminWithoutDataAccess(t *testing.T) {
	for _, role := range []models.Role{models.RoleNone, models.RoleTeacher, models.RoleStudent, models.RoleExecutive} {
		svc, _, answers, stats, _ := newCalculationFixture(role, 10)

		res := svc.Run(context.Background(), 202501, "admin")

		assert.False(t, res.Success)
		assert.Equal(t, http.StatusForbidden, res.Status)
		assert.Equal(t, MsgCalculationDenied, res.Message)
		assert.Zero(t, answers.countCalls, "role %s must not reach the count query", role)
		assert.Empty(t, stats.calls)
	}
}

func TestCalculationNoAnswersSkipsProcedures(t *testing.T) {
	svc, _, _, stats, _ := newCalculationFixture(models.RoleAdmin, 0)

	res := svc.Run(context.Background(), 202501, "admin")

	assert.Equal(t, models.CalculationResult{Success: false, Message: MsgCalculationNoData, Status: http.StatusNotFound}, res)
	assert.Empty(t, stats.calls)
}

func TestCalculationCountFailure(t *testing.T) {
	svc, _, answers, stats, _ := newCalculationFixture(models.RoleAdmin, 5)
	answers.countErr = errors.New("connection reset")

	res := svc.Run(context.Background(), 202501, "admin")

	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Equal(t, MsgCalculationCheck, res.Message)
	assert.NotContains(t, res.Message, "connection reset")
	assert.Empty(t, stats.calls)
}

func TestCalculationRunsAllProcedures(t *testing.T) {
	svc, _, _, stats, _ := newCalculationFixture(models.RoleAdmin, 12)

	res := svc.Run(context.Background(), 202501, "registrar")

	assert.Equal(t, models.CalculationResult{Success: true, Message: MsgCalculationStarted, Status: http.StatusOK}, res)
	calls := append([]string(nil), stats.calls...)
	sort.Strings(calls)
	assert.Equal(t, []string{repository.ProcFacultyAverages, repository.ProcMajorAverages, repository.ProcTeacherAverages}, calls)
	assert.Equal(t, []string{"registrar", "registrar", "registrar"}, stats.args)
}

func TestCalculationDefaultsInvoker(t *testing.T) {
	svc, _, _, stats, _ := newCalculationFixture(models.RoleAdmin, 1)

	svc.Run(context.Background(), 202501, "  ")

	require.Len(t, stats.args, 3)
	for _, by := range stats.args {
		assert.Equal(t, models.DefaultCalculatedBy, by)
	}
}

func TestCalculationReportsEveryFailure(t *testing.T) {
	svc, _, _, stats, _ := newCalculationFixture(models.RoleAdmin, 3)
	stats.failures = map[string]error{
		repository.ProcMajorAverages:   errors.New("major boom"),
		repository.ProcFacultyAverages: errors.New("faculty boom"),
	}

	res := svc.Run(context.Background(), 202501, "admin")

	assert.False(t, res.Success)
	assert.Equal(t, http.StatusInternalServerError, res.Status)
	assert.Contains(t, res.Message, "Calculation failed: ")
	assert.Contains(t, res.Message, "major boom")
	assert.Contains(t, res.Message, "faculty boom")
	assert.Contains(t, res.Message, "; ")
	assert.Len(t, stats.calls, 3)
}

func TestCalculationIsRepeatable(t *testing.T) {
	svc, _, _, stats, _ := newCalculationFixture(models.RoleAdmin, 8)

	first := svc.Run(context.Background(), 202501, "admin")
	second := svc.Run(context.Background(), 202501, "admin")

	assert.Equal(t, first, second)
	assert.Len(t, stats.calls, 6)
}

func TestCalculationStatusIsRecorded(t *testing.T) {
	svc, _, _, _, store := newCalculationFixture(models.RoleAdmin, 8)

	_, err := svc.Status(context.Background(), 202501)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)

	svc.Run(context.Background(), 202501, "registrar")

	status, err := svc.Status(context.Background(), 202501)
	require.NoError(t, err)
	assert.True(t, status.Success)
	assert.Equal(t, "registrar", status.CalculatedBy)
	assert.Contains(t, store.items, StatusKey(202501))
}

func TestCalculationStatusWithoutCache(t *testing.T) {
	svc := NewCalculationService(CalculationServiceParams{
		Roles:   &fakeIdentity{role: models.RoleAdmin, roleOK: true},
		Answers: &fakeAnswers{counts: map[int64]int{202502: 0}},
		Stats:   &fakeStats{},
	})

	svc.Run(context.Background(), 202502, "")

	status, err := svc.Status(context.Background(), 202502)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, status.Status)
	assert.Equal(t, MsgCalculationNoData, status.Message)
}

func TestStatusKey(t *testing.T) {
	assert.Equal(t, "calc:status:202501", StatusKey(202501))
}
