package service

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/noah-isme/advisor-assessment/internal/models"
)

type identityRepository interface {
	CurrentRole(ctx context.Context) (sql.NullInt64, error)
	CurrentID(ctx context.Context) (sql.NullInt64, error)
}

// RoleService resolves who the current session is. The database answers both questions
// from the session token forwarded by the request-scoped client.
type RoleService struct {
	repo   identityRepository
	logger *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(repo identityRepository, logger *zap.Logger) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{repo: repo, logger: logger}
}

// Resolve returns the session's role. The second value is false when the role is
// NULL, unknown or could not be fetched; callers treat all three alike.
func (s *RoleService) Resolve(ctx context.Context) (models.Role, bool) {
	code, err := s.repo.CurrentRole(ctx)
	if err != nil {
		s.logger.Warn("resolve role failed", zap.Error(err))
		return models.RoleNone, false
	}
	if !code.Valid {
		return models.RoleNone, false
	}
	role, ok := models.RoleFromCode(code.Int64)
	if !ok {
		s.logger.Warn("unknown role code", zap.Int64("code", code.Int64))
	}
	return role, ok
}

// CurrentID returns the profile id of the session's user.
func (s *RoleService) CurrentID(ctx context.Context) (int64, bool) {
	id, err := s.repo.CurrentID(ctx)
	if err != nil {
		s.logger.Warn("resolve user id failed", zap.Error(err))
		return 0, false
	}
	if !id.Valid || id.Int64 <= 0 {
		return 0, false
	}
	return id.Int64, true
}
