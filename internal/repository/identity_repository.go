package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noah-isme/advisor-assessment/pkg/database"
)

// IdentityRepository wraps the procedures that resolve the caller from the session header.
type IdentityRepository struct {
	clients *database.Factory
}

// NewIdentityRepository constructs an IdentityRepository.
func NewIdentityRepository(clients *database.Factory) *IdentityRepository {
	return &IdentityRepository{clients: clients}
}

// CurrentRole returns the raw role code of the caller; NULL means no live session.
func (r *IdentityRepository) CurrentRole(ctx context.Context) (sql.NullInt64, error) {
	var code sql.NullInt64
	if err := r.clients.FromContext(ctx).Call(ctx, &code, "get_user_role"); err != nil {
		return sql.NullInt64{}, fmt.Errorf("resolve role: %w", err)
	}
	return code, nil
}

// CurrentID returns the caller's internal profile id.
func (r *IdentityRepository) CurrentID(ctx context.Context) (sql.NullInt64, error) {
	var id sql.NullInt64
	if err := r.clients.FromContext(ctx).Call(ctx, &id, "get_user_id"); err != nil {
		return sql.NullInt64{}, fmt.Errorf("resolve identity: %w", err)
	}
	return id, nil
}
