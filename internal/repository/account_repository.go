package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/advisor-assessment/internal/models"
	"github.com/noah-isme/advisor-assessment/pkg/database"
)

// AccountRepository provides access to login accounts and their sessions.
type AccountRepository struct {
	clients *database.Factory
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(clients *database.Factory) *AccountRepository {
	return &AccountRepository{clients: clients}
}

// FindByUsername returns an account by username. It runs before any session exists.
func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	const query = `SELECT account_id, username, password_hash, role_id, active FROM accounts WHERE username = $1 LIMIT 1`
	var account models.Account
	if err := r.clients.New("").Get(ctx, &account, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find account by username: %w", err)
	}
	return &account, nil
}

// CreateSession persists a newly issued session token.
func (r *AccountRepository) CreateSession(ctx context.Context, s *models.Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO sessions (session_id, account_id, token, expires_at, created_at, ip_address, user_agent) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.clients.New("").Exec(ctx, query, s.ID, s.AccountID, s.Token, s.ExpiresAt, s.CreatedAt, s.IPAddress, s.UserAgent); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// DeleteSession removes the session identified by token, acting as that session.
func (r *AccountRepository) DeleteSession(ctx context.Context, token string) error {
	const query = `DELETE FROM sessions WHERE token = $1`
	if _, err := r.clients.New(token).Exec(ctx, query, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
