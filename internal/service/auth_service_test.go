package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/advisor-assessment/internal/models"
	appErrors "github.com/noah-isme/advisor-assessment/pkg/errors"
)

type mockAccountRepo struct {
	account   *models.Account
	findErr   error
	sessions  []*models.Session
	createErr error
	deleted   []string
	deleteErr error
}

func (m *mockAccountRepo) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.account == nil || m.account.Username != username {
		return nil, sql.ErrNoRows
	}
	return m.account, nil
}

func (m *mockAccountRepo) CreateSession(ctx context.Context, s *models.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *mockAccountRepo) DeleteSession(ctx context.Context, token string) error {
	m.deleted = append(m.deleted, token)
	return m.deleteErr
}

func newAuthFixture(t *testing.T, active bool, roleID int64) (*AuthService, *mockAccountRepo) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAccountRepo{account: &models.Account{ID: "acc-1", Username: "somchai", PasswordHash: string(hash), RoleID: roleID, Active: active}}
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{SessionTTL: time.Hour}), repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, repo := newAuthFixture(t, true, 3)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "somchai", Password: "s3cret", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.Role)
	assert.NotEmpty(t, res.Token)

	require.Len(t, repo.sessions, 1)
	s := repo.sessions[0]
	assert.Equal(t, res.Token, s.Token)
	assert.Equal(t, "acc-1", s.AccountID)
	assert.Equal(t, "10.0.0.1", s.IPAddress)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, time.Minute)
}

func TestAuthServiceTokensAreUnique(t *testing.T) {
	svc, _ := newAuthFixture(t, true, 1)
	first, err := svc.Login(context.Background(), models.LoginRequest{Username: "somchai", Password: "s3cret"})
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), models.LoginRequest{Username: "somchai", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	cases := []struct {
		name   string
		active bool
		roleID int64
		req    models.LoginRequest
		status int
	}{
		{"wrong password", true, 1, models.LoginRequest{Username: "somchai", Password: "nope"}, http.StatusUnauthorized},
		{"unknown user", true, 1, models.LoginRequest{Username: "ghost", Password: "s3cret"}, http.StatusUnauthorized},
		{"inactive", false, 1, models.LoginRequest{Username: "somchai", Password: "s3cret"}, http.StatusUnauthorized},
		{"no portal role", true, 7, models.LoginRequest{Username: "somchai", Password: "s3cret"}, http.StatusUnauthorized},
		{"missing password", true, 1, models.LoginRequest{Username: "somchai"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newAuthFixture(t, tc.active, tc.roleID)
			_, err := svc.Login(context.Background(), tc.req)
			var appErr *appErrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Empty(t, repo.sessions)
		})
	}
}

func TestAuthServiceLoginStoreFailure(t *testing.T) {
	svc, repo := newAuthFixture(t, true, 1)
	repo.findErr = errors.New("db down")

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "somchai", Password: "s3cret"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestAuthServiceLogoutIsBestEffort(t *testing.T) {
	svc, repo := newAuthFixture(t, true, 1)
	repo.deleteErr = errors.New("db down")

	assert.NotPanics(t, func() { svc.Logout(context.Background(), "tok") })
	svc.Logout(context.Background(), "")
	assert.Equal(t, []string{"tok"}, repo.deleted)
}
