package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/advisor-assessment/pkg/database"
)

func newMockFactory(t *testing.T) (*database.Factory, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return database.NewFactory(sqlx.NewDb(db, "sqlmock")), mock, func() {
		db.Close()
	}
}

// sessionContext returns a context carrying a client bound to token and primes mock
// with the transaction prologue that forwards the session header.
func sessionContext(factory *database.Factory, mock sqlmock.Sqlmock, token string) context.Context {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT set_config('request.headers', $1, true)")).
		WithArgs(`{"x-session-token":"` + token + `"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	return database.NewContext(context.Background(), factory.New(token))
}
