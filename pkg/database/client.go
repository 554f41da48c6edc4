package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// SessionHeader is the request header that carries the session token to row-level security.
const SessionHeader = "x-session-token"

const setHeadersQuery = `SELECT set_config('request.headers', $1, true)`

// Factory builds database clients bound to a session token.
type Factory struct {
	db *sqlx.DB
}

// NewFactory wraps a connection pool.
func NewFactory(db *sqlx.DB) *Factory {
	return &Factory{db: db}
}

// New returns a client that forwards token on every call. An empty token yields an
// unauthenticated client. The token is never inspected.
func (f *Factory) New(token string) *Client {
	return &Client{db: f.db, token: token}
}

// FromContext returns the client stored on ctx, or an unauthenticated one.
func (f *Factory) FromContext(ctx context.Context) *Client {
	if client, ok := ctx.Value(clientKey{}).(*Client); ok && client != nil {
		return client
	}
	return f.New("")
}

type clientKey struct{}

// NewContext attaches a request-scoped client to ctx.
func NewContext(ctx context.Context, client *Client) context.Context {
	return context.WithValue(ctx, clientKey{}, client)
}

// Client issues queries on behalf of one session.
type Client struct {
	db    *sqlx.DB
	token string
}

// Authenticated reports whether the client carries a session token.
func (c *Client) Authenticated() bool {
	return c != nil && c.token != ""
}

// Get scans a single row into dest.
func (c *Client) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.run(ctx, func(q sqlx.ExtContext) error {
		return sqlx.GetContext(ctx, q, dest, query, args...)
	})
}

// Select scans all rows into dest.
func (c *Client) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return c.run(ctx, func(q sqlx.ExtContext) error {
		return sqlx.SelectContext(ctx, q, dest, query, args...)
	})
}

// Exec runs a statement and returns the number of affected rows.
func (c *Client) Exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var affected int64
	err := c.run(ctx, func(q sqlx.ExtContext) error {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	return affected, err
}

// Call invokes a SQL function by name and scans its scalar result into dest.
// dest may be nil for functions whose result is irrelevant.
func (c *Client) Call(ctx context.Context, dest interface{}, fn string, args ...interface{}) error {
	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("SELECT %s(%s)", fn, strings.Join(placeholders, ", "))
	if dest == nil {
		var discard interface{}
		return c.run(ctx, func(q sqlx.ExtContext) error {
			row := q.QueryRowxContext(ctx, query, args...)
			if err := row.Scan(&discard); err != nil {
				return fmt.Errorf("call %s: %w", fn, err)
			}
			return nil
		})
	}
	if err := c.Get(ctx, dest, query, args...); err != nil {
		return fmt.Errorf("call %s: %w", fn, err)
	}
	return nil
}

// Transact runs fn inside one transaction so several statements commit together.
func (c *Client) Transact(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if c.Authenticated() {
		headers, err := json.Marshal(map[string]string{SessionHeader: c.token})
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("encode session headers: %w", err)
		}
		if _, err := tx.ExecContext(ctx, setHeadersQuery, string(headers)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("forward session header: %w", err)
		}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// run sends unauthenticated calls straight to the pool; the header is transaction-local
// so authenticated calls always get their own transaction.
func (c *Client) run(ctx context.Context, fn func(sqlx.ExtContext) error) error {
	if !c.Authenticated() {
		return fn(c.db)
	}
	return c.Transact(ctx, fn)
}
