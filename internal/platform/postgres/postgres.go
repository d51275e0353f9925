// Package postgres opens the call-log database.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"tcubridge/pkg/platform/privacy"
)

// Open connects to dsn and verifies the connection. The DSN is kept out of
// returned errors since it usually carries a password.
func Open(ctx context.Context, dsn privacy.Secret) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn.Reveal())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %s", privacy.Redact(err.Error(), dsn))
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %s", privacy.Redact(err.Error(), dsn))
	}
	return db, nil
}
