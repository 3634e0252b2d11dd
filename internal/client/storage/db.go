// Package storage opens the local SQLite cache, applies the embedded goose
// migrations and hands out the repositories bound to it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/mark3t-rep/internal/client/migrations"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/labels"
	"github.com/dmitrijs2005/mark3t-rep/internal/client/repositories/submissions"
	"github.com/dmitrijs2005/mark3t-rep/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	DB          *sql.DB
	Labels      labels.Repository
	Submissions submissions.Repository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// InitDatabase opens the database at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:          db,
		Labels:      labels.NewSQLiteRepository(db),
		Submissions: submissions.NewSQLiteRepository(db),
	}, nil
}

// Reset drops every cached label and journaled submission atomically.
func (r *Repositories) Reset(ctx context.Context) error {
	return dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := labels.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return submissions.NewSQLiteRepository(tx).Clear(ctx)
	})
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}
