package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"color-quiz-service/internal/domain"
	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Open opens (creating if needed) the database file and applies the schema.
// Transactions take the write lock up front so bootstrap transitions serialize.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=1&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, domain.StorageError("open sqlite", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, domain.StorageError("ping sqlite", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, domain.StorageError("apply sqlite schema", err)
	}
	log.Printf("sqlite database ready at %s", path)
	return db, nil
}

// Truncate empties every table.
func Truncate(ctx context.Context, db *sql.DB) error {
	return withTx(ctx, db, func(tx *sql.Tx) error {
		for _, table := range []string{"questions", "quiz_results", "admins"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return domain.StorageError("truncate "+table, err)
			}
		}
		return nil
	})
}

func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StorageError("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.StorageError("commit tx", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		return time.Time{}, domain.StorageError("parse timestamp", err)
	}
	return t.UTC(), nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
