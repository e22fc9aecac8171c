package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/strandlabs/strand/internal/core"
	"modernc.org/sqlite"
)

const (
	writeAttempts    = 5
	writeBackoffBase = 20 * time.Millisecond

	sqliteBusy             = 5
	sqliteLocked           = 6
	sqliteConstraint       = 19
	sqliteConstraintPK     = 1555
	sqliteConstraintUnique = 2067
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so query functions work
// standalone and inside write transactions.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// WriteTx runs fn inside one transaction, committing on success and
// rolling back on any error. A transaction that loses the write lock to
// another process is retried with bounded exponential backoff; exhausted
// retries surface as a contention error.
func WriteTx(conn *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(writeBackoffBase << uint(attempt-1))
		}
		lastErr = runTx(conn, fn)
		if lastErr == nil {
			return nil
		}
		if !isBusyError(lastErr) {
			return lastErr
		}
	}
	return core.Contentionf("write lock not acquired after %d attempts: %v", writeAttempts, lastErr)
}

func runTx(conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code() & 0xff
		return code == sqliteBusy || code == sqliteLocked
	}
	return false
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqliteConstraint || code == sqliteConstraintPK || code == sqliteConstraintUnique
	}
	return false
}
