package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"walletdash/internal/application"
	"walletdash/internal/domain"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite action journal.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if dbPath == "" {
		return nil, errors.New("db path is required")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// A single writer avoids SQLITE_BUSY between concurrent actions.
	db.SetMaxOpenConns(1)
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account TEXT NOT NULL,
			action TEXT NOT NULL,
			argument TEXT NOT NULL,
			tx_hash TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			block_number INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS actions_account_idx ON actions (account, id)`,
		`CREATE INDEX IF NOT EXISTS actions_tx_idx ON actions (tx_hash)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) StoreAction(ctx context.Context, record domain.ActionRecord) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
	result, err := r.db.ExecContext(ctx, `INSERT INTO actions (account, action, argument, tx_hash, status, block_number, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.ToLower(record.Account),
		string(record.Kind),
		record.Argument,
		record.TxHash,
		string(record.Status),
		record.BlockNumber,
		record.Error,
		record.CreatedAt.UnixMilli(),
		record.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (r *Repository) UpdateAction(ctx context.Context, id int64, status domain.ActionStatus, txHash string, blockNumber uint64, errMsg string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `UPDATE actions
		SET status = ?, tx_hash = CASE WHEN ? = '' THEN tx_hash ELSE ? END, block_number = ?, error = ?, updated_at = ?
		WHERE id = ?`,
		string(status), txHash, txHash, blockNumber, errMsg, time.Now().UTC().UnixMilli(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("action %d not found", id)
	}
	return nil
}

// QueryActions returns the newest actions first.
func (r *Repository) QueryActions(ctx context.Context, filter application.ActionQueryFilter) ([]domain.ActionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	clauses := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if filter.Account != "" {
		clauses = append(clauses, "account = ?")
		args = append(args, strings.ToLower(filter.Account))
	}
	if filter.TxHash != "" {
		clauses = append(clauses, "tx_hash = ?")
		args = append(args, filter.TxHash)
	}

	query := `SELECT id, account, action, argument, tx_hash, status, block_number, error, created_at, updated_at FROM actions`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, application.NormalizeActionLimit(filter.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ActionRecord
	for rows.Next() {
		var (
			record    domain.ActionRecord
			kind      string
			status    string
			createdAt int64
			updatedAt int64
		)
		if err := rows.Scan(&record.ID, &record.Account, &kind, &record.Argument, &record.TxHash, &status, &record.BlockNumber, &record.Error, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		record.Kind = domain.ActionKind(kind)
		record.Status = domain.ActionStatus(status)
		record.CreatedAt = time.UnixMilli(createdAt).UTC()
		record.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *Repository) Close() error {
	return r.db.Close()
}
