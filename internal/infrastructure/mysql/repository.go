package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"walletdash/internal/application"
	"walletdash/internal/domain"

	_ "github.com/go-sql-driver/mysql"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Repository is the MySQL action journal.
type Repository struct {
	db *sql.DB
}

func NewRepository(dsn string) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("db dsn is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			account VARCHAR(42) NOT NULL,
			action VARCHAR(16) NOT NULL,
			argument VARCHAR(96) NOT NULL,
			tx_hash VARCHAR(66) NOT NULL DEFAULT '',
			status VARCHAR(16) NOT NULL,
			block_number BIGINT UNSIGNED NOT NULL DEFAULT 0,
			last_error TEXT NULL,
			created_at DATETIME(3) NOT NULL,
			updated_at DATETIME(3) NOT NULL,
			PRIMARY KEY (id),
			KEY actions_account_idx (account, id),
			KEY actions_tx_idx (tx_hash)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) StoreAction(ctx context.Context, record domain.ActionRecord) (int64, error) {
	ctx, span := startDBSpan(ctx, "mysql.StoreAction",
		attribute.String("action", string(record.Kind)),
		attribute.String("account", strings.ToLower(record.Account)),
	)
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = record.CreatedAt
	}
	result, err := r.db.ExecContext(ctx, "INSERT INTO actions (account, action, argument, tx_hash, status, block_number, last_error, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		strings.ToLower(record.Account),
		string(record.Kind),
		record.Argument,
		record.TxHash,
		string(record.Status),
		record.BlockNumber,
		record.Error,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return result.LastInsertId()
}

func (r *Repository) UpdateAction(ctx context.Context, id int64, status domain.ActionStatus, txHash string, blockNumber uint64, errMsg string) error {
	ctx, span := startDBSpan(ctx, "mysql.UpdateAction",
		attribute.Int64("action.id", id),
		attribute.String("status", string(status)),
	)
	defer span.End()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, "UPDATE actions SET status = ?, tx_hash = IF(? = '', tx_hash, ?), block_number = ?, last_error = ?, updated_at = ? WHERE id = ?",
		string(status), txHash, txHash, blockNumber, errMsg, time.Now().UTC(), id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

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

	query := "SELECT id, account, action, argument, tx_hash, status, block_number, COALESCE(last_error, ''), created_at, updated_at FROM actions"
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
			record domain.ActionRecord
			kind   string
			status string
		)
		if err := rows.Scan(&record.ID, &record.Account, &kind, &record.Argument, &record.TxHash, &status, &record.BlockNumber, &record.Error, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, err
		}
		record.Kind = domain.ActionKind(kind)
		record.Status = domain.ActionStatus(status)
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

func startDBSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", "mysql"))
	return otel.Tracer("walletdash/mysql").Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
}
