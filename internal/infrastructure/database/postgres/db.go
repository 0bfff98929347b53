package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"loan-backoffice/internal/infrastructure/monitoring"
	"loan-backoffice/internal/pkg/apperrors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPool is the part of *pgxpool.Pool the repositories use.
type DBPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ DBPool = (*pgxpool.Pool)(nil)

//go:embed schema.sql
var schemaSQL string

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNumericOutOfRange   = "22003"
)

var errMsgFormat = "%w: %w"

// constraintFields maps foreign keys to the request field that carries the offending id.
var constraintFields = map[string]string{
	"loan_applications_customer_id_fkey": "customer_id",
	"guarantor_loan_customer_id_fkey":    "guarantors",
	"guarantor_loan_loan_id_fkey":        "loan_id",
	"loan_repayments_loan_id_fkey":       "loan_id",
}

// ApplySchema creates the tables and indexes if they are missing.
func ApplySchema(ctx context.Context, db DBPool, logger *slog.Logger) error {
	logger.Info("Applying database schema")
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		logger.Error("Failed to apply database schema", "error", err)
		return fmt.Errorf("%w: failed to apply schema: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func withTx(ctx context.Context, db DBPool, logger *slog.Logger, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to begin transaction", "error", err)
		return fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrDatabase, err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to commit transaction", "error", err)
		return fmt.Errorf("%w: failed to commit transaction: %w", apperrors.ErrDatabase, err)
	}
	return nil
}

func observe(queryName string, start time.Time, err error) {
	status := "success"
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		status = "error"
	}
	monitoring.RecordDBQuery(queryName, status, time.Since(start))
}

func translateDBError(err error, contextLogger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			contextLogger.Warn("Database unique constraint violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyExists, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			contextLogger.Warn("Database foreign key violation", "detail", pgErr.Detail, "constraint", pgErr.ConstraintName)
			field, ok := constraintFields[pgErr.ConstraintName]
			if !ok {
				field = pgErr.ColumnName
			}
			return apperrors.NewConstraintError(field, pgErr.ConstraintName, "references a record that does not exist")
		case pgNumericOutOfRange:
			contextLogger.Warn("Database numeric value out of range", "detail", pgErr.Detail, "column", pgErr.ColumnName)
			field := pgErr.ColumnName
			if field == "" {
				field = "amount"
			}
			return apperrors.NewValidationError(field, "is too large to store")
		}

		contextLogger.Error("PostgreSQL specific error", "code", pgErr.Code, "message", pgErr.Message, "detail", pgErr.Detail)
		return fmt.Errorf("%w: db error code %s", apperrors.ErrDatabase, pgErr.Code)
	}

	contextLogger.Error("Generic database error", "error", err)
	return fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
}
