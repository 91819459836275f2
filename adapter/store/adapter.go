package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

type Adapter struct {
	db     *sql.DB
	logger *zap.Logger
}

type Option func(*Adapter)

func New(db *sql.DB, options ...Option) *Adapter {
	a := &Adapter{
		db:     db,
		logger: zap.NewNop(),
	}

	for _, o := range options {
		o(a)
	}

	a.logger.Sugar().Info("init sqlite store adapter")

	return a
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

type Scannable interface {
	Scan(dest ...any) error
}

type Query interface {
	SQL() (string, []any)
}

func execQueryCheckRowsAffected(ctx context.Context, tx *sql.Tx, q Query) error {
	sql, args := q.SQL()
	stmt, err := tx.PrepareContext(ctx, sql)
	if err != nil {
		return fmt.Errorf("prepare statement failed: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return fmt.Errorf("exec context failed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected failed: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no rows affected")
	}

	return nil
}
