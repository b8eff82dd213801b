package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/apperrors"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/logger"
)

// BalanceRepository handles point balance operations. Balances are rows owned
// by the ledger; credit and debit are single atomic UPDATEs so concurrent
// settlements cannot produce lost updates.
type BalanceRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewBalanceRepository creates a new BalanceRepository
func NewBalanceRepository(db *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetBalance returns the current point balance for a user
func (r *BalanceRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.sb.Select("points_balance").
		From("users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build get balance query: %w", err)
	}

	var balance int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning balance row")
		return 0, fmt.Errorf("error retrieving balance: %w", err)
	}

	return balance, nil
}

// Credit adds points to a user's balance inside an open transaction
func (r *BalanceRepository) Credit(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	if amount <= 0 {
		return apperrors.NewValidationError("credit amount must be positive")
	}

	sql, args, err := r.sb.Update("users").
		Set("points_balance", squirrel.Expr("points_balance + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build credit balance query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error crediting balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}

// Debit removes points from a user's balance inside an open transaction. The
// update is conditional on a sufficient balance; zero affected rows for an
// existing user means insufficient points and the caller must roll back.
func (r *BalanceRepository) Debit(ctx context.Context, tx pgx.Tx, userID, amount int64) error {
	if amount <= 0 {
		return apperrors.NewValidationError("debit amount must be positive")
	}

	sql, args, err := r.sb.Update("users").
		Set("points_balance", squirrel.Expr("points_balance - ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}).
		Where(squirrel.GtOrEq{"points_balance": amount}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build debit balance query: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error debiting balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing user from an underfunded one
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", userID).Scan(&exists); err != nil {
			return fmt.Errorf("error checking user existence: %w", err)
		}
		if !exists {
			return apperrors.ErrUserNotFound
		}
		return apperrors.ErrInsufficientPoints
	}

	return nil
}
