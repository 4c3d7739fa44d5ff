package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

// maxListRows ограничивает любую выборку операций; аналитика считается по
// срезу не длиннее этого лимита.
const maxListRows = 2000

type TransactionRepository struct {
	db *pgxpool.Pool
}

type TransactionInput struct {
	Amount     decimal.Decimal
	Type       models.TransactionType
	CategoryID *uuid.UUID
	Date       time.Time
	Note       string
	Currency   string
}

type TransactionFilter struct {
	From       *time.Time
	To         *time.Time
	Type       *models.TransactionType
	CategoryID *uuid.UUID
	Limit      int
}

const transactionColumns = `id, user_id, amount, type, category_id, date, note, currency, created_at, updated_at`

// NewTransactionRepository создает репозиторий операций.
func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create создает операцию пользователя.
func (r *TransactionRepository) Create(ctx context.Context, userID uuid.UUID, in TransactionInput) (models.Transaction, error) {
	var tx models.Transaction

	err := r.db.QueryRow(ctx,
		`INSERT INTO transactions (user_id, amount, type, category_id, date, note, currency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+transactionColumns,
		userID, in.Amount, in.Type, in.CategoryID, in.Date, in.Note, in.Currency,
	).Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.CategoryID, &tx.Date, &tx.Note, &tx.Currency, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return tx, ErrInvalid
		}
		return tx, err
	}

	return tx, nil
}

// Update обновляет операцию пользователя.
func (r *TransactionRepository) Update(ctx context.Context, userID, txID uuid.UUID, in TransactionInput) (models.Transaction, error) {
	var tx models.Transaction

	err := r.db.QueryRow(ctx,
		`UPDATE transactions
		 SET amount = $3,
		     type = $4,
		     category_id = $5,
		     date = $6,
		     note = $7,
		     currency = $8,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+transactionColumns,
		txID, userID, in.Amount, in.Type, in.CategoryID, in.Date, in.Note, in.Currency,
	).Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.CategoryID, &tx.Date, &tx.Note, &tx.Currency, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tx, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return tx, ErrInvalid
		}
		return tx, err
	}

	return tx, nil
}

// Delete удаляет операцию пользователя.
func (r *TransactionRepository) Delete(ctx context.Context, userID, txID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM transactions
		 WHERE id = $1 AND user_id = $2`,
		txID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает операцию пользователя по идентификатору.
func (r *TransactionRepository) GetByID(ctx context.Context, userID, txID uuid.UUID) (models.Transaction, error) {
	var tx models.Transaction

	err := r.db.QueryRow(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions
		 WHERE id = $1 AND user_id = $2`,
		txID, userID,
	).Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.CategoryID, &tx.Date, &tx.Note, &tx.Currency, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tx, ErrNotFound
		}
		return tx, err
	}

	return tx, nil
}

// List возвращает операции пользователя по фильтру, новые первыми.
// Лимит всегда зажимается в пределах maxListRows.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
	 FROM transactions
	 WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 || limit > maxListRows {
		limit = maxListRows
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction

		err := rows.Scan(&tx.ID, &tx.UserID, &tx.Amount, &tx.Type, &tx.CategoryID, &tx.Date, &tx.Note, &tx.Currency, &tx.CreatedAt, &tx.UpdatedAt)
		if err != nil {
			return nil, err
		}

		txns = append(txns, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return txns, nil
}

// ListInRange возвращает операции пользователя в границах периода.
func (r *TransactionRepository) ListInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]models.Transaction, error) {
	if to.Before(from) {
		return nil, ErrInvalid
	}
	return r.List(ctx, userID, TransactionFilter{From: &from, To: &to})
}
