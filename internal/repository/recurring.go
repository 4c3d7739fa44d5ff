package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

type RecurringRepository struct {
	db *pgxpool.Pool
}

type RecurringInput struct {
	Amount     decimal.Decimal
	Type       models.TransactionType
	CategoryID *uuid.UUID
	Note       string
	Currency   string
	Frequency  models.Frequency
	StartDate  time.Time
	EndDate    *time.Time
	IsActive   bool
}

const recurringColumns = `id, user_id, amount, type, category_id, note, currency, frequency, start_date, end_date, is_active, created_at, updated_at`

// NewRecurringRepository создает репозиторий регулярных операций.
func NewRecurringRepository(db *pgxpool.Pool) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func scanRecurring(row pgx.Row) (models.RecurringTransaction, error) {
	var rec models.RecurringTransaction

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Amount, &rec.Type, &rec.CategoryID,
		&rec.Note, &rec.Currency, &rec.Frequency, &rec.StartDate, &rec.EndDate,
		&rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

// Create создает регулярную операцию пользователя.
func (r *RecurringRepository) Create(ctx context.Context, userID uuid.UUID, in RecurringInput) (models.RecurringTransaction, error) {
	rec, err := scanRecurring(r.db.QueryRow(ctx,
		`INSERT INTO recurring_transactions (user_id, amount, type, category_id, note, currency, frequency, start_date, end_date, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+recurringColumns,
		userID, in.Amount, in.Type, in.CategoryID, in.Note, in.Currency, in.Frequency, in.StartDate, in.EndDate, in.IsActive,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return rec, ErrInvalid
		}
		return rec, err
	}

	return rec, nil
}

// Update обновляет регулярную операцию пользователя.
func (r *RecurringRepository) Update(ctx context.Context, userID, recID uuid.UUID, in RecurringInput) (models.RecurringTransaction, error) {
	rec, err := scanRecurring(r.db.QueryRow(ctx,
		`UPDATE recurring_transactions
		 SET amount = $3,
		     type = $4,
		     category_id = $5,
		     note = $6,
		     currency = $7,
		     frequency = $8,
		     start_date = $9,
		     end_date = $10,
		     is_active = $11,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+recurringColumns,
		recID, userID, in.Amount, in.Type, in.CategoryID, in.Note, in.Currency, in.Frequency, in.StartDate, in.EndDate, in.IsActive,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return rec, ErrInvalid
		}
		return rec, err
	}

	return rec, nil
}

// Delete удаляет регулярную операцию пользователя.
func (r *RecurringRepository) Delete(ctx context.Context, userID, recID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM recurring_transactions
		 WHERE id = $1 AND user_id = $2`,
		recID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает регулярную операцию пользователя по идентификатору.
func (r *RecurringRepository) GetByID(ctx context.Context, userID, recID uuid.UUID) (models.RecurringTransaction, error) {
	rec, err := scanRecurring(r.db.QueryRow(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_transactions
		 WHERE id = $1 AND user_id = $2`,
		recID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rec, ErrNotFound
		}
		return rec, err
	}

	return rec, nil
}

// List возвращает регулярные операции пользователя, новые первыми.
func (r *RecurringRepository) List(ctx context.Context, userID uuid.UUID) ([]models.RecurringTransaction, error) {
	return r.list(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
}

// ListActive возвращает только активные регулярные операции пользователя.
func (r *RecurringRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]models.RecurringTransaction, error) {
	return r.list(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_transactions
		 WHERE user_id = $1 AND is_active
		 ORDER BY start_date`,
		userID,
	)
}

func (r *RecurringRepository) list(ctx context.Context, query string, userID uuid.UUID) ([]models.RecurringTransaction, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]models.RecurringTransaction, 0)
	for rows.Next() {
		rec, err := scanRecurring(rows)
		if err != nil {
			return nil, err
		}

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return recs, nil
}
