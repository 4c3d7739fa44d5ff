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

type BudgetRepository struct {
	db *pgxpool.Pool
}

type BudgetInput struct {
	Name       string
	Amount     decimal.Decimal
	Period     models.BudgetPeriod
	CategoryID *uuid.UUID
	StartDate  time.Time
}

const budgetColumns = `id, user_id, name, amount, period, category_id, start_date, created_at, updated_at`

// NewBudgetRepository создает репозиторий бюджетов.
func NewBudgetRepository(db *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// Create создает бюджет пользователя.
func (r *BudgetRepository) Create(ctx context.Context, userID uuid.UUID, in BudgetInput) (models.Budget, error) {
	var b models.Budget

	err := r.db.QueryRow(ctx,
		`INSERT INTO budgets (user_id, name, amount, period, category_id, start_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+budgetColumns,
		userID, in.Name, in.Amount, in.Period, in.CategoryID, in.StartDate,
	).Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CategoryID, &b.StartDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return b, ErrInvalid
		}
		return b, err
	}

	return b, nil
}

// Update обновляет бюджет пользователя.
func (r *BudgetRepository) Update(ctx context.Context, userID, budgetID uuid.UUID, in BudgetInput) (models.Budget, error) {
	var b models.Budget

	err := r.db.QueryRow(ctx,
		`UPDATE budgets
		 SET name = $3,
		     amount = $4,
		     period = $5,
		     category_id = $6,
		     start_date = $7,
		     updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+budgetColumns,
		budgetID, userID, in.Name, in.Amount, in.Period, in.CategoryID, in.StartDate,
	).Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CategoryID, &b.StartDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return b, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return b, ErrInvalid
		}
		return b, err
	}

	return b, nil
}

// Delete удаляет бюджет пользователя.
func (r *BudgetRepository) Delete(ctx context.Context, userID, budgetID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM budgets
		 WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает бюджет пользователя по идентификатору.
func (r *BudgetRepository) GetByID(ctx context.Context, userID, budgetID uuid.UUID) (models.Budget, error) {
	var b models.Budget

	err := r.db.QueryRow(ctx,
		`SELECT `+budgetColumns+`
		 FROM budgets
		 WHERE id = $1 AND user_id = $2`,
		budgetID, userID,
	).Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CategoryID, &b.StartDate, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return b, ErrNotFound
		}
		return b, err
	}

	return b, nil
}

// List возвращает бюджеты пользователя, новые первыми.
func (r *BudgetRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+budgetColumns+`
		 FROM budgets
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]models.Budget, 0)
	for rows.Next() {
		var b models.Budget

		err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Period, &b.CategoryID, &b.StartDate, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}

		budgets = append(budgets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return budgets, nil
}
