package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/pocket-ledger/backend/internal/models"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

type CategoryInput struct {
	Name      string
	Type      models.TransactionType
	Icon      string
	SortOrder int
}

type defaultCategory struct {
	name  string
	ctype models.TransactionType
	icon  string
}

// Стартовый набор категорий нового пользователя. Названия трат совпадают
// с подсказками текстового парсера, чтобы разбор сразу попадал в категорию.
var defaultCategories = []defaultCategory{
	{"Food", models.TransactionTypeExpense, "🍚"},
	{"Cafe", models.TransactionTypeExpense, "☕"},
	{"Groceries", models.TransactionTypeExpense, "🛒"},
	{"Transport", models.TransactionTypeExpense, "🚌"},
	{"Shopping", models.TransactionTypeExpense, "🛍️"},
	{"Entertainment", models.TransactionTypeExpense, "🎬"},
	{"Health", models.TransactionTypeExpense, "💊"},
	{"Housing", models.TransactionTypeExpense, "🏠"},
	{"Utilities", models.TransactionTypeExpense, "💡"},
	{"Communication", models.TransactionTypeExpense, "📱"},
	{"Other", models.TransactionTypeExpense, "📦"},
	{"Salary", models.TransactionTypeIncome, "💰"},
	{"Allowance", models.TransactionTypeIncome, "🎁"},
	{"Other Income", models.TransactionTypeIncome, "💵"},
}

const categoryColumns = `id, user_id, name, type, icon, sort_order, created_at`

// NewCategoryRepository создает репозиторий категорий.
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create создает категорию пользователя.
func (r *CategoryRepository) Create(ctx context.Context, userID uuid.UUID, in CategoryInput) (models.Category, error) {
	var cat models.Category

	err := r.db.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, type, icon, sort_order)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+categoryColumns,
		userID, in.Name, in.Type, in.Icon, in.SortOrder,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Icon, &cat.SortOrder, &cat.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return cat, ErrConflict
		}
		return cat, err
	}

	return cat, nil
}

// CreateDefaults создает стартовый набор категорий для нового пользователя.
func (r *CategoryRepository) CreateDefaults(ctx context.Context, userID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for i, dc := range defaultCategories {
		_, err := tx.Exec(ctx,
			`INSERT INTO categories (user_id, name, type, icon, sort_order)
			 VALUES ($1, $2, $3, $4, $5)`,
			userID, dc.name, dc.ctype, dc.icon, i,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Update обновляет категорию пользователя.
func (r *CategoryRepository) Update(ctx context.Context, userID, catID uuid.UUID, in CategoryInput) (models.Category, error) {
	var cat models.Category

	err := r.db.QueryRow(ctx,
		`UPDATE categories
		 SET name = $3,
		     type = $4,
		     icon = $5,
		     sort_order = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+categoryColumns,
		catID, userID, in.Name, in.Type, in.Icon, in.SortOrder,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Icon, &cat.SortOrder, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cat, ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return cat, ErrConflict
		}
		return cat, err
	}

	return cat, nil
}

// Delete удаляет категорию пользователя. Операции категории остаются
// без категории (внешний ключ с ON DELETE SET NULL).
func (r *CategoryRepository) Delete(ctx context.Context, userID, catID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx,
		`DELETE FROM categories
		 WHERE id = $1 AND user_id = $2`,
		catID, userID,
	)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID возвращает категорию пользователя по идентификатору.
func (r *CategoryRepository) GetByID(ctx context.Context, userID, catID uuid.UUID) (models.Category, error) {
	var cat models.Category

	err := r.db.QueryRow(ctx,
		`SELECT `+categoryColumns+`
		 FROM categories
		 WHERE id = $1 AND user_id = $2`,
		catID, userID,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Icon, &cat.SortOrder, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cat, ErrNotFound
		}
		return cat, err
	}

	return cat, nil
}

// List возвращает категории пользователя в порядке сортировки.
func (r *CategoryRepository) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+categoryColumns+`
		 FROM categories
		 WHERE user_id = $1
		 ORDER BY sort_order, name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]models.Category, 0)
	for rows.Next() {
		var cat models.Category

		err := rows.Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Icon, &cat.SortOrder, &cat.CreatedAt)
		if err != nil {
			return nil, err
		}

		cats = append(cats, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cats, nil
}

// FindByName возвращает категорию пользователя по имени без учета регистра.
func (r *CategoryRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (models.Category, error) {
	var cat models.Category

	err := r.db.QueryRow(ctx,
		`SELECT `+categoryColumns+`
		 FROM categories
		 WHERE user_id = $1 AND LOWER(name) = LOWER($2)`,
		userID, name,
	).Scan(&cat.ID, &cat.UserID, &cat.Name, &cat.Type, &cat.Icon, &cat.SortOrder, &cat.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cat, ErrNotFound
		}
		return cat, err
	}

	return cat, nil
}
