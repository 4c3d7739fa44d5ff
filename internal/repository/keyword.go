package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/pocket-ledger/backend/internal/models"
)

// KeywordRepository хранит выученные подсказки категорий для парсера.
type KeywordRepository struct {
	db *pgxpool.Pool
}

func NewKeywordRepository(db *pgxpool.Pool) *KeywordRepository {
	return &KeywordRepository{db: db}
}

const keywordColumns = "id, user_id, keyword, category, created_at"

// Upsert сохраняет ключевое слово; повторное обучение меняет категорию,
// но не created_at, чтобы порядок приоритета оставался стабильным.
func (r *KeywordRepository) Upsert(ctx context.Context, userID uuid.UUID, keyword, category string) (models.ParseKeyword, error) {
	var entry models.ParseKeyword

	err := r.db.QueryRow(ctx, `
		INSERT INTO parse_keywords (user_id, keyword, category)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, keyword) DO UPDATE SET category = EXCLUDED.category
		RETURNING `+keywordColumns,
		userID, keyword, category,
	).Scan(&entry.ID, &entry.UserID, &entry.Keyword, &entry.Category, &entry.CreatedAt)
	if err != nil {
		return models.ParseKeyword{}, err
	}

	return entry, nil
}

func (r *KeywordRepository) Delete(ctx context.Context, userID uuid.UUID, keyword string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM parse_keywords
		WHERE user_id = $1 AND keyword = $2`,
		userID, keyword,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List возвращает ключевые слова в порядке обучения: свежие важнее встроенных,
// но между собой сохраняют очередность добавления.
func (r *KeywordRepository) List(ctx context.Context, userID uuid.UUID) ([]models.ParseKeyword, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+keywordColumns+`
		FROM parse_keywords
		WHERE user_id = $1
		ORDER BY created_at, keyword`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.ParseKeyword, 0)

	for rows.Next() {
		var entry models.ParseKeyword

		err := rows.Scan(&entry.ID, &entry.UserID, &entry.Keyword, &entry.Category, &entry.CreatedAt)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

