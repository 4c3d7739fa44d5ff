package repository

import (
	"strings"
	"testing"

	"example.com/pocket-ledger/backend/internal/textparse"
)

// TestDefaultCategoriesCoverParserTags проверяет, что каждая встроенная метка
// парсера находит категорию в стартовом наборе.
func TestDefaultCategoriesCoverParserTags(t *testing.T) {
	for _, tag := range textparse.BuiltinTags() {
		found := false
		for _, dc := range defaultCategories {
			if strings.EqualFold(dc.name, tag) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected default category for tag %s", tag)
		}
	}
}

// TestDefaultCategoriesUnique проверяет отсутствие дублей в стартовом наборе.
func TestDefaultCategoriesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, dc := range defaultCategories {
		key := strings.ToLower(dc.name)
		if seen[key] {
			t.Fatalf("duplicate default category %s", dc.name)
		}
		seen[key] = true

		if dc.name == "" || dc.icon == "" {
			t.Fatalf("default category with empty name or icon: %+v", dc)
		}
	}
}
