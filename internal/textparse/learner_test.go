package textparse

import (
	"sync"
	"testing"
)

// TestLearnerPriorityOverBuiltin проверяет приоритет выученных ключей над
// встроенной таблицей.
func TestLearnerPriorityOverBuiltin(t *testing.T) {
	learner := NewLearner()
	learner.Learn("커피", "beverage")

	tag, ok := ResolveCategory("커피 5000원", learner)
	if !ok || tag != "beverage" {
		t.Fatalf("expected the learned tag, got %q (%v)", tag, ok)
	}

	tag, ok = ResolveCategory("버스 1500원", learner)
	if !ok || tag != "transport" {
		t.Fatalf("expected the builtin table fallback, got %q (%v)", tag, ok)
	}
}

// TestLearnerOrder проверяет, что выигрывает раньше выученный ключ.
func TestLearnerOrder(t *testing.T) {
	learner := NewLearner()
	learner.Learn("мега", "shopping")
	learner.Learn("маркет", "groceries")

	tag, ok := learner.Suggest("мегамаркет 3000")
	if !ok || tag != "shopping" {
		t.Fatalf("expected the earlier keyword to win, got %q (%v)", tag, ok)
	}
}

// TestLearnerRelearnAndForget проверяет замену метки и удаление ключа.
func TestLearnerRelearnAndForget(t *testing.T) {
	learner := NewLearner()
	learner.Learn("gym", "health")
	learner.Learn("GYM", "sport")

	tag, ok := learner.Suggest("gym membership 30000")
	if !ok || tag != "sport" {
		t.Fatalf("expected the replaced tag, got %q (%v)", tag, ok)
	}

	entries := learner.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(entries))
	}

	learner.Forget("gym")
	if _, ok := learner.Suggest("gym membership 30000"); ok {
		t.Fatal("expected the keyword to be forgotten")
	}
}

// TestLearnerConcurrent проверяет безопасность конкурентного доступа.
func TestLearnerConcurrent(t *testing.T) {
	learner := NewLearner()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			learner.Learn("운동", "health")
		}()
		go func() {
			defer wg.Done()
			learner.Suggest("운동 센터 99000")
		}()
	}
	wg.Wait()

	if tag, ok := learner.Suggest("운동 센터 99000"); !ok || tag != "health" {
		t.Fatalf("expected the learned tag after concurrent access, got %q (%v)", tag, ok)
	}
}
