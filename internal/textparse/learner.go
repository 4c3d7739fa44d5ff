package textparse

import (
	"strings"
	"sync"
)

type LearnedKeyword struct {
	Keyword string `json:"keyword"`
	Tag     string `json:"tag"`
}

// Learner хранит выученные пользователем связки ключевого слова с меткой
// категории. Поиск идет в порядке добавления, первое вхождение выигрывает,
// как и у встроенной таблицы. Безопасен для конкурентного доступа.
type Learner struct {
	mu      sync.RWMutex
	order   []string
	entries map[string]string
}

func NewLearner() *Learner {
	return &Learner{entries: make(map[string]string)}
}

// Learn запоминает связку. Повторное обучение ключа заменяет метку,
// сохраняя позицию ключа в порядке поиска.
func (l *Learner) Learn(keyword, tag string) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	tag = strings.TrimSpace(tag)
	if keyword == "" || tag == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[keyword]; !ok {
		l.order = append(l.order, keyword)
	}
	l.entries[keyword] = tag
}

// Suggest возвращает метку первого выученного ключа, найденного в тексте.
func (l *Learner) Suggest(text string) (string, bool) {
	lowered := strings.ToLower(text)

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, keyword := range l.order {
		if strings.Contains(lowered, keyword) {
			return l.entries[keyword], true
		}
	}
	return "", false
}

// Forget удаляет выученный ключ.
func (l *Learner) Forget(keyword string) {
	keyword = strings.ToLower(strings.TrimSpace(keyword))

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[keyword]; !ok {
		return
	}
	delete(l.entries, keyword)
	for i, k := range l.order {
		if k == keyword {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Entries возвращает копию выученных связок в порядке поиска.
func (l *Learner) Entries() []LearnedKeyword {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := make([]LearnedKeyword, 0, len(l.order))
	for _, keyword := range l.order {
		entries = append(entries, LearnedKeyword{Keyword: keyword, Tag: l.entries[keyword]})
	}
	return entries
}
