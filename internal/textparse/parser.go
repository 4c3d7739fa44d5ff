// Package textparse разбирает свободный текст о покупке (голосовой ввод
// или распознанный чек) в черновик операции.
package textparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"example.com/pocket-ledger/backend/internal/models"
)

type Draft struct {
	Amount       decimal.Decimal        `json:"amount"`
	Type         models.TransactionType `json:"type"`
	Date         time.Time              `json:"date"`
	CategoryHint string                 `json:"category_hint,omitempty"`
	Note         string                 `json:"note"`
	Raw          string                 `json:"raw"`
}

// Valid возвращает true, когда из текста удалось извлечь положительную сумму.
func (d Draft) Valid() bool {
	return d.Amount.IsPositive()
}

// Единицы величин корейской числовой записи, от старшей к младшей.
// Совпадения вырезаются из текста по мере разбора, чтобы пересекающиеся
// шаблоны не считались дважды: 10만5천 дает 100000 + 5000.
var magnitudeUnits = []struct {
	re     *regexp.Regexp
	factor decimal.Decimal
}{
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*억`), decimal.NewFromInt(100_000_000)},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*만`), decimal.NewFromInt(10_000)},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*천`), decimal.NewFromInt(1_000)},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*백`), decimal.NewFromInt(100)},
}

var bareNumber = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)

var incomeKeywords = []string{
	"수입", "입금", "월급", "급여", "용돈", "보너스", "상여", "이자", "환급", "받았", "벌었",
	"income", "salary", "deposit", "refund", "bonus", "allowance", "paycheck", "received", "earned", "got paid",
}

var relativeDayPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*일\s*전`),
	regexp.MustCompile(`(\d+)\s*days?\s+ago`),
}

type dateRule struct {
	keyword string
	offset  int
}

// Первое совпадение по порядку таблицы выигрывает, поэтому более длинные
// фразы стоят раньше своих подстрок.
var dateRules = []dateRule{
	{"그저께", -2},
	{"그제", -2},
	{"어제", -1},
	{"오늘", 0},
	{"지난주", -7},
	{"지난 주", -7},
	{"day before yesterday", -2},
	{"yesterday", -1},
	{"last week", -7},
	{"today", 0},
}

var currencyTokens = []string{"원", "won", "krw", "달러", "dollars", "dollar", "bucks", "usd", "₩", "$"}

// Parse разбирает текст в черновик операции: сумма, тип, дата, подсказка
// категории и остаточная заметка. Дата считается от момента now.
func Parse(text string, now time.Time) Draft {
	draft := Draft{
		Type: models.TransactionTypeExpense,
		Date: now,
		Raw:  text,
	}

	working := text
	date, dateToken := resolveDate(text, now)
	draft.Date = date
	if dateToken != "" {
		working = removeFold(working, dateToken)
	}

	amount, amountTokens := extractAmount(working)
	draft.Amount = amount

	draft.Type = detectType(text)
	if hint, ok := MatchCategory(text); ok {
		draft.CategoryHint = hint
	}

	note := cleanupNote(working, amountTokens)
	if note == "" {
		note = strings.TrimSpace(text)
	}
	draft.Note = note

	return draft
}

// extractAmount извлекает сумму: сначала составная запись со словами величин,
// затем обычное число. Возвращает сумму и вырезанные подстроки.
func extractAmount(text string) (decimal.Decimal, []string) {
	working := text
	total := decimal.Zero
	tokens := make([]string, 0, 2)

	for _, unit := range magnitudeUnits {
		for {
			loc := unit.re.FindStringSubmatchIndex(working)
			if loc == nil {
				break
			}
			value, err := decimal.NewFromString(working[loc[2]:loc[3]])
			if err != nil {
				break
			}
			total = total.Add(value.Mul(unit.factor))
			tokens = append(tokens, working[loc[0]:loc[1]])
			working = working[:loc[0]] + working[loc[1]:]
		}
	}
	if len(tokens) > 0 {
		return total, tokens
	}

	raw := bareNumber.FindString(working)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, nil
	}
	return value, []string{raw}
}

func detectType(text string) models.TransactionType {
	lowered := strings.ToLower(text)
	for _, keyword := range incomeKeywords {
		if strings.Contains(lowered, keyword) {
			return models.TransactionTypeIncome
		}
	}
	return models.TransactionTypeExpense
}

// resolveDate сопоставляет текст с таблицей относительных дат.
// Без совпадений возвращает now и пустой токен.
func resolveDate(text string, now time.Time) (time.Time, string) {
	lowered := strings.ToLower(text)

	for _, re := range relativeDayPatterns {
		if m := re.FindStringSubmatch(lowered); m != nil {
			if days, err := strconv.Atoi(m[1]); err == nil {
				return now.AddDate(0, 0, -days), m[0]
			}
		}
	}

	for _, rule := range dateRules {
		if strings.Contains(lowered, rule.keyword) {
			return now.AddDate(0, 0, rule.offset), rule.keyword
		}
	}

	return now, ""
}

// cleanupNote убирает из текста вырезанные токены суммы и валютные слова,
// схлопывает пробелы. Пустой результат означает, что заметки не осталось.
func cleanupNote(text string, amountTokens []string) string {
	note := text
	for _, token := range amountTokens {
		note = removeFold(note, token)
	}
	for _, token := range currencyTokens {
		note = removeFold(note, token)
	}
	note = strings.Join(strings.Fields(note), " ")
	return strings.Trim(note, " .,!?~-")
}

// removeFold вырезает первое вхождение токена без учета регистра.
func removeFold(text, token string) string {
	lowered := strings.ToLower(text)
	idx := strings.Index(lowered, strings.ToLower(token))
	if idx < 0 {
		return text
	}
	return text[:idx] + text[idx+len(token):]
}
