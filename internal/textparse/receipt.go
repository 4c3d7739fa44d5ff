package textparse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type ReceiptLine struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// minLineConfidence отсекает плохо распознанные строки; нулевая уверенность
// означает, что источник ее не сообщил, и строка не отбрасывается.
const minLineConfidence = 0.3

var (
	totalKeywords = []string{"합계", "총액", "총 금액", "총금액", "결제금액", "받을금액", "청구금액", "total", "amount due", "grand total"}
	priceKeywords = []string{"금액", "소계", "결제", "카드", "현금", "판매", "subtotal", "price", "cash", "card", "paid"}
	skipKeywords  = []string{"전화", "사업자", "주소", "승인번호", "포인트", "tel", "phone", "fax", "날짜", "시간", "no."}
	currencyMarks = []string{"₩", "$", "€", "£", "원"}
)

var (
	minReceiptAmount = decimal.NewFromInt(100)
	maxReceiptAmount = decimal.NewFromInt(100_000_000)
	minBareAmount    = decimal.NewFromInt(1000)
	yearLow          = decimal.NewFromInt(1900)
	yearHigh         = decimal.NewFromInt(2100)
)

var receiptNumber = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`)

// ExtractReceiptAmount выбирает итоговую сумму из распознанных строк чека.
// Строки ранжируются по контексту: ключи итога, затем ценовые ключи, затем
// символ валюты, затем просто наибольшее правдоподобное число. Внутри ранга
// выигрывает большая сумма. Строки со служебными ключами (телефон, адрес,
// дата) пропускаются, если в них нет ключа итога или цены.
func ExtractReceiptAmount(lines []ReceiptLine) (decimal.Decimal, bool) {
	bestPriority := -1
	best := decimal.Zero

	for _, line := range lines {
		if line.Confidence > 0 && line.Confidence < minLineConfidence {
			continue
		}
		lowered := strings.ToLower(line.Text)

		hasTotal := containsAny(lowered, totalKeywords)
		hasPrice := containsAny(lowered, priceKeywords)
		if containsAny(lowered, skipKeywords) && !hasTotal && !hasPrice {
			continue
		}

		amount, ok := largestPlausible(line.Text)
		if !ok {
			continue
		}

		priority := 0
		switch {
		case hasTotal:
			priority = 3
		case hasPrice:
			priority = 2
		case containsAny(lowered, currencyMarks):
			priority = 1
		}

		if priority > bestPriority || (priority == bestPriority && amount.GreaterThan(best)) {
			bestPriority = priority
			best = amount
		}
	}

	return best, bestPriority >= 0
}

// largestPlausible возвращает наибольшее правдоподобное число строки.
func largestPlausible(text string) (decimal.Decimal, bool) {
	best := decimal.Zero
	found := false

	for _, raw := range receiptNumber.FindAllString(text, -1) {
		value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			continue
		}
		if !plausibleAmount(value, digitCount(raw)) {
			continue
		}
		if !found || value.GreaterThan(best) {
			best = value
			found = true
		}
	}

	return best, found
}

// plausibleAmount отсекает числа вне границ от 100 до 100 млн, числа,
// похожие на год (1900-2100), и короткие числа меньше 1000, которые обычно
// означают количество, номер строки или код.
func plausibleAmount(value decimal.Decimal, digits int) bool {
	if value.LessThan(minReceiptAmount) || value.GreaterThan(maxReceiptAmount) {
		return false
	}
	if value.IsInteger() && value.GreaterThanOrEqual(yearLow) && value.LessThanOrEqual(yearHigh) {
		return false
	}
	if digits <= 4 && value.LessThan(minBareAmount) {
		return false
	}
	return true
}

func digitCount(raw string) int {
	n := 0
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
