package textparse

import (
	"testing"

	"github.com/shopspring/decimal"
)

// TestReceiptTotalKeywordWins проверяет приоритет строки с ключом итога.
func TestReceiptTotalKeywordWins(t *testing.T) {
	lines := []ReceiptLine{
		{Text: "스타벅스 강남점", Confidence: 0.9},
		{Text: "아메리카노 2 9,000", Confidence: 0.9},
		{Text: "합계 13,500", Confidence: 0.9},
		{Text: "현금 15,000", Confidence: 0.9},
	}

	amount, ok := ExtractReceiptAmount(lines)
	if !ok {
		t.Fatal("expected an amount")
	}
	if !amount.Equal(decimal.RequireFromString("13500")) {
		t.Fatalf("expected the total line to win, got %s", amount)
	}
}

// TestReceiptPriceContextBeatsLargest проверяет, что ценовой контекст
// важнее просто большого числа.
func TestReceiptPriceContextBeatsLargest(t *testing.T) {
	lines := []ReceiptLine{
		{Text: "비고 123,456", Confidence: 0.9},
		{Text: "카드 12,000", Confidence: 0.9},
	}

	amount, ok := ExtractReceiptAmount(lines)
	if !ok {
		t.Fatal("expected an amount")
	}
	if !amount.Equal(decimal.RequireFromString("12000")) {
		t.Fatalf("expected the card line to win, got %s", amount)
	}
}

// TestReceiptCurrencyTier проверяет ранг строки с символом валюты.
func TestReceiptCurrencyTier(t *testing.T) {
	lines := []ReceiptLine{
		{Text: "999,999", Confidence: 0.9},
		{Text: "₩350,000", Confidence: 0.9},
	}

	amount, ok := ExtractReceiptAmount(lines)
	if !ok {
		t.Fatal("expected an amount")
	}
	if !amount.Equal(decimal.RequireFromString("350000")) {
		t.Fatalf("expected the currency line to win, got %s", amount)
	}
}

// TestReceiptRejectsYearsAndSmallNumbers проверяет фильтр ложных чисел.
func TestReceiptRejectsYearsAndSmallNumbers(t *testing.T) {
	lines := []ReceiptLine{
		{Text: "2026 03 15 합계 45,000", Confidence: 0.9},
	}

	amount, ok := ExtractReceiptAmount(lines)
	if !ok {
		t.Fatal("expected an amount")
	}
	if !amount.Equal(decimal.RequireFromString("45000")) {
		t.Fatalf("expected the year to be ignored, got %s", amount)
	}

	if _, ok := ExtractReceiptAmount([]ReceiptLine{{Text: "수량 3 번호 250"}}); ok {
		t.Fatal("expected small bare numbers to be rejected")
	}
}

// TestReceiptSkipsServiceLines проверяет пропуск служебных строк.
func TestReceiptSkipsServiceLines(t *testing.T) {
	lines := []ReceiptLine{
		{Text: "전화 02-555-1234", Confidence: 0.9},
		{Text: "사업자 123-45-67890", Confidence: 0.9},
	}

	if _, ok := ExtractReceiptAmount(lines); ok {
		t.Fatal("expected service lines to be skipped")
	}

	rescued := []ReceiptLine{
		{Text: "전화주문 결제금액 23,000", Confidence: 0.9},
	}
	amount, ok := ExtractReceiptAmount(rescued)
	if !ok || !amount.Equal(decimal.RequireFromString("23000")) {
		t.Fatalf("expected a price keyword to rescue the line, got %s (%v)", amount, ok)
	}

	totalOnly := []ReceiptLine{
		{Text: "(승인번호) 합계 18,000", Confidence: 0.9},
	}
	amount, ok = ExtractReceiptAmount(totalOnly)
	if !ok || !amount.Equal(decimal.RequireFromString("18000")) {
		t.Fatalf("expected a total keyword to rescue the line, got %s (%v)", amount, ok)
	}
}

// TestReceiptSkipsLowConfidence проверяет порог уверенности распознавания.
func TestReceiptSkipsLowConfidence(t *testing.T) {
	lines := []ReceiptLine{
		{Text: "합계 99,000", Confidence: 0.2},
		{Text: "카드 12,000", Confidence: 0.9},
	}

	amount, ok := ExtractReceiptAmount(lines)
	if !ok {
		t.Fatal("expected an amount")
	}
	if !amount.Equal(decimal.RequireFromString("12000")) {
		t.Fatalf("expected the low-confidence line to be skipped, got %s", amount)
	}
}

// TestReceiptBounds проверяет границы правдоподобной суммы.
func TestReceiptBounds(t *testing.T) {
	if _, ok := ExtractReceiptAmount([]ReceiptLine{{Text: "합계 999,999,999"}}); ok {
		t.Fatal("expected amounts above 100M to be rejected")
	}

	amount, ok := ExtractReceiptAmount([]ReceiptLine{{Text: "total 105.50"}})
	if !ok || !amount.Equal(decimal.RequireFromString("105.5")) {
		t.Fatalf("expected a decimal total, got %s (%v)", amount, ok)
	}
}
