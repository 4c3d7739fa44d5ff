package handlers

import "testing"

// TestParseMonthsParam проверяет значение по умолчанию и потолок глубины.
func TestParseMonthsParam(t *testing.T) {
	months, err := parseMonthsParam("")
	if err != nil || months != defaultTrendRange {
		t.Fatalf("expected default %d, got %d (err=%v)", defaultTrendRange, months, err)
	}

	months, err = parseMonthsParam("12")
	if err != nil || months != 12 {
		t.Fatalf("expected 12, got %d (err=%v)", months, err)
	}

	months, err = parseMonthsParam("99")
	if err != nil || months != maxTrendRange {
		t.Fatalf("expected cap %d, got %d (err=%v)", maxTrendRange, months, err)
	}
}

// TestParseMonthsParamInvalid проверяет ошибки при неверном значении.
func TestParseMonthsParamInvalid(t *testing.T) {
	if _, err := parseMonthsParam("0"); err == nil {
		t.Fatal("expected error for zero months")
	}

	if _, err := parseMonthsParam("-3"); err == nil {
		t.Fatal("expected error for negative months")
	}

	if _, err := parseMonthsParam("abc"); err == nil {
		t.Fatal("expected error for non-numeric months")
	}
}

// TestParseRangeFilter проверяет расширение даты to до конца дня.
func TestParseRangeFilter(t *testing.T) {
	filter, err := parseRangeFilter("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if filter.From == nil || filter.From.Format(dateLayout) != "2024-01-01" {
		t.Fatalf("unexpected from: %v", filter.From)
	}
	if filter.To == nil || filter.To.Day() != 31 || filter.To.Hour() != 23 {
		t.Fatalf("expected end of day, got %v", filter.To)
	}

	filter, err = parseRangeFilter("", "2024-02-10T08:00:00Z")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if filter.From != nil {
		t.Fatalf("expected nil from, got %v", filter.From)
	}
	if filter.To == nil || filter.To.Hour() != 8 {
		t.Fatalf("expected explicit timestamp, got %v", filter.To)
	}
}

// TestParseRangeFilterInvalid проверяет ошибки при неверных границах.
func TestParseRangeFilterInvalid(t *testing.T) {
	if _, err := parseRangeFilter("bad", ""); err == nil {
		t.Fatal("expected error for invalid from")
	}

	if _, err := parseRangeFilter("", "bad"); err == nil {
		t.Fatal("expected error for invalid to")
	}
}
