package textparse

import "strings"

type categoryKeyword struct {
	keyword string
	tag     string
}

// Таблица просматривается по порядку, выигрывает первое вхождение.
// Корейские ключи идут перед английскими.
var categoryKeywords = []categoryKeyword{
	{"스타벅스", "cafe"},
	{"커피", "cafe"},
	{"카페", "cafe"},
	{"점심", "food"},
	{"저녁", "food"},
	{"아침", "food"},
	{"식사", "food"},
	{"치킨", "food"},
	{"배달", "food"},
	{"밥", "food"},
	{"버스", "transport"},
	{"지하철", "transport"},
	{"택시", "transport"},
	{"기차", "transport"},
	{"주유", "transport"},
	{"마트", "groceries"},
	{"장보기", "groceries"},
	{"편의점", "groceries"},
	{"쇼핑", "shopping"},
	{"옷", "shopping"},
	{"신발", "shopping"},
	{"영화", "entertainment"},
	{"게임", "entertainment"},
	{"노래방", "entertainment"},
	{"병원", "health"},
	{"약국", "health"},
	{"월세", "housing"},
	{"관리비", "housing"},
	{"전기세", "utilities"},
	{"수도세", "utilities"},
	{"가스비", "utilities"},
	{"통신비", "communication"},
	{"핸드폰", "communication"},

	{"starbucks", "cafe"},
	{"coffee", "cafe"},
	{"cafe", "cafe"},
	{"lunch", "food"},
	{"dinner", "food"},
	{"breakfast", "food"},
	{"restaurant", "food"},
	{"chicken", "food"},
	{"delivery", "food"},
	{"bus", "transport"},
	{"subway", "transport"},
	{"taxi", "transport"},
	{"train", "transport"},
	{"uber", "transport"},
	{"fuel", "transport"},
	{"groceries", "groceries"},
	{"grocery", "groceries"},
	{"market", "groceries"},
	{"shopping", "shopping"},
	{"clothes", "shopping"},
	{"shoes", "shopping"},
	{"movie", "entertainment"},
	{"netflix", "entertainment"},
	{"game", "entertainment"},
	{"hospital", "health"},
	{"pharmacy", "health"},
	{"medicine", "health"},
	{"rent", "housing"},
	{"electricity", "utilities"},
	{"internet", "communication"},
	{"phone", "communication"},
}

// BuiltinTags возвращает различные метки встроенной таблицы в порядке
// первого появления.
func BuiltinTags() []string {
	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, kw := range categoryKeywords {
		if seen[kw.tag] {
			continue
		}
		seen[kw.tag] = true
		tags = append(tags, kw.tag)
	}
	return tags
}

// MatchCategory возвращает метку категории по встроенной таблице ключей.
func MatchCategory(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, kw := range categoryKeywords {
		if strings.Contains(lowered, kw.keyword) {
			return kw.tag, true
		}
	}
	return "", false
}

// ResolveCategory возвращает метку категории: выученные пользователем ключи
// имеют приоритет над встроенной таблицей.
func ResolveCategory(text string, learner *Learner) (string, bool) {
	if learner != nil {
		if tag, ok := learner.Suggest(text); ok {
			return tag, true
		}
	}
	return MatchCategory(text)
}
