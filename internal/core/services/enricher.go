package services

import "strings"

// termTranslation maps a Turkish domain term to its English equivalent.
type termTranslation struct {
	term        string
	translation string
}

// queryTranslations is evaluated in order; every matching term contributes
// its translation, so overlapping terms (boyut, boyutları) both fire.
var queryTranslations = []termTranslation{
	// Robot and dimensions
	{"robot", "robot"},
	{"boyut", "size"},
	{"boyutlar", "dimensions"},
	{"boyutları", "dimensions"},
	{"ölçü", "size"},
	{"ölçüler", "dimensions"},
	{"ölçüleri", "dimensions"},
	{"sınır", "limit"},
	{"sınırı", "limit"},
	{"sınırlar", "limits"},
	{"sınırları", "limits"},
	{"ağırlık", "weight"},
	{"maksimum", "maximum"},
	{"minimum", "minimum"},
	{"genişleme", "expansion"},
	{"hacim", "volume"},
	{"kübik", "cubic"},
	{"inç", "inch"},
	{"santimetre", "centimeter"},
	{"milimetre", "millimeter"},

	// Materials
	{"plastik", "plastic"},
	{"polikarbonat", "polycarbonate"},
	{"polikarbonate", "polycarbonate"},
	{"özel", "custom"},
	{"malzeme", "material"},
	{"metal", "metal"},
	{"parça", "part"},
	{"parçalar", "parts"},
	{"bileşen", "component"},
	{"miktarda", "amount"},
	{"miktar", "amount"},
	{"sınırlı", "limited"},
	{"izin", "legal"},
	{"yasak", "illegal"},

	// Game
	{"oyun", "game"},
	{"maç", "match"},
	{"müsabaka", "competition"},
	{"turnuva", "tournament"},
	{"puan", "point"},
	{"skor", "score"},
	{"gol", "goal"},
	{"hedef", "target"},

	// Rules
	{"kural", "rule"},
	{"kurallar", "rules"},
	{"ceza", "penalty"},
	{"ihlal", "violation"},

	// Technical
	{"motor", "motor"},
	{"güç", "power"},
	{"batarya", "battery"},
	{"sensör", "sensor"},
	{"program", "program"},
	{"otonom", "autonomous"},
	{"manuel", "manual"},
	{"kontrol", "control"},
	{"kumanda", "control"},
}

// EnrichQuery appends the English equivalent of every Turkish domain term
// found in the query. Matching is a case-insensitive substring test and
// duplicate translations are kept.
func EnrichQuery(query string) string {
	lower := strings.ToLower(query)

	var translations []string
	for _, t := range queryTranslations {
		if strings.Contains(lower, t.term) {
			translations = append(translations, t.translation)
		}
	}

	if len(translations) == 0 {
		return query
	}
	return query + " " + strings.Join(translations, " ")
}
