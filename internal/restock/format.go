package restock

import (
	"strconv"
	"strings"
)

// Abreviações que não variam no plural.
var invariantUnits = map[string]struct{}{
	"g": {}, "kg": {}, "mg": {}, "l": {}, "ml": {}, "oz": {}, "fl oz": {},
	"lb": {}, "lbs": {}, "gal": {}, "pc": {}, "pcs": {}, "un": {}, "dz": {},
}

// FormatQuantity formata quantidade e unidade, pluralizando a unidade quando necessário:
// 1 box, 3 boxes, 2.5 kg.
func FormatQuantity(quantity float64, unit string) string {
	number := strconv.FormatFloat(quantity, 'f', -1, 64)
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return number
	}
	if quantity == 1 {
		return number + " " + unit
	}
	return number + " " + PluralizeUnit(unit)
}

// PluralizeUnit aplica as regras simples de plural do inglês, usadas nos nomes de unidade.
func PluralizeUnit(unit string) string {
	lower := strings.ToLower(unit)
	if _, ok := invariantUnits[lower]; ok {
		return unit
	}
	switch {
	case strings.HasSuffix(lower, "s"),
		strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		if strings.HasSuffix(lower, "es") || (strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss")) {
			return unit // já está no plural
		}
		return unit + "es"
	case strings.HasSuffix(lower, "y") && len(lower) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return unit[:len(unit)-1] + "ies"
	default:
		return unit + "s"
	}
}
