package money

import "strings"

// Unit is a product sale unit (mass, volume, length or discrete pieces)
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
	UnitMeter      Unit = "m"
	UnitCentimeter Unit = "cm"
	UnitPiece      Unit = "u"
)

// ToBase converts a quantity in the given unit to its canonical base unit
// (kg, l, m, or pieces) and returns the converted quantity plus the base unit.
// Unknown units pass through unchanged.
func ToBase(qty float64, unit Unit) (float64, Unit) {
	switch unit {
	case UnitGram:
		return qty / 1000, UnitKilogram
	case UnitMilliliter:
		return qty / 1000, UnitLiter
	case UnitCentimeter:
		return qty / 100, UnitMeter
	case UnitKilogram, UnitLiter, UnitMeter, UnitPiece:
		return qty, unit
	}
	return qty, unit
}

// DisplayKey builds the grouping key used by product rankings: name+size+color+unit.
// Empty attributes are skipped so "Coca 1.5L" and a size-less generic item both
// produce stable keys.
func DisplayKey(name, size, color string, unit Unit) string {
	parts := []string{strings.TrimSpace(name)}
	if size != "" {
		parts = append(parts, size)
	}
	if color != "" {
		parts = append(parts, color)
	}
	if unit != "" && unit != UnitPiece {
		parts = append(parts, string(unit))
	}
	return strings.Join(parts, " ")
}
