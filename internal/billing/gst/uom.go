package gst

import "strings"

// UnitNone marks a line with no unit of measure.
const UnitNone = "none"

// UnitOfMeasure is one entry of the closed unit table.
type UnitOfMeasure struct {
	Code  string `json:"value"`
	Label string `json:"label"`
}

// Units is the closed unit-of-measure table for line items.
var Units = []UnitOfMeasure{
	{Code: UnitNone, Label: "None"},
	{Code: "pcs", Label: "Pieces"},
	{Code: "unit", Label: "Units"},
	{Code: "kg", Label: "Kilograms"},
	{Code: "g", Label: "Grams"},
	{Code: "l", Label: "Litres"},
	{Code: "ml", Label: "Millilitres"},
	{Code: "m", Label: "Metres"},
	{Code: "ft", Label: "Feet"},
	{Code: "box", Label: "Boxes"},
	{Code: "dozen", Label: "Dozens"},
}

var unitsByCode = func() map[string]UnitOfMeasure {
	m := make(map[string]UnitOfMeasure, len(Units))
	for _, u := range Units {
		m[u.Code] = u
	}
	return m
}()

// LookupUnit resolves a unit code against the closed table.
func LookupUnit(code string) (UnitOfMeasure, bool) {
	u, ok := unitsByCode[strings.TrimSpace(code)]
	return u, ok
}
