// Package gst holds the tax-rate and unit-of-measure tables and the pure
// document total calculator shared by invoices, purchase orders and quotes.
package gst

import (
	"strings"

	"github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/shopspring/decimal"
)

// TaxCodeNone marks an untaxed line.
const TaxCodeNone = "none"

// TaxRate is one entry of the closed rate table. Code is the stable
// engine-facing identifier stored on line items; Label is UI-facing.
type TaxRate struct {
	Code    string          `json:"value"`
	Label   string          `json:"label"`
	Percent decimal.Decimal `json:"rate"`
}

// Rates is the closed GST slab table. Codes carry the percentage suffix
// after the colon (e.g. "gst:18" is 18%).
var Rates = []TaxRate{
	{Code: TaxCodeNone, Label: "None", Percent: decimal.Zero},
	{Code: "gst:0", Label: "GST 0%", Percent: decimal.NewFromInt(0)},
	{Code: "gst:0.1", Label: "GST 0.1%", Percent: decimal.RequireFromString("0.1")},
	{Code: "gst:0.25", Label: "GST 0.25%", Percent: decimal.RequireFromString("0.25")},
	{Code: "gst:1.5", Label: "GST 1.5%", Percent: decimal.RequireFromString("1.5")},
	{Code: "gst:3", Label: "GST 3%", Percent: decimal.NewFromInt(3)},
	{Code: "gst:5", Label: "GST 5%", Percent: decimal.NewFromInt(5)},
	{Code: "gst:6", Label: "GST 6%", Percent: decimal.NewFromInt(6)},
	{Code: "gst:7.5", Label: "GST 7.5%", Percent: decimal.RequireFromString("7.5")},
	{Code: "gst:12", Label: "GST 12%", Percent: decimal.NewFromInt(12)},
	{Code: "gst:18", Label: "GST 18%", Percent: decimal.NewFromInt(18)},
	{Code: "gst:28", Label: "GST 28%", Percent: decimal.NewFromInt(28)},
}

var ratesByCode = func() map[string]TaxRate {
	m := make(map[string]TaxRate, len(Rates))
	for _, r := range Rates {
		m[r.Code] = r
	}
	return m
}()

// ResolveRate maps a tax code to its percentage. Codes outside the closed
// table fail with ErrInvalidTaxCode; the suffix after ":" must agree with
// the table entry, so a malformed suffix can never resolve.
func ResolveRate(code string) (decimal.Decimal, error) {
	rate, ok := ratesByCode[strings.TrimSpace(code)]
	if !ok {
		return decimal.Zero, domain.ErrInvalidTaxCode
	}
	return rate.Percent, nil
}

// LookupRate returns the full table entry for display purposes.
func LookupRate(code string) (TaxRate, bool) {
	rate, ok := ratesByCode[strings.TrimSpace(code)]
	return rate, ok
}
