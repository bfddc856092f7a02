package gst

import (
	"github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// ComputeTotals derives the money summary of a document from its line
// items. Accumulation runs at full decimal precision; rounding to two
// places happens once on the final aggregates, never per line, so long
// documents cannot drift by accumulated cents.
//
// The jurisdiction split is a document-level policy: interstate documents
// accrue the whole tax to IGST, local ones split it evenly between CGST
// and SGST. For local documents the presented TotalTax is CGST+SGST so
// the two halves always reconcile exactly with the total.
//
// An empty item slice yields an all-zero breakdown; requiring at least one
// item is the caller's input-validation concern.
func ComputeTotals(items []domain.LineItem, interstate bool) (domain.TaxBreakdown, error) {
	subtotal := decimal.Zero
	totalTax := decimal.Zero

	for i := range items {
		item := &items[i]
		if item.Price.IsNegative() || item.Quantity.IsNegative() {
			return domain.TaxBreakdown{}, domain.ErrInvalidLineItem
		}

		rate, err := ResolveRate(item.TaxCode)
		if err != nil {
			return domain.TaxBreakdown{}, err
		}

		base := item.Price.Mul(item.Quantity)
		subtotal = subtotal.Add(base)
		totalTax = totalTax.Add(base.Mul(rate).Div(hundred))
	}

	breakdown := domain.TaxBreakdown{
		Subtotal: subtotal.Round(2),
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
	}

	if interstate {
		breakdown.IGST = totalTax.Round(2)
		breakdown.TotalTax = breakdown.IGST
	} else {
		half := totalTax.Div(two).Round(2)
		breakdown.CGST = half
		breakdown.SGST = half
		breakdown.TotalTax = half.Add(half)
	}

	breakdown.GrandTotal = breakdown.Subtotal.Add(breakdown.TotalTax)
	return breakdown, nil
}

// LineTotal is the tax-inclusive amount of a single row, used for
// presentation (PDF, email). Rounded at the line because it is shown at
// the line.
func LineTotal(item domain.LineItem) (decimal.Decimal, error) {
	rate, err := ResolveRate(item.TaxCode)
	if err != nil {
		return decimal.Zero, err
	}
	base := item.Price.Mul(item.Quantity)
	return base.Add(base.Mul(rate).Div(hundred)).Round(2), nil
}
