package gst

import (
	"testing"

	"github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(price, qty string, taxCode string) domain.LineItem {
	return domain.LineItem{
		Name:     "item",
		Price:    decimal.RequireFromString(price),
		Quantity: decimal.RequireFromString(qty),
		TaxCode:  taxCode,
		UM:       "pcs",
	}
}

func TestComputeTotals_LocalSplit(t *testing.T) {
	breakdown, err := ComputeTotals([]domain.LineItem{
		item("100", "2", "gst:18"),
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "200", breakdown.Subtotal.String())
	assert.Equal(t, "36", breakdown.TotalTax.String())
	assert.Equal(t, "18", breakdown.CGST.String())
	assert.Equal(t, "18", breakdown.SGST.String())
	assert.True(t, breakdown.IGST.IsZero())
	assert.Equal(t, "236", breakdown.GrandTotal.String())
}

func TestComputeTotals_MixedCodes(t *testing.T) {
	breakdown, err := ComputeTotals([]domain.LineItem{
		item("50", "1", "none"),
		item("25", "4", "gst:5"),
	}, false)
	require.NoError(t, err)

	assert.Equal(t, "150", breakdown.Subtotal.String())
	assert.Equal(t, "5", breakdown.TotalTax.String())
	assert.Equal(t, "155", breakdown.GrandTotal.String())
}

func TestComputeTotals_Interstate(t *testing.T) {
	breakdown, err := ComputeTotals([]domain.LineItem{
		item("100", "2", "gst:18"),
	}, true)
	require.NoError(t, err)

	assert.Equal(t, "36", breakdown.IGST.String())
	assert.True(t, breakdown.CGST.IsZero())
	assert.True(t, breakdown.SGST.IsZero())
	assert.True(t, breakdown.TotalTax.Equal(breakdown.IGST))
	assert.True(t, breakdown.GrandTotal.Equal(breakdown.Subtotal.Add(breakdown.TotalTax)))
}

func TestComputeTotals_AllUntaxed(t *testing.T) {
	breakdown, err := ComputeTotals([]domain.LineItem{
		item("10", "3", "none"),
		item("2.50", "2", "none"),
	}, false)
	require.NoError(t, err)

	assert.True(t, breakdown.TotalTax.IsZero())
	assert.Equal(t, "35", breakdown.Subtotal.String())
	assert.True(t, breakdown.GrandTotal.Equal(breakdown.Subtotal))
}

func TestComputeTotals_EmptyItems(t *testing.T) {
	breakdown, err := ComputeTotals(nil, false)
	require.NoError(t, err)

	assert.True(t, breakdown.Subtotal.IsZero())
	assert.True(t, breakdown.TotalTax.IsZero())
	assert.True(t, breakdown.GrandTotal.IsZero())
}

func TestComputeTotals_HalvesAlwaysReconcile(t *testing.T) {
	// 0.1% of 35.00 is 0.035: a sub-cent amount that would drift if each
	// half were rounded independently of the presented total.
	breakdown, err := ComputeTotals([]domain.LineItem{
		item("35", "1", "gst:0.1"),
	}, false)
	require.NoError(t, err)

	assert.True(t, breakdown.CGST.Equal(breakdown.SGST))
	assert.True(t, breakdown.CGST.Add(breakdown.SGST).Equal(breakdown.TotalTax))
	assert.True(t, breakdown.GrandTotal.Equal(breakdown.Subtotal.Add(breakdown.TotalTax)))
}

func TestComputeTotals_NoPerLineDrift(t *testing.T) {
	// 100 lines of 0.01 @ 18%: per-line rounding would report zero tax.
	items := make([]domain.LineItem, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, item("0.01", "1", "gst:18"))
	}
	breakdown, err := ComputeTotals(items, true)
	require.NoError(t, err)

	assert.Equal(t, "1", breakdown.Subtotal.String())
	assert.Equal(t, "0.18", breakdown.TotalTax.String())
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []domain.LineItem{
		item("19.99", "3", "gst:12"),
		item("5", "0.5", "gst:28"),
	}
	first, err := ComputeTotals(items, false)
	require.NoError(t, err)
	second, err := ComputeTotals(items, false)
	require.NoError(t, err)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.TotalTax.Equal(second.TotalTax))
}

func TestComputeTotals_RejectsUnknownCode(t *testing.T) {
	_, err := ComputeTotals([]domain.LineItem{item("10", "1", "vat:20")}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxCode)

	_, err = ComputeTotals([]domain.LineItem{item("10", "1", "gst:abc")}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidTaxCode)
}

func TestComputeTotals_RejectsNegativeInputs(t *testing.T) {
	_, err := ComputeTotals([]domain.LineItem{item("-1", "1", "none")}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)

	_, err = ComputeTotals([]domain.LineItem{item("1", "-2", "none")}, false)
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
}

func TestResolveRate(t *testing.T) {
	rate, err := ResolveRate("gst:18")
	require.NoError(t, err)
	assert.Equal(t, "18", rate.String())

	rate, err = ResolveRate("none")
	require.NoError(t, err)
	assert.True(t, rate.IsZero())

	_, err = ResolveRate("gst:19")
	assert.ErrorIs(t, err, domain.ErrInvalidTaxCode)
}

func TestLineTotal(t *testing.T) {
	total, err := LineTotal(item("100", "2", "gst:18"))
	require.NoError(t, err)
	assert.Equal(t, "236", total.String())
}
