package pdf

import (
	"context"
	"io"
)

// DocumentData is the fully formatted content of a rendered billing
// document. Formatting (currency symbols, date layout) happens before the
// renderer; it only lays the strings out.
type DocumentData struct {
	Title      string
	OrgName    string
	OrgAddress string
	OrgGSTNo   string

	Num  string
	Date string

	PartyName    string
	PartyAddress string
	PartyGSTNo   string

	Items []ItemRow

	Subtotal   string
	Interstate bool
	CGST       string
	SGST       string
	IGST       string
	TotalTax   string
	GrandTotal string
}

// ItemRow is one rendered table line.
type ItemRow struct {
	Name     string
	Quantity string
	UM       string
	Price    string
	TaxCode  string
	Amount   string
}

type Provider interface {
	RenderDocument(ctx context.Context, data DocumentData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) RenderDocument(ctx context.Context, data DocumentData) (io.Reader, error) {
	return nil, nil
}
