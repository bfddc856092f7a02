package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type MarotoProvider struct{}

func New() Provider {
	return &MarotoProvider{}
}

func (p *MarotoProvider) RenderDocument(ctx context.Context, data DocumentData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, data.Title, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(14,
		col.New(6).Add(
			text.New(data.Num, props.Text{Style: fontstyle.Bold}),
			text.New("Date: "+data.Date, props.Text{Top: 5}),
		),
		col.New(6),
	)

	m.AddRow(35,
		col.New(6).Add(
			text.New(data.OrgName, props.Text{Style: fontstyle.Bold}),
			text.New(data.OrgAddress, props.Text{Top: 5}),
			text.New(gstLine(data.OrgGSTNo), props.Text{Top: 20, Size: 9}),
		),
		col.New(6).Add(
			text.New("Bill to", props.Text{Style: fontstyle.Bold}),
			text.New(data.PartyName, props.Text{Top: 5}),
			text.New(data.PartyAddress, props.Text{Top: 9}),
			text.New(gstLine(data.PartyGSTNo), props.Text{Top: 24, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(4, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Tax", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range data.Items {
		qty := item.Quantity
		if item.UM != "" && item.UM != "none" {
			qty += " " + item.UM
		}
		m.AddRow(10,
			text.NewCol(4, item.Name, props.Text{Size: 9}),
			text.NewCol(2, qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Price, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.TaxCode, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	if data.Interstate {
		m.AddRow(10,
			col.New(8),
			text.NewCol(2, "IGST", props.Text{Size: 9}),
			text.NewCol(2, data.IGST, props.Text{Size: 9, Align: align.Right}),
		)
	} else {
		m.AddRow(10,
			col.New(8),
			text.NewCol(2, "CGST", props.Text{Size: 9}),
			text.NewCol(2, data.CGST, props.Text{Size: 9, Align: align.Right}),
		)
		m.AddRow(10,
			col.New(8),
			text.NewCol(2, "SGST", props.Text{Size: 9}),
			text.NewCol(2, data.SGST, props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, data.GrandTotal, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

func gstLine(gstNo string) string {
	if gstNo == "" {
		return ""
	}
	return "GSTIN: " + gstNo
}
