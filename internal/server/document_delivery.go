package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/haren2312/OptimumERP/internal/billing/gst"
	"github.com/haren2312/OptimumERP/internal/providers/email"
	"github.com/haren2312/OptimumERP/internal/providers/pdf"
)

func kindTitle(kind billingdomain.Kind) string {
	switch kind {
	case billingdomain.KindPurchaseOrder:
		return "Purchase Order"
	case billingdomain.KindQuote:
		return "Quote"
	default:
		return "Invoice"
	}
}

func (s *Server) DocumentPDF(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, content, err := s.renderDocument(c.Request.Context(), kind, c.Param("orgId"), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Num+".pdf"))
		c.Data(http.StatusOK, "application/pdf", content)
	}
}

type sendDocumentRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

func (s *Server) SendDocument(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendDocumentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		ctx := c.Request.Context()
		doc, content, err := s.renderDocument(ctx, kind, c.Param("orgId"), c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		to := req.To
		if len(to) == 0 {
			party, err := s.partySvc.GetByID(ctx, doc.PartyID.String())
			if err != nil {
				AbortWithError(c, err)
				return
			}
			if party.Email == "" {
				AbortWithError(c, newValidationError("to", "missing_recipient", "party has no email address"))
				return
			}
			to = []string{party.Email}
		}

		title := kindTitle(kind)
		subject := req.Subject
		if subject == "" {
			subject = fmt.Sprintf("%s %s", title, doc.Num)
		}
		body := req.Body
		if body == "" {
			body = fmt.Sprintf("<p>Please find %s %s attached.</p>", title, doc.Num)
		}

		err = s.emailProvider.SendWithAttachment(ctx, to, subject, body, email.Attachment{
			Filename:    doc.Num + ".pdf",
			ContentType: "application/pdf",
			Data:        content,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "document sent"})
	}
}

// renderDocument loads the document with its related org and party and runs
// it through the PDF renderer.
func (s *Server) renderDocument(ctx context.Context, kind billingdomain.Kind, orgID, docID string) (billingdomain.BillingDocument, []byte, error) {
	doc, err := s.billingSvc.GetByID(ctx, kind, docID)
	if err != nil {
		return billingdomain.BillingDocument{}, nil, err
	}
	org, err := s.organizationSvc.GetByID(ctx, orgID)
	if err != nil {
		return billingdomain.BillingDocument{}, nil, err
	}
	party, err := s.partySvc.GetByID(ctx, doc.PartyID.String())
	if err != nil {
		return billingdomain.BillingDocument{}, nil, err
	}

	items := make([]pdf.ItemRow, 0, len(doc.Items))
	for _, item := range doc.Items {
		amount, err := gst.LineTotal(item)
		if err != nil {
			return billingdomain.BillingDocument{}, nil, err
		}
		items = append(items, pdf.ItemRow{
			Name:     item.Name,
			Quantity: item.Quantity.String(),
			UM:       item.UM,
			Price:    item.Price.StringFixed(2),
			TaxCode:  item.TaxCode,
			Amount:   amount.StringFixed(2),
		})
	}

	data := pdf.DocumentData{
		Title:      kindTitle(kind),
		OrgName:    org.Name,
		OrgAddress: org.Address,
		OrgGSTNo:   org.GSTNo,

		Num:  doc.Num,
		Date: doc.Date.Format("02 Jan 2006"),

		PartyName:    party.Name,
		PartyAddress: party.BillingAddress,
		PartyGSTNo:   party.GSTNo,

		Items: items,

		Subtotal:   doc.Total.Sub(doc.TotalTax).StringFixed(2),
		Interstate: doc.Interstate,
		CGST:       doc.CGST.StringFixed(2),
		SGST:       doc.SGST.StringFixed(2),
		IGST:       doc.IGST.StringFixed(2),
		TotalTax:   doc.TotalTax.StringFixed(2),
		GrandTotal: doc.Total.StringFixed(2),
	}

	reader, err := s.pdfProvider.RenderDocument(ctx, data)
	if err != nil {
		return billingdomain.BillingDocument{}, nil, err
	}
	var buf bytes.Buffer
	if reader != nil {
		if _, err := io.Copy(&buf, reader); err != nil {
			return billingdomain.BillingDocument{}, nil, err
		}
	}
	return doc, buf.Bytes(), nil
}
