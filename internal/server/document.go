package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	billingdomain "github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
)

type lineItemRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
	TaxCode  string          `json:"taxCode"`
	UM       string          `json:"um"`
	Code     string          `json:"code"`
}

type documentRequest struct {
	PartyID        string            `json:"partyId"`
	Sequence       int64             `json:"sequence"`
	Items          []lineItemRequest `json:"items"`
	Status         string            `json:"status"`
	Interstate     bool              `json:"interstate"`
	Date           *time.Time        `json:"date"`
	BillingAddress string            `json:"billingAddress"`
	Description    string            `json:"description"`
}

func toLineItemInputs(items []lineItemRequest) []billingdomain.LineItemInput {
	out := make([]billingdomain.LineItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, billingdomain.LineItemInput{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			TaxCode:  item.TaxCode,
			UM:       item.UM,
			Code:     item.Code,
		})
	}
	return out
}

func (s *Server) CreateDocument(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req documentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		resp, err := s.billingSvc.Create(c.Request.Context(), billingdomain.CreateDocumentRequest{
			Kind:           kind,
			PartyID:        req.PartyID,
			Sequence:       req.Sequence,
			Items:          toLineItemInputs(req.Items),
			Status:         req.Status,
			Interstate:     req.Interstate,
			Date:           req.Date,
			BillingAddress: req.BillingAddress,
			Description:    req.Description,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"data": resp})
	}
}

func (s *Server) UpdateDocument(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req documentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		resp, err := s.billingSvc.Update(c.Request.Context(), billingdomain.UpdateDocumentRequest{
			Kind:           kind,
			ID:             c.Param("id"),
			PartyID:        req.PartyID,
			Sequence:       req.Sequence,
			Items:          toLineItemInputs(req.Items),
			Status:         req.Status,
			Interstate:     req.Interstate,
			Date:           req.Date,
			BillingAddress: req.BillingAddress,
			Description:    req.Description,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": resp})
	}
}

func (s *Server) GetDocument(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := s.billingSvc.GetByID(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": resp})
	}
}

func (s *Server) DeleteDocument(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.billingSvc.Delete(c.Request.Context(), kind, c.Param("id")); err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
	}
}

func (s *Server) ListDocuments(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query struct {
			pagination.Pagination
			Status   string `form:"status"`
			PartyID  string `form:"party_id"`
			Search   string `form:"search"`
			DateFrom string `form:"date_from"`
			DateTo   string `form:"date_to"`
		}
		if err := c.ShouldBindQuery(&query); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		dateFrom, err := parseOptionalTime(query.DateFrom, false)
		if err != nil {
			AbortWithError(c, newValidationError("date_from", "invalid_date_from", "invalid date_from"))
			return
		}
		dateTo, err := parseOptionalTime(query.DateTo, true)
		if err != nil {
			AbortWithError(c, newValidationError("date_to", "invalid_date_to", "invalid date_to"))
			return
		}

		resp, err := s.billingSvc.List(c.Request.Context(), billingdomain.ListDocumentsRequest{
			Kind:      kind,
			PageToken: query.PageToken,
			PageSize:  int32(query.PageSize),
			Status:    query.Status,
			PartyID:   query.PartyID,
			Search:    query.Search,
			DateFrom:  dateFrom,
			DateTo:    dateTo,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) NextDocumentNumber(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		next, err := s.billingSvc.NextNumber(c.Request.Context(), kind)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": gin.H{"nextSequence": next}})
	}
}

type recordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Mode        string          `json:"paymentMode"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date"`
}

func (s *Server) RecordDocumentPayment(kind billingdomain.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}

		err := s.billingSvc.RecordPayment(c.Request.Context(), billingdomain.RecordPaymentRequest{
			Kind:        kind,
			ID:          c.Param("id"),
			Amount:      req.Amount,
			Mode:        req.Mode,
			Description: req.Description,
			Date:        req.Date,
		})
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "payment recorded"})
	}
}

func (s *Server) ConvertQuote(c *gin.Context) {
	resp, err := s.billingSvc.ConvertQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}
