package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/haren2312/OptimumERP/internal/billing/domain"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
)

func (s *Server) ListTransactions(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Kind     string `form:"kind"`
		PartyID  string `form:"party_id"`
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

	resp, err := s.billingSvc.ListTransactions(c.Request.Context(), billingdomain.ListTransactionsRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		DocKind:   billingdomain.Kind(query.Kind),
		PartyID:   query.PartyID,
		DateFrom:  dateFrom,
		DateTo:    dateTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
