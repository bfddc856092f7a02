package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	partydomain "github.com/haren2312/OptimumERP/internal/party/domain"
	"github.com/haren2312/OptimumERP/pkg/db/pagination"
)

type createPartyRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	GSTNo          string `json:"gstNo"`
	PANNo          string `json:"panNo"`
	BillingAddress string `json:"billingAddress"`
}

func (s *Server) CreateParty(c *gin.Context) {
	var req createPartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.partySvc.Create(c.Request.Context(), partydomain.CreatePartyRequest{
		Name:           req.Name,
		Type:           partydomain.PartyType(req.Type),
		Email:          req.Email,
		Phone:          req.Phone,
		GSTNo:          req.GSTNo,
		PANNo:          req.PANNo,
		BillingAddress: req.BillingAddress,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

type updatePartyRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	GSTNo          *string `json:"gstNo"`
	PANNo          *string `json:"panNo"`
	BillingAddress *string `json:"billingAddress"`
}

func (s *Server) UpdateParty(c *gin.Context) {
	var req updatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.partySvc.Update(c.Request.Context(), partydomain.UpdatePartyRequest{
		ID:             c.Param("id"),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		GSTNo:          req.GSTNo,
		PANNo:          req.PANNo,
		BillingAddress: req.BillingAddress,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetParty(c *gin.Context) {
	resp, err := s.partySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteParty(c *gin.Context) {
	if err := s.partySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "party deleted"})
}

func (s *Server) ListParties(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Type   string `form:"type"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.partySvc.List(c.Request.Context(), partydomain.ListPartiesRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Type:      partydomain.PartyType(query.Type),
		Search:    query.Search,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
