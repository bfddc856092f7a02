package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	organizationdomain "github.com/haren2312/OptimumERP/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	GSTNo   string `json:"gstNo"`
	PANNo   string `json:"panNo"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.Create(c.Request.Context(), organizationdomain.CreateOrganizationRequest{
		Name:    req.Name,
		Address: req.Address,
		Email:   req.Email,
		Phone:   req.Phone,
		GSTNo:   req.GSTNo,
		PANNo:   req.PANNo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetOrganization(c *gin.Context) {
	resp, err := s.organizationSvc.GetByID(c.Request.Context(), c.Param("orgId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetSettings(c *gin.Context) {
	resp, err := s.organizationSvc.GetSettings(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateSettingsRequest struct {
	Currency *string           `json:"currency"`
	FYStart  *time.Time        `json:"financialYearStart"`
	FYEnd    *time.Time        `json:"financialYearEnd"`
	Prefixes map[string]string `json:"transactionPrefix"`
}

func (s *Server) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.organizationSvc.UpdateSettings(c.Request.Context(), organizationdomain.UpdateSettingsRequest{
		Currency: req.Currency,
		FYStart:  req.FYStart,
		FYEnd:    req.FYEnd,
		Prefixes: req.Prefixes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
