package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/haren2312/OptimumERP/internal/billing/gst"
)

func (s *Server) ListTaxRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gst.Rates})
}

func (s *Server) ListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gst.Units})
}
