package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/haren2312/OptimumERP/internal/usercontext"
)

// HeaderUser carries the acting user's ID, stamped by the auth proxy in
// front of this service.
const HeaderUser = "X-User-ID"

// OrgContext resolves the :orgId path parameter, verifies the org exists
// and injects its ID into the request context for the org-scoped services.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.Param("orgId"))
		orgID, err := snowflake.ParseString(raw)
		if err != nil || orgID == 0 {
			AbortWithError(c, newValidationError("orgId", "invalid_organization", "invalid organization id"))
			return
		}

		if _, err := s.organizationSvc.GetByID(c.Request.Context(), raw); err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// UserContext propagates the acting user ID, when present, for audit
// stamping. Requests without the header pass through.
func (s *Server) UserContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUser))
		if raw != "" {
			if userID, err := snowflake.ParseString(raw); err == nil && userID != 0 {
				ctx := usercontext.WithUserID(c.Request.Context(), userID)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}
