package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/models"
	"lexportal_backend/internal/security"
	"lexportal_backend/internal/services"
	"lexportal_backend/pkg/apperrors"
)

// RateLimitMiddleware applies a fixed-window budget per (IP, path) to
// mutating requests. Exceeding the budget is a hard denial for the rest
// of the window, recorded once per denied request.
func RateLimitMiddleware(limiter *security.FixedWindowLimiter, audit services.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || c.Request.Method == http.MethodGet ||
			c.Request.Method == http.MethodHead || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if !limiter.Allow(c.Request.Context(), c.ClientIP(), c.FullPath()) {
			audit.Record(nil, models.AuditSecurityBlock, services.AuditContext{
				Path:      c.Request.URL.Path,
				IP:        c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
				Meta:      map[string]interface{}{"reason": "rate_limit"},
			})

			appErr := apperrors.ErrTooManyRequests
			c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{"error": appErr})
			return
		}

		c.Next()
	}
}
