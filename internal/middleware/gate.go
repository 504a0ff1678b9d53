package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/pkg/apperrors"
	"lexportal_backend/pkg/contextkeys"
)

// pendingAgreementSource is the one lookup the gate needs from the
// agreement service.
type pendingAgreementSource interface {
	NewestIncomplete(userID string) (*models.Agreement, error)
}

// accountSource is the one lookup the gate needs from the user store.
type accountSource interface {
	FindByID(id string) (*models.User, error)
}

var _ accountSource = (repositories.UserRepository)(nil)

// gateExemptPrefixes are reachable even while the account is gated: the
// dashboard (so the user sees their pending box), the suspended page,
// the agreement and payment steps themselves, and logout.
var gateExemptPrefixes = []string{
	"/api/v1/dashboard",
	"/api/v1/suspended",
	"/api/v1/agreement/",
	"/api/v1/payment/",
	"/api/v1/auth/logout",
}

// AccountGateMiddleware redirects gated clients to the in-progress step
// of their newest agreement. Status is read from the DB on every request
// because staff approval can flip it between two requests.
func AccountGateMiddleware(userRepo accountSource, agreements pendingAgreementSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(string(contextkeys.UserIDContextKey))
		if userID == "" {
			c.Next()
			return
		}

		user, err := userRepo.FindByID(userID)
		if err != nil {
			appErr := apperrors.NewUnauthorizedError("Account no longer exists")
			c.AbortWithStatusJSON(appErr.HTTPCode, gin.H{"error": appErr})
			return
		}

		// Staff and fully active clients pass through.
		if user.IsStaff() || !user.IsSuspended() {
			c.Next()
			return
		}

		for _, prefix := range gateExemptPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		agreement, err := agreements.NewestIncomplete(userID)
		if err != nil || agreement == nil {
			c.Redirect(http.StatusSeeOther, "/api/v1/suspended")
			c.Abort()
			return
		}

		c.Redirect(http.StatusSeeOther, gateTarget(agreement))
		c.Abort()
	}
}

// gateTarget maps the agreement's status to its pending step.
func gateTarget(a *models.Agreement) string {
	switch a.Status {
	case models.AgreementStatusPaymentPending, models.AgreementStatusUnderReview:
		return "/api/v1/payment/" + a.Token
	default:
		return "/api/v1/agreement/" + a.Token
	}
}
