package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"lexportal_backend/internal/models"
	"lexportal_backend/internal/repositories"
	"lexportal_backend/pkg/contextkeys"
)

type stubAccounts struct {
	user *models.User
	err  error
}

func (s *stubAccounts) FindByID(id string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubAgreements struct {
	agreement *models.Agreement
	err       error
}

func (s *stubAgreements) NewestIncomplete(userID string) (*models.Agreement, error) {
	return s.agreement, s.err
}

func gateRouter(userID string, accounts accountSource, agreements pendingAgreementSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set(string(contextkeys.UserIDContextKey), userID)
		}
	})
	r.Use(AccountGateMiddleware(accounts, agreements))
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/api/v1/cases", ok)
	r.GET("/api/v1/dashboard", ok)
	r.GET("/api/v1/payment/:token", ok)
	return r
}

func doGet(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestAccountGate_ActiveClientPasses(t *testing.T) {
	accounts := &stubAccounts{user: &models.User{
		Role:          models.UserRoleClient,
		AccountStatus: models.AccountStatusActive,
	}}
	r := gateRouter("u1", accounts, &stubAgreements{})

	w := doGet(r, "/api/v1/cases")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccountGate_StaffAlwaysPasses(t *testing.T) {
	accounts := &stubAccounts{user: &models.User{
		Role:          models.UserRoleLawyer,
		AccountStatus: models.AccountStatusPaymentPending,
	}}
	r := gateRouter("u1", accounts, &stubAgreements{})

	w := doGet(r, "/api/v1/cases")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccountGate_UnauthenticatedPassesThrough(t *testing.T) {
	// No user in context: authentication is a different middleware's job.
	r := gateRouter("", &stubAccounts{err: repositories.ErrUserNotFound}, &stubAgreements{})

	w := doGet(r, "/api/v1/cases")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAccountGate_MissingAccountIsUnauthorized(t *testing.T) {
	r := gateRouter("u1", &stubAccounts{err: repositories.ErrUserNotFound}, &stubAgreements{})

	w := doGet(r, "/api/v1/cases")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountGate_RedirectsToPendingStep(t *testing.T) {
	tests := []struct {
		name         string
		status       models.AgreementStatus
		wantLocation string
	}{
		{"sent goes to agreement step", models.AgreementStatusSent, "/api/v1/agreement/tok123"},
		{"payment pending goes to payment step", models.AgreementStatusPaymentPending, "/api/v1/payment/tok123"},
		{"under review stays on payment step", models.AgreementStatusUnderReview, "/api/v1/payment/tok123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accounts := &stubAccounts{user: &models.User{
				Role:          models.UserRoleClient,
				AccountStatus: models.AccountStatusPaymentPending,
			}}
			agreements := &stubAgreements{agreement: &models.Agreement{
				Token:  "tok123",
				Status: tt.status,
			}}
			r := gateRouter("u1", accounts, agreements)

			w := doGet(r, "/api/v1/cases")
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
		})
	}
}

func TestAccountGate_ExemptPathsStayReachable(t *testing.T) {
	accounts := &stubAccounts{user: &models.User{
		Role:          models.UserRoleClient,
		AccountStatus: models.AccountStatusPaymentPending,
	}}
	agreements := &stubAgreements{agreement: &models.Agreement{
		Token:  "tok123",
		Status: models.AgreementStatusPaymentPending,
	}}
	r := gateRouter("u1", accounts, agreements)

	assert.Equal(t, http.StatusOK, doGet(r, "/api/v1/dashboard").Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/api/v1/payment/tok123").Code)
}

func TestAccountGate_NoAgreementGoesToSuspended(t *testing.T) {
	accounts := &stubAccounts{user: &models.User{
		Role:          models.UserRoleClient,
		AccountStatus: models.AccountStatusPendingAgreement,
	}}
	r := gateRouter("u1", accounts, &stubAgreements{err: errors.New("lookup failed")})

	w := doGet(r, "/api/v1/cases")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/v1/suspended", w.Header().Get("Location"))
}
