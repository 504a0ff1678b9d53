package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexportal_backend/internal/services"
	"lexportal_backend/internal/services/dto"
)

// AgreementHandler serves the client-facing agreement and payment steps.
// Every route is addressed by the agreement's opaque token.
type AgreementHandler struct {
	*BaseHandler
	agreementService services.AgreementService
}

func NewAgreementHandler(base *BaseHandler, agreementService services.AgreementService) *AgreementHandler {
	return &AgreementHandler{
		BaseHandler:      base,
		agreementService: agreementService,
	}
}

// Get shows the agreement to its owner.
// GET /api/v1/agreement/:token
func (h *AgreementHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.agreementService.GetForUser(c.Param("token"), userID, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Accept records checkbox acceptance and/or a drawn signature.
// POST /api/v1/agreement/:token
func (h *AgreementHandler) Accept(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AcceptAgreementRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.agreementService.AcceptOrSign(c.Param("token"), userID, &req, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PaymentView shows the payment step.
// GET /api/v1/payment/:token
func (h *AgreementHandler) PaymentView(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.agreementService.GetForUser(c.Param("token"), userID, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// SubmitReceipt takes the multipart receipt submission: a code field and
// an image file. Validation failures leave the agreement untouched.
// POST /api/v1/payment/:token
func (h *AgreementHandler) SubmitReceipt(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	receiptCode := c.PostForm("receipt_code")

	var image *services.ReceiptImage
	fileHeader, err := c.FormFile("receipt_image")
	if err == nil && fileHeader != nil {
		f, openErr := fileHeader.Open()
		if openErr != nil {
			h.HandleServiceError(c, openErr)
			return
		}
		defer f.Close()

		image = &services.ReceiptImage{
			Reader:      f,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Size:        fileHeader.Size,
			Filename:    fileHeader.Filename,
		}
	}

	resp, err := h.agreementService.SubmitReceipt(c.Request.Context(), c.Param("token"), userID, receiptCode, image, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PaymentPending confirms the under-review state after submission.
// GET /api/v1/payment/:token/pending
func (h *AgreementHandler) PaymentPending(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.agreementService.GetForUser(c.Param("token"), userID, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agreement": resp,
		"message":   "Your receipt was submitted and is awaiting office review.",
	})
}

// PaymentSuccess is the completion page once the office approved.
// GET /api/v1/payment/:token/success
func (h *AgreementHandler) PaymentSuccess(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.agreementService.GetForUser(c.Param("token"), userID, h.AuditContext(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if !resp.Completed {
		c.Redirect(http.StatusSeeOther, "/api/v1/payment/"+resp.Token)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agreement": resp,
		"message":   "Payment confirmed. Your account is fully active.",
	})
}
