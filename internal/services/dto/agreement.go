package dto

import "time"

type IssueAgreementRequest struct {
	UserID          string  `json:"user_id" binding:"required" validate:"required,uuid"`
	CaseID          string  `json:"case_id" validate:"omitempty,uuid"`
	TemplateID      string  `json:"template_id" validate:"omitempty,uuid"`
	Title           string  `json:"title" validate:"omitempty,max=200"`
	Text            string  `json:"text" validate:"omitempty,max=50000"`
	PaymentRequired *bool   `json:"payment_required"`
	PaymentMethod   string  `json:"payment_method" validate:"omitempty,is-payment-method"`
	PaymentAmount   float64 `json:"payment_amount" validate:"omitempty,gte=0"`
	InvoiceNumber   string  `json:"invoice_number" validate:"omitempty,max=64"`
}

// AcceptAgreementRequest carries the client's acceptance submission. The
// signature is a base64 data URL from the signature pad; checkbox and
// signature may be sent together.
type AcceptAgreementRequest struct {
	AcceptedCheckbox bool   `json:"accepted_checkbox"`
	SignatureData    string `json:"signature_data"`
}

type SubmitReceiptRequest struct {
	ReceiptCode string `form:"receipt_code" json:"receipt_code"`
}

type ApprovePaymentRequest struct {
	ReceiptNumber string `json:"receipt_number" validate:"omitempty,max=64"`
}

type RejectPaymentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

type CreateTemplateRequest struct {
	Title    string `json:"title" binding:"required" validate:"required,max=200"`
	Text     string `json:"text" binding:"required" validate:"required,max=50000"`
	IsActive *bool  `json:"is_active"`
}

type AgreementResponse struct {
	ID               string     `json:"id"`
	Token            string     `json:"token"`
	OfficeName       string     `json:"office_name"`
	Title            string     `json:"title"`
	Text             string     `json:"text,omitempty"`
	Status           string     `json:"status"`
	AcceptedCheckbox bool       `json:"accepted_checkbox"`
	AcceptedAt       *time.Time `json:"accepted_at,omitempty"`
	SignedAt         *time.Time `json:"signed_at,omitempty"`
	PaymentRequired  bool       `json:"payment_required"`
	PaymentMethod    string     `json:"payment_method,omitempty"`
	PaymentAmount    float64    `json:"payment_amount,omitempty"`
	InvoiceNumber    string     `json:"invoice_number,omitempty"`
	ReceiptNumber    string     `json:"receipt_number,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	SentAt           time.Time  `json:"sent_at"`
	Completed        bool       `json:"completed"`
	Locked           bool       `json:"locked"`
}

type TemplateResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
