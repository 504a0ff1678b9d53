package models

import (
	"time"
)

// AgreementStatus is a closed enum. Transitions only happen through
// NextStatus, which consults the transition table below.
type AgreementStatus string

// AgreementAction is an operation attempted against an agreement.
type AgreementAction string

const (
	AgreementStatusSent           AgreementStatus = "sent"
	AgreementStatusAccepted       AgreementStatus = "accepted"
	AgreementStatusSigned         AgreementStatus = "signed"
	AgreementStatusPaymentPending AgreementStatus = "payment_pending"
	AgreementStatusUnderReview    AgreementStatus = "under_review"
	AgreementStatusPaid           AgreementStatus = "paid"
	AgreementStatusRejected       AgreementStatus = "rejected"
	AgreementStatusExpired        AgreementStatus = "expired"

	AgreementActionAccept         AgreementAction = "accept"
	AgreementActionSign           AgreementAction = "sign"
	AgreementActionRequirePayment AgreementAction = "require_payment"
	AgreementActionSubmitReceipt  AgreementAction = "submit_receipt"
	AgreementActionApprove        AgreementAction = "approve"
	AgreementActionReject         AgreementAction = "reject"
	AgreementActionExpire         AgreementAction = "expire"
)

// agreementTransitions maps (current status, action) to the next status.
// Anything not listed here is an illegal transition. "paid" and "expired"
// are absorbing; "rejected" payment review resets to payment_pending.
var agreementTransitions = map[AgreementStatus]map[AgreementAction]AgreementStatus{
	AgreementStatusSent: {
		AgreementActionAccept: AgreementStatusAccepted,
		AgreementActionSign:   AgreementStatusSigned,
		AgreementActionExpire: AgreementStatusExpired,
	},
	AgreementStatusAccepted: {
		// Both mechanisms are settable on the same submission.
		AgreementActionAccept:         AgreementStatusAccepted,
		AgreementActionSign:           AgreementStatusSigned,
		AgreementActionRequirePayment: AgreementStatusPaymentPending,
		AgreementActionExpire:         AgreementStatusExpired,
	},
	AgreementStatusSigned: {
		AgreementActionAccept:         AgreementStatusSigned,
		AgreementActionSign:           AgreementStatusSigned,
		AgreementActionRequirePayment: AgreementStatusPaymentPending,
		AgreementActionExpire:         AgreementStatusExpired,
	},
	AgreementStatusPaymentPending: {
		AgreementActionSubmitReceipt: AgreementStatusUnderReview,
		// Staff may approve directly, e.g. for cash payments handled offline.
		AgreementActionApprove: AgreementStatusPaid,
		AgreementActionExpire:  AgreementStatusExpired,
	},
	AgreementStatusUnderReview: {
		AgreementActionApprove: AgreementStatusPaid,
		AgreementActionReject:  AgreementStatusPaymentPending,
	},
	// paid, rejected, expired: no outgoing transitions.
}

// NextStatus returns the status reached by applying action in the current
// status, or false when the transition is illegal.
func NextStatus(current AgreementStatus, action AgreementAction) (AgreementStatus, bool) {
	actions, ok := agreementTransitions[current]
	if !ok {
		return current, false
	}
	next, ok := actions[action]
	return next, ok
}

// CanTransition reports whether action is legal in the current status.
func CanTransition(current AgreementStatus, action AgreementAction) bool {
	_, ok := NextStatus(current, action)
	return ok
}

type AgreementTemplate struct {
	BaseModel
	Title    string `gorm:"not null"`
	Text     string `gorm:"type:text;not null"`
	IsActive bool   `gorm:"default:true"`
}

// Agreement is one offer sent to exactly one user. The token is the only
// external address for it; it is generated once and never reissued.
type Agreement struct {
	BaseModel
	UserID     string  `gorm:"not null;index"`
	CaseID     *string `gorm:"index"`
	TemplateID *string

	Token      string `gorm:"uniqueIndex;size:64;not null"`
	OfficeName string
	Title      string `gorm:"not null"`
	Text       string `gorm:"type:text"`

	AcceptedCheckbox bool `gorm:"default:false"`
	AcceptedAt       *time.Time
	SignaturePath    string
	SignedAt         *time.Time

	PaymentRequired     bool          `gorm:"default:true"`
	PaymentMethod       PaymentMethod `gorm:"type:varchar(20);default:'sadad'"`
	PaymentAmount       float64
	OfficeInvoiceNumber string

	ClientPaymentReceipt   string // receipt code typed in by the client
	ClientPaidAt           *time.Time
	ClientReceiptImagePath string
	ClientReceiptImageAt   *time.Time

	ReceiptNumber  string // office-side receipt number, set on approval
	PaidAt         *time.Time
	ReceiptPDFPath string

	Status AgreementStatus `gorm:"type:varchar(30);not null;default:'sent'"`
	SentAt time.Time       `gorm:"autoCreateTime"`
}

// IsCompleted is the single completion predicate consulted by the gating
// layer: paid, or accepted/signed when no payment is required.
func (a *Agreement) IsCompleted() bool {
	if a.Status == AgreementStatusPaid {
		return true
	}
	if !a.PaymentRequired &&
		(a.Status == AgreementStatusAccepted || a.Status == AgreementStatusSigned) {
		return true
	}
	return false
}

// IsLocked reports whether the agreement is read-only for the client
// while the office reviews a submitted receipt.
func (a *Agreement) IsLocked() bool {
	return a.Status == AgreementStatusUnderReview
}
