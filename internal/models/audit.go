package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEventType is a closed enumeration of recorded events.
type AuditEventType string

const (
	AuditAuthLogin      AuditEventType = "auth_login"
	AuditAuthLogout     AuditEventType = "auth_logout"
	AuditAuthFailed     AuditEventType = "auth_failed"
	AuditProfileUpdate  AuditEventType = "profile_update"
	AuditCaseCreate     AuditEventType = "case_create"
	AuditAgreementAccept AuditEventType = "agreement_accept"
	AuditAgreementSign  AuditEventType = "agreement_sign"
	AuditPaymentSubmit  AuditEventType = "payment_submit"
	AuditPaymentApprove AuditEventType = "payment_approve"
	AuditPaymentReject  AuditEventType = "payment_reject"
	AuditMasterMessage  AuditEventType = "master_message"
	AuditDocumentUpload AuditEventType = "document_upload"
	AuditAccessDenied   AuditEventType = "access_denied"
	AuditSecurityBlock  AuditEventType = "security_block"
	AuditView           AuditEventType = "view"
)

// AuditEvent is append-only: inserted and read, never updated or deleted.
// UserID is nullable so entries survive user deletion.
type AuditEvent struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	UserID    *string        `gorm:"index"`
	EventType AuditEventType `gorm:"type:varchar(40);not null;index"`
	Path      string         `gorm:"size:300"`
	IP        string         `gorm:"size:64"`
	UserAgent string         `gorm:"size:300"`
	Meta      datatypes.JSON
	CreatedAt time.Time `gorm:"index"`
}
