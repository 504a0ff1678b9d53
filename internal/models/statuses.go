package models

type AccountStatus string
type UserRole string
type CaseStatus string
type CaseType string
type TimelineStage string
type TimelineOutcome string
type PaymentMethod string
type MessageDirection string

const (
	// AccountStatus gates which routes a user can reach. Mutated by
	// registration, agreement issuance and payment approval.
	AccountStatusActive           AccountStatus = "active"
	AccountStatusPendingAgreement AccountStatus = "pending_agreement"
	AccountStatusPaymentPending   AccountStatus = "payment_pending"

	UserRoleClient UserRole = "client"
	UserRoleLawyer UserRole = "lawyer"
	UserRoleAdmin  UserRole = "admin"

	CaseStatusNew         CaseStatus = "new"
	CaseStatusUnderReview CaseStatus = "under_review"
	CaseStatusInProgress  CaseStatus = "in_progress"
	CaseStatusClosed      CaseStatus = "closed"

	CaseTypeCivil      CaseType = "civil"
	CaseTypeCriminal   CaseType = "criminal"
	CaseTypeCommercial CaseType = "commercial"
	CaseTypeFamily     CaseType = "family"
	CaseTypeLabor      CaseType = "labor"
	CaseTypeOther      CaseType = "other"

	TimelineStageRegistered    TimelineStage = "registered"
	TimelineStageCaseSubmitted TimelineStage = "case_submitted"
	TimelineStageUnderReview   TimelineStage = "under_review"
	TimelineStageSessions      TimelineStage = "sessions"
	TimelineStageJudgment      TimelineStage = "judgment"
	TimelineStageAppeal        TimelineStage = "appeal"
	TimelineStageClosed        TimelineStage = "closed"

	TimelineOutcomeWin     TimelineOutcome = "win"
	TimelineOutcomeLose    TimelineOutcome = "lose"
	TimelineOutcomeAppeal  TimelineOutcome = "appeal"
	TimelineOutcomePending TimelineOutcome = "pending"

	PaymentMethodSadad        PaymentMethod = "sadad"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCash         PaymentMethod = "cash"

	MessageDirectionClient MessageDirection = "client"
	MessageDirectionLawyer MessageDirection = "lawyer"
)

// ValidCaseType reports whether t is one of the allowed case types.
func ValidCaseType(t CaseType) bool {
	switch t {
	case CaseTypeCivil, CaseTypeCriminal, CaseTypeCommercial, CaseTypeFamily, CaseTypeLabor, CaseTypeOther:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether m is one of the allowed payment methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodSadad, PaymentMethodBankTransfer, PaymentMethodCash:
		return true
	}
	return false
}
