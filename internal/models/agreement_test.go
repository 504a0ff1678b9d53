package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStatus_LegalTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current AgreementStatus
		action  AgreementAction
		want    AgreementStatus
	}{
		{"sent accept", AgreementStatusSent, AgreementActionAccept, AgreementStatusAccepted},
		{"sent sign", AgreementStatusSent, AgreementActionSign, AgreementStatusSigned},
		{"sent expire", AgreementStatusSent, AgreementActionExpire, AgreementStatusExpired},
		{"accepted require payment", AgreementStatusAccepted, AgreementActionRequirePayment, AgreementStatusPaymentPending},
		{"signed require payment", AgreementStatusSigned, AgreementActionRequirePayment, AgreementStatusPaymentPending},
		{"payment pending submit", AgreementStatusPaymentPending, AgreementActionSubmitReceipt, AgreementStatusUnderReview},
		{"payment pending direct approve", AgreementStatusPaymentPending, AgreementActionApprove, AgreementStatusPaid},
		{"under review approve", AgreementStatusUnderReview, AgreementActionApprove, AgreementStatusPaid},
		{"under review reject", AgreementStatusUnderReview, AgreementActionReject, AgreementStatusPaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextStatus(tt.current, tt.action)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStatus_IllegalTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current AgreementStatus
		action  AgreementAction
	}{
		{"sent cannot submit receipt", AgreementStatusSent, AgreementActionSubmitReceipt},
		{"sent cannot approve", AgreementStatusSent, AgreementActionApprove},
		{"under review cannot accept", AgreementStatusUnderReview, AgreementActionAccept},
		{"under review cannot submit again", AgreementStatusUnderReview, AgreementActionSubmitReceipt},
		{"paid is absorbing", AgreementStatusPaid, AgreementActionAccept},
		{"paid cannot be reopened", AgreementStatusPaid, AgreementActionReject},
		{"expired is absorbing", AgreementStatusExpired, AgreementActionAccept},
		{"payment cannot be skipped", AgreementStatusAccepted, AgreementActionApprove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NextStatus(tt.current, tt.action)
			assert.False(t, ok)
		})
	}
}

func TestIsCompleted(t *testing.T) {
	tests := []struct {
		name            string
		status          AgreementStatus
		paymentRequired bool
		want            bool
	}{
		{"paid always completed", AgreementStatusPaid, true, true},
		{"paid without payment flag", AgreementStatusPaid, false, true},
		{"accepted free agreement", AgreementStatusAccepted, false, true},
		{"signed free agreement", AgreementStatusSigned, false, true},
		{"accepted payable agreement", AgreementStatusAccepted, true, false},
		{"signed payable agreement", AgreementStatusSigned, true, false},
		{"sent never completed", AgreementStatusSent, false, false},
		{"payment pending not completed", AgreementStatusPaymentPending, true, false},
		{"under review not completed", AgreementStatusUnderReview, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Agreement{Status: tt.status, PaymentRequired: tt.paymentRequired}
			assert.Equal(t, tt.want, a.IsCompleted())
		})
	}
}

func TestIsLocked(t *testing.T) {
	assert.True(t, (&Agreement{Status: AgreementStatusUnderReview}).IsLocked())
	assert.False(t, (&Agreement{Status: AgreementStatusPaymentPending}).IsLocked())
	assert.False(t, (&Agreement{Status: AgreementStatusPaid}).IsLocked())
}
