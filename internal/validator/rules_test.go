package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleSubject struct {
	Username    string `json:"username" validate:"omitempty,username"`
	Phone       string `json:"phone" validate:"omitempty,phone"`
	ReceiptCode string `json:"receipt_code" validate:"omitempty,receipt_code"`
	Notes       string `json:"notes" validate:"omitempty,safe_text"`
}

func fieldError(t *testing.T, err error, field string) bool {
	t.Helper()
	if err == nil {
		return false
	}
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	_, ok := vErr.Errors[field]
	return ok
}

func TestUsernameRule(t *testing.T) {
	v := New()

	tests := []struct {
		value string
		valid bool
	}{
		{"alice", true},
		{"alice_99", true},
		{"Al1_ce", true},
		{"abc", false},           // too short
		{"has space", false},
		{"dash-ed", false},
		{"семен", false},         // non-latin letters
		{"a_very_long_username_over_thirty_chars", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := v.Validate(&ruleSubject{Username: tt.value})
			assert.Equal(t, !tt.valid, fieldError(t, err, "username"))
		})
	}
}

func TestPhoneRule(t *testing.T) {
	v := New()

	tests := []struct {
		value string
		valid bool
	}{
		{"218912345678", true},
		{"+218912345678", true},  // leading plus allowed
		{"912345678", true},
		{"12345678", false},      // too short
		{"1234567890123456", false},
		{"91-234-5678", false},
		{"abc123456789", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := v.Validate(&ruleSubject{Phone: tt.value})
			assert.Equal(t, !tt.valid, fieldError(t, err, "phone"))
		})
	}
}

func TestReceiptCodeRule(t *testing.T) {
	v := New()

	tests := []struct {
		value string
		valid bool
	}{
		{"SDD-2026-0042", true},
		{"abcd", true},
		{"1234-5678", true},
		{"ab", false},            // too short
		{"has space", false},
		{"code$", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := v.Validate(&ruleSubject{ReceiptCode: tt.value})
			assert.Equal(t, !tt.valid, fieldError(t, err, "receipt_code"))
		})
	}
}

func TestSafeTextRule(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"latin sentence", "Need help with a contract dispute.", true},
		{"arabic sentence", "أحتاج مساعدة في نزاع تعاقدي", true},
		{"mixed with punctuation", "Case #42 (urgent), see attachment: file.pdf", true},
		{"angle brackets rejected", "<script>alert(1)</script>", false},
		{"braces rejected", "{payload}", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&ruleSubject{Notes: tt.value})
			assert.Equal(t, !tt.valid, fieldError(t, err, "notes"))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "line one\nline two", CleanText("  line one\r\nline two \n"))
	assert.Equal(t, "a\nb", CleanText("a\rb"))
}

func TestValidReceiptCode(t *testing.T) {
	assert.True(t, ValidReceiptCode("SDD-2026-0042"))
	assert.False(t, ValidReceiptCode(""))
	assert.False(t, ValidReceiptCode("bad code"))
}
