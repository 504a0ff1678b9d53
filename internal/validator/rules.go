package validator

import (
	"log"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"lexportal_backend/internal/models"
)

// Whitelist patterns. Inputs that do not match are rejected outright;
// sanitization is normalization only, never a security boundary.
var (
	usernameRe    = regexp.MustCompile(`^[a-zA-Z0-9_]{4,30}$`)
	phoneRe       = regexp.MustCompile(`^[0-9]{9,15}$`)
	receiptCodeRe = regexp.MustCompile(`^[A-Za-z0-9\-]{4,64}$`)
	safeTextRe    = regexp.MustCompile(`^[\s\x{0600}-\x{06FF}a-zA-Z0-9\.\,\:\;\-\_\(\)\[\]\!\?\@\#\/\\]+$`)
)

// registerCustomRules registers the portal's validation tags. A failed
// registration is a startup error, not a request error.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("username", validateUsername)
	mustRegister("phone", validatePhone)
	mustRegister("receipt_code", validateReceiptCode)
	mustRegister("safe_text", validateSafeText)
	mustRegister("is-case-type", validateCaseType)
	mustRegister("is-payment-method", validatePaymentMethod)
}

func validateUsername(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' handles empty values
	}
	return usernameRe.MatchString(value)
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	// allow a leading + then strip it
	value = strings.TrimPrefix(value, "+")
	return phoneRe.MatchString(value)
}

func validateReceiptCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return receiptCodeRe.MatchString(value)
}

// validateSafeText whitelists free-text fields: Arabic script, Latin,
// digits and common punctuation. Rejects unexpected symbols and scripts.
func validateSafeText(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return safeTextRe.MatchString(value)
}

func validateCaseType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidCaseType(models.CaseType(value))
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidPaymentMethod(models.PaymentMethod(value))
}

// CleanText normalizes newlines and trims surrounding whitespace.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.TrimSpace(s)
}

// ValidReceiptCode is the standalone form of the receipt_code rule, used
// by the payment flow outside struct binding.
func ValidReceiptCode(code string) bool {
	return receiptCodeRe.MatchString(code)
}
