package apperrors

import (
	"net/http"
)

/*
Factories and predefined variables for the portal's domain errors.
Services return these; handlers translate them via HandleError.
*/

// =========================================================================
// Factories (wrap repository errors)
// =========================================================================

// ErrNotFound converts a repository miss (gorm.ErrRecordNotFound etc.) to a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists converts a uniqueness violation to a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation builds a 400 for operations not allowed by business rules.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus builds a 409 for actions attempted in the wrong lifecycle state.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Auth
// =========================================================================

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid username or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

var ErrUsernameTaken = New(
	CodeAlreadyExists,
	"auth",
	"Username is already taken",
	http.StatusConflict,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email is already registered",
	http.StatusConflict,
)

var ErrPhoneAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Phone number is already registered",
	http.StatusConflict,
)

// ErrAccountLocked is returned before credentials are even checked once the
// failed-login counter for the (IP, username) pair reaches its threshold.
var ErrAccountLocked = New(
	CodeAccountLocked,
	"auth",
	"Too many failed login attempts. Try again later.",
	http.StatusForbidden,
)

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// =========================================================================
// Agreements
// =========================================================================

// ErrAgreementAccessDenied is a hard denial: the agreement belongs to another
// user. Never downgraded to a redirect.
var ErrAgreementAccessDenied = New(
	CodeForbidden,
	"agreement",
	"You are not allowed to access this agreement",
	http.StatusForbidden,
)

var ErrAgreementLocked = New(
	CodeInvalidStatus,
	"agreement",
	"Agreement is under office review and cannot be modified",
	http.StatusConflict,
)

var ErrAcceptanceRequired = New(
	CodeValidationFailed,
	"agreement",
	"Tick the acceptance box or provide a signature",
	http.StatusBadRequest,
)

var ErrInvalidSignature = New(
	CodeValidationFailed,
	"agreement",
	"Could not decode the signature. Please try again.",
	http.StatusBadRequest,
)

// =========================================================================
// Payments
// =========================================================================

var ErrReceiptCodeRequired = New(
	CodeValidationFailed,
	"payment",
	"Receipt code is required",
	http.StatusBadRequest,
)

var ErrInvalidReceiptCode = New(
	CodeValidationFailed,
	"payment",
	"Receipt code may only contain letters, digits and dashes (4-64)",
	http.StatusBadRequest,
)

var ErrReceiptImageRequired = New(
	CodeValidationFailed,
	"payment",
	"Receipt image is required",
	http.StatusBadRequest,
)

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"payment",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"payment",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// =========================================================================
// Rate limiting
// =========================================================================

// ErrTooManyRequests is a hard denial for the remainder of the window.
var ErrTooManyRequests = New(
	CodeRateLimited,
	"security",
	"Request temporarily blocked due to a high number of attempts",
	http.StatusForbidden,
)
