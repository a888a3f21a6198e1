package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes exposed to clients. Each code maps to one kind of the error taxonomy.
const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeDuplicateKey        = "DUPLICATE_KEY"
	CodeInvalidID           = "INVALID_ID"
	CodeNotFound            = "NOT_FOUND"
	CodeEmailInUse          = "EMAIL_IN_USE"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidRefreshToken = "INVALID_REFRESH_TOKEN"
	CodeRefreshTokenExpired = "REFRESH_TOKEN_EXPIRED"
	CodeTokenNotProvided    = "TOKEN_NOT_PROVIDED"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenExpired        = "TOKEN_EXPIRED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeRateLimited         = "RATE_LIMITED"
	CodeUnavailable         = "SERVICE_UNAVAILABLE"
	CodeTokenIssuance       = "TOKEN_ISSUANCE_FAILED"
	CodeInternal            = "INTERNAL_ERROR"
)

// Messages that never vary with the underlying cause.
const (
	MsgInternal         = "Something went wrong"
	MsgUnavailable      = "Service temporarily unavailable"
	MsgInvalidID        = "Invalid ID format"
	MsgInvalidToken     = "Invalid token"
	MsgTokenExpired     = "Token expired"
	MsgTokenNotProvided = "Token not provided"
)

// Sentinels returned by repositories regardless of the backing store.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrInvalidID      = errors.New("invalid identifier")
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	// Operational marks expected business failures whose message is safe to show as-is.
	Operational bool
	Err         error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs an operational DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details, Operational: true}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

// NewNotFound builds "<resource> not found".
func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewDuplicateKey(field string) error {
	return NewDomainError(CodeDuplicateKey, fmt.Sprintf("%s already exists", field), http.StatusBadRequest,
		map[string]any{"field": field})
}

func NewInvalidID() error {
	return NewDomainError(CodeInvalidID, MsgInvalidID, http.StatusBadRequest, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewRateLimited(message string) error {
	return NewDomainError(CodeRateLimited, message, http.StatusTooManyRequests, nil)
}

func NewEmailInUse() error {
	return NewDomainError(CodeEmailInUse, "Email already in use", http.StatusBadRequest, nil)
}

func NewAccountNotFound() error {
	return NewDomainError(CodeAccountNotFound, "User not found", http.StatusNotFound, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "Wrong password", http.StatusBadRequest, nil)
}

func NewInvalidRefreshToken() error {
	return NewDomainError(CodeInvalidRefreshToken, "Invalid refresh token", http.StatusUnauthorized, nil)
}

func NewRefreshTokenExpired() error {
	return NewDomainError(CodeRefreshTokenExpired, "Refresh token expired", http.StatusUnauthorized, nil)
}

func NewTokenNotProvided() error {
	return NewDomainError(CodeTokenNotProvided, MsgTokenNotProvided, http.StatusUnauthorized, nil)
}

func NewInvalidToken() error {
	return NewDomainError(CodeInvalidToken, MsgInvalidToken, http.StatusUnauthorized, nil)
}

func NewTokenExpired() error {
	return NewDomainError(CodeTokenExpired, MsgTokenExpired, http.StatusUnauthorized, nil)
}

func NewUnavailable(err error) error {
	return &DomainError{
		Code:       CodeUnavailable,
		Message:    MsgUnavailable,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewTokenIssuanceFailed(err error) error {
	return &DomainError{
		Code:       CodeTokenIssuance,
		Message:    MsgInternal,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    MsgInternal,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FieldError describes a single rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects every field rejected by a validation pass.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Message)
	}
	return strings.Join(msgs, ", ")
}

// Fields groups messages by field name.
func (v ValidationErrors) Fields() map[string][]string {
	out := make(map[string][]string, len(v))
	for _, fe := range v {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}
