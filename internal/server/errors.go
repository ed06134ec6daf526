package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// NotFoundError indicates a missing or foreign-owned resource.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// ValidationError indicates a malformed or invalid request.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// UnavailableError indicates a feature whose backing service is not configured.
type UnavailableError struct {
	Feature string
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s is not available", e.Feature)
}

// UpstreamError indicates a failure in an external service (LLM, job board).
type UpstreamError struct {
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// Not-found messages returned by the API.
const (
	msgJobNotFound         = "Job not found"
	msgMasterNotFound      = "Master resume not found"
	msgMasterRequired      = "Master resume not found. Please upload a master resume first."
	msgVariantNotFound     = "Resume variant not found"
	msgCoverLetterNotFound = "Cover letter not found"
	msgContactNotFound     = "Contact not found"
	msgUserNotFound        = "User not found"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *NotFoundError
		validation  *ValidationError
		unavailable *UnavailableError
		upstream    *UpstreamError
		fieldErrs   validator.ValidationErrors
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &upstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text safe to show clients. Internal errors are
// reduced to a generic message.
func publicMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid value for %s: failed %q validation", fe.Field(), fe.Tag())
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "Internal server error"
	}
	return err.Error()
}
