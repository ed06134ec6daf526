package jd

import "fmt"

// OracleError represents a failed call to the span oracle.
type OracleError struct {
	Message string
	Cause   error
}

func (e *OracleError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("span oracle error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("span oracle error: %s", e.Message)
}

func (e *OracleError) Unwrap() error {
	return e.Cause
}

// PayloadError represents an oracle response that is not a valid span document.
type PayloadError struct {
	Message string
	Payload string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid span payload: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid span payload: %s", e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}
