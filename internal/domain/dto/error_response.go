package dto

import "time"

// ErrorResponse is the standardized JSON error body returned by every
// failing endpoint.
//
// Fields:
//   - Message: human-readable description of what went wrong.
//   - ErrorDetails: underlying error text, when one exists.
//   - Timestamp: when the error response was produced.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid request"`
	ErrorDetails string    `json:"error,omitempty" example:"parse failure"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewErrorResponse builds an ErrorResponse from a message and an optional
// underlying error.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}

// Error implements the error interface so an ErrorResponse can travel where
// an error is expected.
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}
