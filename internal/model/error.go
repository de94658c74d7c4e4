package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Error codes returned in ErrorResponse.Code
const (
	CodeProviderAbsent   = "PROVIDER_ABSENT"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeNotConnected     = "NOT_CONNECTED"
	CodeSessionClosed    = "SESSION_CLOSED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternal         = "INTERNAL"
)
