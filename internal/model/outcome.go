package model

import "encoding/json"

// OutcomeKind tags a relay result
type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeRejected    OutcomeKind = "rejected"
	OutcomeServerError OutcomeKind = "server_error"
)

// RelayOutcome is the single result of one inquiry submission
type RelayOutcome struct {
	Kind OutcomeKind
	// Data is the Creator data field on success.
	Data json.RawMessage
	// Remote is the upstream body when one was received.
	Remote json.RawMessage
	Err    error
}

// Response statuses returned to the form
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusZohoError   = "zoho_error"
	StatusServerError = "server_error"
)

// InquiryResponse represents the response for an inquiry submission
type InquiryResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Zoho    json.RawMessage `json:"zoho,omitempty"`
}
