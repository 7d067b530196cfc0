package model

import (
	"bytes"
	"encoding/json"
)

// CodeSuccess is the Creator response code for a stored record
const CodeSuccess = 3000

// TokenResponse is the body returned by the accounts token endpoint
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	APIDomain   string `json:"api_domain,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Error       string `json:"error,omitempty"`
}

// AddRecordResponse is the Creator reply to an add-record call. Raw keeps
// the full body so it can be relayed to the caller verbatim.
type AddRecordResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Raw     json.RawMessage `json:"-"`
}

// Accepted reports whether Creator stored the record
func (r *AddRecordResponse) Accepted() bool {
	return r.Code == CodeSuccess || hasData(r.Data)
}

func hasData(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "null", "{}", "[]", `""`:
		return false
	default:
		return true
	}
}
