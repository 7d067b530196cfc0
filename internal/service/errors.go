package service

import (
	"encoding/json"
	"fmt"
)

// TokenRefreshError reports a failed access token refresh. Body holds the
// accounts server reply when one was received.
type TokenRefreshError struct {
	Body  json.RawMessage
	Cause error
}

func (e *TokenRefreshError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("token refresh failed: %v", e.Cause)
	}
	if len(e.Body) > 0 {
		return fmt.Sprintf("token refresh failed: no access_token in response: %s", e.Body)
	}
	return "token refresh failed: no access_token in response"
}

func (e *TokenRefreshError) Unwrap() error {
	return e.Cause
}

// RemoteRejection is a well-formed Creator response that did not accept the record
type RemoteRejection struct {
	Code    int
	Message string
	Body    json.RawMessage
}

func (e *RemoteRejection) Error() string {
	return fmt.Sprintf("zoho rejected record: code=%d message=%q", e.Code, e.Message)
}

// TransportError covers network and decoding failures against either remote
type TransportError struct {
	Op    string
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
