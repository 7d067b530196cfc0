package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"zoho-inquiry-relay/internal/config"
	"zoho-inquiry-relay/internal/model"
	"zoho-inquiry-relay/pkg/logger"
)

// ZohoService posts inquiry records to the Creator form endpoint
type ZohoService struct {
	httpClient *http.Client
	config     *config.ZohoConfig
	logger     *logger.Logger
}

// NewZohoService creates a new Zoho Creator service
func NewZohoService(cfg *config.ZohoConfig, httpClient *http.Client, log *logger.Logger) *ZohoService {
	return &ZohoService{
		httpClient: httpClient,
		config:     cfg,
		logger:     log,
	}
}

// NewHTTPClient builds the client shared by the token and form calls
func NewHTTPClient(cfg *config.ZohoConfig) *http.Client {
	return &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
}

// AddRecord sends one record. Any JSON reply is returned for the caller to
// classify; only transport and decoding failures are errors.
func (s *ZohoService) AddRecord(ctx context.Context, token string, payload *model.InquiryPayload) (*model.AddRecordResponse, error) {
	jsonData, err := json.Marshal(model.AddRecordRequest{Data: payload})
	if err != nil {
		return nil, &TransportError{Op: "marshal payload", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.FormURL(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, &TransportError{Op: "create request", Cause: err}
	}

	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "zoho-inquiry-relay/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "send record", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Cause: err}
	}

	result, err := decodeAddRecordResponse(body)
	if err != nil {
		s.logger.Warn("Undecodable Zoho response",
			"status_code", resp.StatusCode,
			"content_type", resp.Header.Get("Content-Type"),
		)
		return nil, &TransportError{Op: "decode response", Cause: err}
	}

	s.logger.Info("Zoho response received",
		"status_code", resp.StatusCode,
		"code", result.Code,
		"message", result.Message,
	)

	return result, nil
}

// decodeAddRecordResponse accepts any well-formed JSON except null. Fields
// of an unexpected type are left zero, and a non-object body carries no
// code or data so it is never accepted.
func decodeAddRecordResponse(body []byte) (*model.AddRecordResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("response is null")
	}

	result := &model.AddRecordResponse{Raw: json.RawMessage(trimmed)}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return result, nil
	}

	result.Data = fields["data"]
	if raw, ok := fields["code"]; ok {
		_ = json.Unmarshal(raw, &result.Code)
	}
	if raw, ok := fields["message"]; ok {
		_ = json.Unmarshal(raw, &result.Message)
	}

	return result, nil
}
