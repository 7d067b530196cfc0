package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"zoho-inquiry-relay/internal/config"
	"zoho-inquiry-relay/internal/model"
	"zoho-inquiry-relay/pkg/logger"
)

// TokenProvider hands out a currently valid access token
type TokenProvider interface {
	GetValidToken(ctx context.Context) (string, error)
}

// TokenStatus describes the cached credential without exposing it
type TokenStatus struct {
	Cached    bool       `json:"cached"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// TokenManager caches one Zoho access token and refreshes it from the
// configured refresh token when it is missing or expired.
//
// mu guards only the slot. Refreshes are not serialized: concurrent callers
// that all see a stale slot each refresh, and the last response stored wins.
type TokenManager struct {
	httpClient *http.Client
	config     *config.ZohoConfig
	logger     *logger.Logger
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

// NewTokenManager creates a token manager with an empty slot
func NewTokenManager(cfg *config.ZohoConfig, httpClient *http.Client, log *logger.Logger) *TokenManager {
	return &TokenManager{
		httpClient: httpClient,
		config:     cfg,
		logger:     log,
		now:        time.Now,
	}
}

// GetValidToken returns the cached token while now is before its expiry,
// refreshing otherwise.
func (m *TokenManager) GetValidToken(ctx context.Context) (string, error) {
	if token, ok := m.cached(); ok {
		return token, nil
	}
	return m.refresh(ctx)
}

// Status reports whether a usable token is cached
func (m *TokenManager) Status() TokenStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken == "" || !m.now().Before(m.expiresAt) {
		return TokenStatus{}
	}
	expiresAt := m.expiresAt
	return TokenStatus{Cached: true, ExpiresAt: &expiresAt}
}

func (m *TokenManager) cached() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.accessToken == "" || !m.now().Before(m.expiresAt) {
		return "", false
	}
	return m.accessToken, true
}

func (m *TokenManager) store(token string, expiresAt time.Time) {
	m.mu.Lock()
	m.accessToken = token
	m.expiresAt = expiresAt
	m.mu.Unlock()
}

// refresh exchanges the refresh token for a new access token
func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", m.config.ClientID)
	data.Set("client_secret", m.config.ClientSecret)
	data.Set("refresh_token", m.config.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.TokenURL(), strings.NewReader(data.Encode()))
	if err != nil {
		return "", &TokenRefreshError{Cause: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	m.logger.Debug("Refreshing Zoho access token")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", &TokenRefreshError{Cause: &TransportError{Op: "token request", Cause: err}}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TokenRefreshError{Cause: &TransportError{Op: "read token response", Cause: err}}
	}

	var tokenResp model.TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", &TokenRefreshError{Cause: &TransportError{Op: "decode token response", Cause: err}}
	}

	if tokenResp.AccessToken == "" {
		m.logger.Warn("Token response carried no access token",
			"status_code", resp.StatusCode,
			"zoho_error", tokenResp.Error,
		)
		return "", &TokenRefreshError{Body: json.RawMessage(bytes.TrimSpace(body))}
	}

	// A non-positive lifetime serves the current request only.
	expiresAt := m.now().Add(time.Duration(max(0, tokenResp.ExpiresIn)) * time.Second)
	m.store(tokenResp.AccessToken, expiresAt)

	m.logger.Info("Zoho access token refreshed",
		"expires_in", tokenResp.ExpiresIn,
		"expires_at", expiresAt.Format(time.RFC3339),
	)

	return tokenResp.AccessToken, nil
}
