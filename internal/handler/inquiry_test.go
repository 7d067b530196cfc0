package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoho-inquiry-relay/internal/config"
	"zoho-inquiry-relay/internal/model"
	"zoho-inquiry-relay/internal/service"
	"zoho-inquiry-relay/pkg/logger"
)

const scenarioBody = `{"Full_Name":"Asha Rao","Mobile_Number":9876543210,"Email_Address":"a@b.com","Destination_Tour_Name":"Bali","Travel_Date":"2025-03-01","Travel_Type":"Leisure","Number_of_Travelers":2,"Message_Special_Request":"window seat"}`

type relayFixture struct {
	router      http.Handler
	tokens      *service.TokenManager
	tokenCalls  *int32
	zohoCalls   *int32
	lastPayload *atomic.Value
}

// newRelayFixture wires the real stack against fake accounts and Creator servers
func newRelayFixture(t *testing.T, tokenHandler, zohoHandler http.HandlerFunc) *relayFixture {
	t.Helper()

	var tokenCalls, zohoCalls int32
	lastPayload := &atomic.Value{}

	accounts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		tokenHandler(w, r)
	}))
	t.Cleanup(accounts.Close)

	creator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&zohoCalls, 1)
		var body map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			lastPayload.Store(string(body["data"]))
		}
		zohoHandler(w, r)
	}))
	t.Cleanup(creator.Close)

	cfg := &config.ZohoConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RefreshToken: "refresh-token",
		AccountsURL:  accounts.URL,
		APIBaseURL:   creator.URL,
		AccountOwner: "travelco",
		AppName:      "inquiries",
		FormName:     "Inquiry_Form",
		HTTPTimeout:  5 * time.Second,
	}

	log := logger.Discard()
	client := service.NewHTTPClient(cfg)
	tokens := service.NewTokenManager(cfg, client, log)
	inquiries := service.NewInquiryService(tokens, service.NewZohoService(cfg, client, log), log)

	router := NewRouter(NewInquiryHandler(inquiries, log), NewHealthHandler(tokens, log), []string{"*"}, log)

	return &relayFixture{
		router:      router,
		tokens:      tokens,
		tokenCalls:  &tokenCalls,
		zohoCalls:   &zohoCalls,
		lastPayload: lastPayload,
	}
}

func (f *relayFixture) submit(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/submit-inquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec, resp
}

func okToken(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(`{"access_token":"1000.live","expires_in":3600,"api_domain":"https://www.zohoapis.in","token_type":"Bearer"}`))
}

func status(t *testing.T, resp map[string]json.RawMessage) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(resp["status"], &s))
	return s
}

func TestSubmitInquiry_Success(t *testing.T) {
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Zoho-oauthtoken 1000.live", r.Header.Get("Authorization"))
		w.Write([]byte(`{"code":3000,"data":{"ID":"4100000000001"},"message":"success"}`))
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, model.StatusSuccess, status(t, resp))
	assert.JSONEq(t, `{"ID":"4100000000001"}`, string(resp["data"]))

	assert.JSONEq(t, `{
		"Full_Name": {"first_name": "Asha", "last_name": "Rao"},
		"Mobile_Number": "9876543210",
		"Email_Address": "a@b.com",
		"Destination_Tour_Name": "Bali",
		"Travel_Date": "2025-03-01",
		"Travel_Type": "Leisure",
		"Number_of_Travelers": 2,
		"Message_Special_Request": "window seat",
		"Terms_Conditions": true
	}`, f.lastPayload.Load().(string))
}

func TestSubmitInquiry_ZohoRejection(t *testing.T) {
	zohoBody := `{"code":3001,"error":{"Email_Address":"Enter a valid Email"},"message":"Invalid column value"}`
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(zohoBody))
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.StatusZohoError, status(t, resp))
	assert.JSONEq(t, zohoBody, string(resp["zoho"]))
	assert.Equal(t, int32(1), atomic.LoadInt32(f.zohoCalls))
}

func TestSubmitInquiry_NonObjectZohoReply(t *testing.T) {
	zohoBody := `[{"code":3001,"message":"bad"}]`
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(zohoBody))
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.StatusZohoError, status(t, resp))
	assert.JSONEq(t, zohoBody, string(resp["zoho"]))
}

func TestSubmitInquiry_NullZohoReply(t *testing.T) {
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, model.StatusServerError, status(t, resp))
}

func TestSubmitInquiry_AcceptedByDataWithoutCode(t *testing.T) {
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"ID":"7"}}`))
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusSuccess, status(t, resp))
}

func TestSubmitInquiry_TokenEndpointUnreachable(t *testing.T) {
	var down atomic.Bool
	down.Store(true)

	f := newRelayFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			// Drop the connection without a response.
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			conn.Close()
			return
		}
		okToken(w, r)
	}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":3000,"data":{"ID":"1"}}`))
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, model.StatusServerError, status(t, resp))
	assert.NotContains(t, resp, "zoho")
	assert.Equal(t, int32(0), atomic.LoadInt32(f.zohoCalls))
	assert.False(t, f.tokens.Status().Cached)

	// The next request retries the refresh.
	down.Store(false)
	rec, resp = f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusSuccess, status(t, resp))
	assert.Equal(t, int32(2), atomic.LoadInt32(f.tokenCalls))
}

func TestSubmitInquiry_TokenErrorBodyRelayed(t *testing.T) {
	f := newRelayFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"invalid_code"}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("creator must not be called without a token")
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, model.StatusServerError, status(t, resp))
	assert.JSONEq(t, `{"error":"invalid_code"}`, string(resp["zoho"]))
}

func TestSubmitInquiry_NonJSONZohoResponse(t *testing.T) {
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>502</html>`))
	})

	rec, resp := f.submit(t, scenarioBody)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, model.StatusServerError, status(t, resp))
}

func TestSubmitInquiry_CachedTokenReused(t *testing.T) {
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":3000,"data":{"ID":"1"}}`))
	})

	for i := 0; i < 3; i++ {
		rec, _ := f.submit(t, scenarioBody)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(f.tokenCalls))
	assert.Equal(t, int32(3), atomic.LoadInt32(f.zohoCalls))
}

func TestSubmitInquiry_InvalidBody(t *testing.T) {
	f := newRelayFixture(t, okToken, func(w http.ResponseWriter, r *http.Request) {
		t.Error("creator must not be called for an invalid body")
	})

	for _, body := range []string{"", "not json", "[1,2]", "null", `"text"`} {
		t.Run(body, func(t *testing.T) {
			rec, resp := f.submit(t, body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, model.StatusError, status(t, resp))
		})
	}

	assert.Equal(t, int32(0), atomic.LoadInt32(f.tokenCalls))
}

func TestSubmitInquiry_MethodNotAllowed(t *testing.T) {
	f := newRelayFixture(t, okToken, okToken)

	req := httptest.NewRequest(http.MethodGet, "/submit-inquiry", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSubmitInquiry_CORSPreflight(t *testing.T) {
	f := newRelayFixture(t, okToken, okToken)

	req := httptest.NewRequest(http.MethodOptions, "/submit-inquiry", nil)
	req.Header.Set("Origin", "https://travel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, int32(0), atomic.LoadInt32(f.tokenCalls))
}
