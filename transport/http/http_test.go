package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pms/config"
	"pms/infras/kafka"
	otelMocks "pms/infras/otel/mocks"
	"pms/transport/http/middleware"
	"pms/transport/http/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *HTTP {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"https://frontdesk.example.com"}
	cfg.App.CORS.AllowedMethods = []string{http.MethodGet, http.MethodPost}

	ot := otelMocks.NewOtel()

	return New(cfg, router.New(router.DomainHandlers{}), middleware.NewAppMiddleware(ot, cfg, nil), kafka.NewNoop(), nil, ot)
}

func TestHTTP_Health(t *testing.T) {
	server := newServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	server.setState(ServerStateInGracePeriod)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "SERVER PREPARING TO SHUT DOWN", body["message"])
}

func TestHTTP_Routes(t *testing.T) {
	server := newServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/v1/bookings/b-1/cancel", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/v1/bookings/availability")
}

func TestHTTP_CORS(t *testing.T) {
	server := newServer()

	req := httptest.NewRequest(http.MethodOptions, "/v1/rooms", nil)
	req.Header.Set("Origin", "https://frontdesk.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	assert.Equal(t, "https://frontdesk.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
