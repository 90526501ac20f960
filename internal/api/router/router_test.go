package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/wolfman30/swasthyasathi/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/swasthyasathi/internal/http/middleware"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

type fixedResponder struct{ reply string }

func (f fixedResponder) Respond(context.Context, string) string { return f.reply }

func newTestRouter(t *testing.T, mutate func(*Config)) http.Handler {
	t.Helper()

	logger := logging.Default()
	cfg := &Config{
		Logger:      logger,
		ChatHandler: handlers.NewChatHandler(fixedResponder{reply: "🛏️ Available beds: ICU: 1"}, 0, logger),
	}
	if mutate != nil {
		mutate(cfg)
	}
	return New(cfg)
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
}

func TestRouterChatEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"query":"kete bed available achhi?"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "🛏️ Available beds: ICU: 1", resp["reply"])
}

func TestRouterChatRejectsGet(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/chat", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterChatWebSocket(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	defer srv.Close()

	conn, err := websocket.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/chat/ws", "", srv.URL)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, websocket.Message.Send(conn, "kete bed available achhi?"))
	var reply string
	require.NoError(t, websocket.Message.Receive(conn, &reply))
	assert.Equal(t, "🛏️ Available beds: ICU: 1", reply)
}

func TestRouterRateLimitsChat(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) {
		cfg.RateLimiter = httpmiddleware.NewRateLimiter(0.001, 1)
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"query":"ramesh kie?"}`))
		req.RemoteAddr = "10.1.1.1:4000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}
	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, health.Code, "health is never rate limited")
}

func TestRouterMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := newTestRouter(t, func(cfg *Config) {
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "router_test_total 1")
}

func TestRouterWithoutChatServesHealthOnly(t *testing.T) {
	router := New(&Config{})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
