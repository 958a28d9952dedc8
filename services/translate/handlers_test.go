package translate

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg RouterConfig) *gin.Engine {
	t.Helper()
	svc := NewService(DefaultServiceConfig(), Deps{Cache: openCache(t)})
	logger := slog.New(slog.DiscardHandler)
	return NewRouter(cfg, NewHandlers(svc, logger))
}

func postTranslate(t *testing.T, router http.Handler, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/js2py/translate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHandleTranslate_OK(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	w := postTranslate(t, router, TranslateRequest{Source: "z.push(a)", FilePath: "z.js"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode[TranslateResponse](t, w)
	assert.Equal(t, "z.append(a)", resp.Output)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, resp.RequestID, w.Header().Get("X-Request-ID"))
	assert.False(t, resp.Cached)

	w = postTranslate(t, router, TranslateRequest{Source: "z.push(a)", FilePath: "z.js"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[TranslateResponse](t, w).Cached)
}

func TestHandleTranslate_EchoesRequestID(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	w := postTranslate(t, router, TranslateRequest{Source: "a = 1"},
		http.Header{"X-Request-Id": {"req-42"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-42", decode[TranslateResponse](t, w).RequestID)
}

func TestHandleTranslate_Errors(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed json", `{"source":`, http.StatusBadRequest, CodeInvalidRequest},
		{"missing source", map[string]string{"file_path": "a.js"}, http.StatusBadRequest, CodeInvalidRequest},
		{"not a source file", TranslateRequest{Source: "a", FilePath: "a.rb"}, http.StatusBadRequest, CodeInvalidRequest},
		{"syntax error", TranslateRequest{Source: "let = ;"}, http.StatusUnprocessableEntity, CodeParseFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postTranslate(t, router, tt.body, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			resp := decode[ErrorResponse](t, w)
			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestHandleTranslate_Unsupported(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	w := postTranslate(t, router, TranslateRequest{Source: "a = 1\nswitch (a) {}"}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, CodeUnsupportedConstruct, resp.Code)
	assert.Equal(t, "switch_statement", resp.Kind)
	assert.Equal(t, 2, resp.Line)
	assert.Equal(t, 1, resp.Column)
}

func TestHandleHealth(t *testing.T) {
	router := newTestRouter(t, RouterConfig{})

	req := httptest.NewRequest(http.MethodGet, "/v1/js2py/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[HealthResponse](t, w)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, ServiceVersion, resp.Version)
	assert.True(t, resp.CacheEnabled)
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "js2py_translations_total 1\n")
	})

	withMetrics := newTestRouter(t, RouterConfig{MetricsHandler: metrics})
	w := httptest.NewRecorder()
	withMetrics.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/js2py/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "js2py_translations_total")

	without := newTestRouter(t, RouterConfig{})
	w = httptest.NewRecorder()
	without.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/js2py/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRateLimit(t *testing.T) {
	router := newTestRouter(t, RouterConfig{RequestsPerSecond: 0.001, Burst: 1})

	first := postTranslate(t, router, TranslateRequest{Source: "a = 1"}, nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := postTranslate(t, router, TranslateRequest{Source: "a = 1"}, nil)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, CodeRateLimited, decode[ErrorResponse](t, second).Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))

	// Health checks are not limited.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/js2py/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitMiddleware_NilLimiter(t *testing.T) {
	router := gin.New()
	router.Use(RateLimitMiddleware(nil))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for range 5 {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestErrorResponse_Default(t *testing.T) {
	status, body := errorResponse(io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, CodeTranslateFailed, body.Code)
}
