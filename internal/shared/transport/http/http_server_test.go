package http

import (
	"Arcanus/internal/shared/transport/http/middleware"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNewHttpServer_Healthz(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unexpected status code: got=%d want=%d", w.Code, nethttp.StatusOK)
	}
}

func TestNewHttpServer_预检请求(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodOptions, "/sessions", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("期望 204，实际 %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("期望放开跨域")
	}
}

func TestAccessLog_沿用调用方TraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s := NewHttpServer(":0", gin.New(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.TraceHeader, "trace-from-client")
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get(middleware.TraceHeader); got != "trace-from-client" {
		t.Fatalf("期望响应头回写 trace id, got=%q", got)
	}
}
