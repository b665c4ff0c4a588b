package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPathParam(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		prefix string
		suffix string
		want   string
	}{
		{"simple", "/api/watchlist/AAPL.US", "/api/watchlist/", "", "AAPL.US"},
		{"with suffix", "/api/stock/TSLA.US/news", "/api/stock/", "/news", "TSLA.US"},
		{"no match", "/api/other/AAPL.US", "/api/watchlist/", "", ""},
		{"trailing segment ignored", "/api/watchlist/AAPL.US/extra", "/api/watchlist/", "", "AAPL.US"},
		{"empty param", "/api/watchlist/", "/api/watchlist/", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if got := PathParam(req, tt.prefix, tt.suffix); got != tt.want {
				t.Errorf("PathParam(%q, %q, %q) = %q, want %q", tt.path, tt.prefix, tt.suffix, got, tt.want)
			}
		})
	}
}

func TestRequireMethod_Allowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/prompt", nil)
	rr := httptest.NewRecorder()

	if !RequireMethod(rr, req, http.MethodGet, http.MethodPost) {
		t.Error("expected POST to be allowed")
	}
}

func TestRequireMethod_Rejected(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/prompt", nil)
	rr := httptest.NewRecorder()

	if RequireMethod(rr, req, http.MethodGet, http.MethodPost) {
		t.Error("expected DELETE to be rejected")
	}
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Errorf("expected Allow header to list POST, got %q", allow)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/prompt", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()

	var v map[string]interface{}
	if DecodeJSON(rr, req, &v) {
		t.Error("expected invalid JSON to fail decoding")
	}
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}
