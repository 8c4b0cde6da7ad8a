package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for _, keys := range [][]string{nil, {""}, {"", "  "}} {
		handler := BearerAuthMiddleware(keys)(okHandler())

		req := httptest.NewRequest("GET", "/api/v1/tabs", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		header  string
		want    int
		wantMsg string
	}{
		{"missing header", "/api/v1/tabs", "", http.StatusUnauthorized, "missing authorization header"},
		{"basic scheme", "/api/v1/tabs", "Basic dXNlcjpwYXNz", http.StatusUnauthorized,
			"authorization header must use Bearer scheme"},
		{"wrong key", "/api/v1/tabs", "Bearer wrong-key", http.StatusUnauthorized, "invalid api key"},
		{"prefix of key", "/api/v1/tabs", "Bearer key", http.StatusUnauthorized, "invalid api key"},
		{"first key", "/api/v1/tabs", "Bearer key1", http.StatusOK, ""},
		{"second key", "/api/v1/tabs/agents", "Bearer key2", http.StatusOK, ""},
		{"health exempt", "/health", "", http.StatusOK, ""},
		{"metrics exempt", "/metrics", "", http.StatusOK, ""},
	}

	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, http.NoBody)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.want)
			}
			if tt.wantMsg == "" {
				return
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != CodeUnauthorized {
				t.Errorf("code: got %s, want %s", errResp.Code, CodeUnauthorized)
			}
			if errResp.Message != tt.wantMsg {
				t.Errorf("message: got %q, want %q", errResp.Message, tt.wantMsg)
			}
		})
	}
}
