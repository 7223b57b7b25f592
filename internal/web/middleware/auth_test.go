package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/facetview/internal/config"
)

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		cfg      config.SecurityConfig
		headers  map[string]string
		want     int
		wantCode string
	}{
		{name: "disabled", cfg: config.SecurityConfig{}, want: http.StatusNoContent},
		{
			name:     "missing key",
			cfg:      config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			want:     http.StatusUnauthorized,
			wantCode: "AUTH_MISSING_KEY",
		},
		{
			name:    "header key",
			cfg:     config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}},
			headers: map[string]string{"X-API-Key": "k2"},
			want:    http.StatusNoContent,
		},
		{
			name:    "bearer token",
			cfg:     config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers: map[string]string{"Authorization": "Bearer k1"},
			want:    http.StatusNoContent,
		},
		{
			name:     "wrong key",
			cfg:      config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1"}},
			headers:  map[string]string{"X-API-Key": "k3"},
			want:     http.StatusForbidden,
			wantCode: "AUTH_INVALID_KEY",
		},
		{
			name:     "no keys configured",
			cfg:      config.SecurityConfig{RequireAPIKey: true},
			headers:  map[string]string{"X-API-Key": "anything"},
			want:     http.StatusForbidden,
			wantCode: "AUTH_INVALID_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			APIKeyAuth(&tt.cfg)(ok).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.wantCode == "" {
				return
			}
			var body authError
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}
