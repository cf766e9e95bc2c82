package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func httptestRequest(headers map[string]string, remoteAddr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/tickets", nil)
	req.RemoteAddr = remoteAddr
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return req
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAdminToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "valid bearer", configured: "admin-secret", header: "Bearer admin-secret", wantStatus: http.StatusOK},
		{name: "lowercase scheme", configured: "admin-secret", header: "bearer admin-secret", wantStatus: http.StatusOK},
		{name: "missing header", configured: "admin-secret", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", configured: "admin-secret", header: "Basic admin-secret", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", configured: "admin-secret", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "not configured", configured: "", header: "Bearer anything", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptestRequest(map[string]string{"Authorization": tt.header}, "")
			rec := httptest.NewRecorder()

			RequireAdminToken(tt.configured, okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRequireInternalJobToken(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		header     string
		wantStatus int
	}{
		{name: "valid token", configured: "job-token", header: "job-token", wantStatus: http.StatusOK},
		{name: "missing token", configured: "job-token", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong token", configured: "job-token", header: "job-token-2", wantStatus: http.StatusUnauthorized},
		{name: "not configured", configured: "", header: "job-token", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptestRequest(map[string]string{"X-Internal-Job-Token": tt.header}, "")
			rec := httptest.NewRecorder()

			RequireInternalJobToken(tt.configured, okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
