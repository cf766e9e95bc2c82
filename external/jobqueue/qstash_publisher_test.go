package jobqueue

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/quiniela/internal/platform/logging"
	"github.com/riskibarqy/quiniela/internal/platform/resilience"
	"github.com/riskibarqy/quiniela/internal/usecase"
)

type publishedRequest struct {
	path    string
	headers http.Header
	body    string
}

func newQStashServer(t *testing.T, status int, captured *publishedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if captured != nil {
			*captured = publishedRequest{path: r.URL.Path, headers: r.Header.Clone(), body: string(raw)}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"messageId":"msg_1"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestQStashPublisher_Enqueue(t *testing.T) {
	var got publishedRequest
	srv := newQStashServer(t, http.StatusCreated, &got)

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:          srv.URL,
		Token:            "qstash-token",
		TargetBaseURL:    "https://quiniela.example.com/",
		Retries:          2,
		InternalJobToken: "job-token",
	}, logging.NewNop())

	payload := map[string]any{"rounds": []string{"Ronda 1"}}
	if err := publisher.Enqueue(context.Background(), "v1/internal/jobs/sync-rounds", payload, 90*time.Second, "sync-rounds:1"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if got.path != "/v2/publish/https://quiniela.example.com/v1/internal/jobs/sync-rounds" {
		t.Fatalf("unexpected publish path: %q", got.path)
	}
	wantHeaders := map[string]string{
		"Authorization":                        "Bearer qstash-token",
		"Upstash-Method":                       http.MethodPost,
		"Upstash-Retries":                      "2",
		"Upstash-Delay":                        "90s",
		"Upstash-Deduplication-Id":             "sync-rounds:1",
		"Upstash-Forward-X-Internal-Job-Token": "job-token",
	}
	for key, want := range wantHeaders {
		if value := got.headers.Get(key); value != want {
			t.Fatalf("header %s=%q want %q", key, value, want)
		}
	}
	if !strings.Contains(got.body, `"rounds":["Ronda 1"]`) {
		t.Fatalf("unexpected body: %s", got.body)
	}
}

func TestQStashPublisher_Enqueue_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  QStashPublisherConfig
		path string
	}{
		{name: "empty path", cfg: QStashPublisherConfig{BaseURL: "https://qstash.upstash.io", Token: "t", TargetBaseURL: "https://x.example.com"}, path: " "},
		{name: "bad target scheme", cfg: QStashPublisherConfig{BaseURL: "https://qstash.upstash.io", Token: "t", TargetBaseURL: "ftp://x.example.com"}, path: "/jobs"},
		{name: "missing base url", cfg: QStashPublisherConfig{Token: "t", TargetBaseURL: "https://x.example.com"}, path: "/jobs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := NewQStashPublisher(tt.cfg, nil)
			if err := publisher.Enqueue(context.Background(), tt.path, nil, 0, ""); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestQStashPublisher_Enqueue_MissingToken(t *testing.T) {
	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       "https://qstash.upstash.io",
		TargetBaseURL: "https://x.example.com",
	}, nil)

	err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestQStashPublisher_CircuitOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		Token:         "t",
		TargetBaseURL: "https://x.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}, logging.NewNop())

	if err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, ""); err == nil {
		t.Fatalf("expected error for 502")
	}
	err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}
}

func TestQStashPublisher_ClientErrorDoesNotTripCircuit(t *testing.T) {
	srv := newQStashServer(t, http.StatusBadRequest, nil)

	publisher := NewQStashPublisher(QStashPublisherConfig{
		BaseURL:       srv.URL,
		Token:         "t",
		TargetBaseURL: "https://x.example.com",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
		},
	}, logging.NewNop())

	for i := 0; i < 2; i++ {
		err := publisher.Enqueue(context.Background(), "/jobs", nil, 0, "")
		if err == nil || errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d: expected plain publish error, got %v", i, err)
		}
	}
}

func TestNormalizeDelay(t *testing.T) {
	tests := map[time.Duration]string{
		0:                       "0s",
		-time.Second:            "0s",
		1500 * time.Millisecond: "2s",
		10 * time.Minute:        "600s",
	}
	for in, want := range tests {
		if got := normalizeDelay(in); got != want {
			t.Fatalf("normalizeDelay(%s)=%q want %q", in, got, want)
		}
	}
}
