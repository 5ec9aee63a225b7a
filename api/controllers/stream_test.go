package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carspace/carspace-backend/internal/live"
)

func TestStreamSnapshotsEmitsInitialSnapshot(t *testing.T) {
	hub, err := live.NewHub(testLogger(), nil)
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	if err := hub.RegisterCollection("cars", func(ctx context.Context) (any, error) {
		return []string{"alto"}, nil
	}); err != nil {
		t.Fatalf("register collection: %v", err)
	}

	handler := StreamSnapshots(hub, "cars", testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cars/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("expected event-stream content type got %q", got)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: snapshot") {
		t.Fatalf("expected snapshot event in stream, got %q", body)
	}
	if !strings.Contains(body, `"collection":"cars"`) {
		t.Fatalf("expected collection name in payload, got %q", body)
	}
}

func TestStreamSnapshotsUnknownCollection(t *testing.T) {
	hub, err := live.NewHub(testLogger(), nil)
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}

	handler := StreamSnapshots(hub, "unknown", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/unknown/stream", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unregistered collection got %d", rec.Code)
	}
}
