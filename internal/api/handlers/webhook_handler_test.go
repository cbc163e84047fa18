package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TWRT/memory-relay/internal/client"
	"github.com/TWRT/memory-relay/internal/config"
	"github.com/TWRT/memory-relay/internal/models"
	"github.com/TWRT/memory-relay/internal/service"
)

type fakeStore struct {
	titles []string
	err    error
}

func (f *fakeStore) CreateRecord(_ context.Context, _ models.Parent, props models.RecordProperties) (*models.RecordRef, error) {
	f.titles = append(f.titles, props.Title.Content)
	if f.err != nil {
		return nil, f.err
	}
	return &models.RecordRef{ID: "page"}, nil
}

func newHandler(t *testing.T, store client.RecordStore) *WebhookHandler {
	t.Helper()
	mapping, err := config.DefaultMapping(config.SourceModeSelect)
	if err != nil {
		t.Fatalf("DefaultMapping: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewRelayService(logger, store, nil, models.Parent{ContainerID: "db"}, mapping, nil, nil)
	return NewWebhookHandler(svc, logger)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestHandleMemoryProcessesPendingItems(t *testing.T) {
	store := &fakeStore{}
	h := newHandler(t, store)

	body := `{"created_at":"2024-07-22T23:59:45Z","structured":{"title":"Sync","action_items":[
		{"description":"Review budget","completed":false},
		{"description":"Done already","completed":true}]}}`
	req := httptest.NewRequest(http.MethodPost, "/omi-webhook?uid=user-1", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleMemory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("missing CORS header")
	}
	out := decodeBody(t, rec)
	if out["message"] != "Success" || out["processed"] != float64(1) || out["failed"] != float64(0) {
		t.Fatalf("unexpected response: %#v", out)
	}
	tasks, _ := out["tasks"].([]any)
	if len(tasks) != 1 || tasks[0] != "Review budget" {
		t.Fatalf("unexpected tasks: %#v", out["tasks"])
	}
	if len(store.titles) != 1 {
		t.Fatalf("expected 1 submit, got %d", len(store.titles))
	}
}

func TestHandleMemoryWithoutItems(t *testing.T) {
	store := &fakeStore{}
	h := newHandler(t, store)

	req := httptest.NewRequest(http.MethodPost, "/omi-webhook", strings.NewReader(`{"structured":{"action_items":[]}}`))
	rec := httptest.NewRecorder()
	h.HandleMemory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["message"] != "No action items to process" || out["processed"] != float64(0) {
		t.Fatalf("unexpected response: %#v", out)
	}
	if tasks, ok := out["tasks"].([]any); !ok || len(tasks) != 0 {
		t.Fatalf("expected empty task list, got %#v", out["tasks"])
	}
	if len(store.titles) != 0 {
		t.Fatalf("expected no submits")
	}
}

func TestHandleMemorySubmitFailureStillSucceeds(t *testing.T) {
	store := &fakeStore{err: errors.New("unauthorized")}
	h := newHandler(t, store)

	req := httptest.NewRequest(http.MethodPost, "/omi-webhook?uid=u", strings.NewReader(`{"structured":{"action_items":[{"description":"x"}]}}`))
	rec := httptest.NewRecorder()
	h.HandleMemory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["processed"] != float64(0) || out["failed"] != float64(1) {
		t.Fatalf("unexpected response: %#v", out)
	}
	failures, _ := out["failures"].([]any)
	if len(failures) != 1 {
		t.Fatalf("expected one failure entry, got %#v", out["failures"])
	}
}

func TestHandleMemoryRejectsInvalidJSON(t *testing.T) {
	h := newHandler(t, &fakeStore{})
	req := httptest.NewRequest(http.MethodPost, "/omi-webhook", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	h.HandleMemory(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleMemoryWithoutStore(t *testing.T) {
	h := newHandler(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/omi-webhook", strings.NewReader(`{"structured":{"action_items":[{"description":"x"}]}}`))
	rec := httptest.NewRecorder()
	h.HandleMemory(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	out := decodeBody(t, rec)
	if out["error"] != "Internal server error" {
		t.Fatalf("unexpected response: %#v", out)
	}
}

func TestHandleMemoryMethods(t *testing.T) {
	h := newHandler(t, &fakeStore{})

	rec := httptest.NewRecorder()
	h.HandleMemory(rec, httptest.NewRequest(http.MethodOptions, "/omi-webhook", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("OPTIONS: expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") != "POST, OPTIONS" {
		t.Fatalf("OPTIONS: missing CORS methods header")
	}

	rec = httptest.NewRecorder()
	h.HandleMemory(rec, httptest.NewRequest(http.MethodGet, "/omi-webhook", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET: expected 405, got %d", rec.Code)
	}
	if out := decodeBody(t, rec); out["error"] != "Method not allowed" {
		t.Fatalf("unexpected response: %#v", out)
	}
}

func TestHealth(t *testing.T) {
	h := newHandler(t, &fakeStore{})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	out := decodeBody(t, rec)
	if out["status"] != "healthy" || out["recordStoreConfigured"] != true || out["notifierConfigured"] != false {
		t.Fatalf("unexpected health: %#v", out)
	}
}
