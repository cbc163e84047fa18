package omi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNotifySendsMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v2/integrations/app-1/notification" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing auth header: %q", r.Header.Get("Authorization"))
		}
		if got := r.URL.Query().Get("uid"); got != "user-1" {
			t.Errorf("unexpected uid: %q", got)
		}
		if got := r.URL.Query().Get("message"); got != "Task added: Buy milk & eggs" {
			t.Errorf("unexpected message: %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	c := NewOmiClient(server.URL+"/", "app-1", "key")
	if err := c.Notify(context.Background(), "Task added: Buy milk & eggs", "user-1"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
}

func TestNotifyReportsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Invalid API key"}`))
	}))
	defer server.Close()

	c := NewOmiClient(server.URL, "app-1", "bad")
	err := c.Notify(context.Background(), "hello", "user-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid API key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotifyReportsBareStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewOmiClient(server.URL, "app-1", "key")
	err := c.Notify(context.Background(), "hello", "user-1")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
}
