package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNotify_PostsContent(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("Failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	if err := n.Notify(context.Background(), "[critical] Reputation risk"); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if got.Content != "[critical] Reputation risk" {
		t.Errorf("Unexpected payload content: %q", got.Content)
	}
}

func TestNotify_ServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewNotifier(srv.URL)
	if err := n.Notify(context.Background(), "msg"); err == nil {
		t.Fatal("Expected an error on a 500 response")
	}
}

func TestNotify_MissingURLFails(t *testing.T) {
	n := NewNotifier("")
	if err := n.Notify(context.Background(), "msg"); err == nil {
		t.Fatal("Expected an error with no url configured")
	}
}

func TestNotify_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n := NewNotifier(srv.URL)
	if err := n.Notify(ctx, "msg"); err == nil {
		t.Fatal("Expected an error with a cancelled context")
	}
}
