package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestChat_SendsHealthyCard(t *testing.T) {
	var got chatPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("content type: %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	c := NewChat(ts.URL, zap.NewNop())
	if c == nil {
		t.Fatal("expected chat client")
	}
	if err := c.SendStatus(context.Background(), true); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(got.Cards) != 1 || got.Cards[0].Header.Title != "SecureDrop Monitor" {
		t.Fatalf("card not as expected: %+v", got)
	}
	if !strings.Contains(got.Cards[0].Header.Subtitle, "💚💚💚") {
		t.Fatalf("healthy subtitle wrong: %q", got.Cards[0].Header.Subtitle)
	}
	if got.Text != "" {
		t.Fatalf("healthy card should not mention anyone, got %q", got.Text)
	}
}

func TestChat_FailingCardMentionsAll(t *testing.T) {
	var got chatPayload
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(200)
	}))
	defer ts.Close()

	c := NewChat(ts.URL, zap.NewNop())
	if err := c.SendStatus(context.Background(), false); err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(got.Cards[0].Header.Subtitle, "💔💔💔") {
		t.Fatalf("failing subtitle wrong: %q", got.Cards[0].Header.Subtitle)
	}
	if !strings.Contains(got.Text, "<users/all>") {
		t.Fatalf("failing card should mention all users, got %q", got.Text)
	}
}

func TestChat_Non2xxIsNotAnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	c := NewChat(ts.URL, zap.NewNop())
	// The webhook's status code is logged, not interpreted.
	if err := c.SendStatus(context.Background(), true); err != nil {
		t.Fatalf("unexpected error on non-2xx: %v", err)
	}
}

func TestNewChat_EmptyWebhookDisabled(t *testing.T) {
	if c := NewChat("", zap.NewNop()); c != nil {
		t.Fatal("expected nil chat for empty webhook")
	}
}
