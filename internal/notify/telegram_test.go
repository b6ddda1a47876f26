package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobscout/internal/config"
)

func TestTelegramSend_Unconfigured(t *testing.T) {
	tg := NewTelegram(config.NotifyConfig{})
	err := tg.Send(context.Background(), "Morning briefing", "nothing new")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestTelegramSend_PostsToBotEndpoint(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewTelegram(config.NotifyConfig{
		Timeout:        5 * time.Second,
		TelegramToken:  "bot-token",
		TelegramChatID: "chat-1",
	})
	tg.apiBase = server.URL

	if err := tg.Send(context.Background(), "Morning briefing", "1. Backend Engineer at Acme"); err != nil {
		t.Fatalf("send error: %v", err)
	}

	if gotPath != "/botbot-token/sendMessage" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotPayload["chat_id"] != "chat-1" {
		t.Fatalf("unexpected chat_id %q", gotPayload["chat_id"])
	}
	if !strings.Contains(gotPayload["text"], "Morning briefing") {
		t.Fatalf("expected subject in message, got %q", gotPayload["text"])
	}
}

func TestTelegramSend_ChunksLongDigests(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tg := NewTelegram(config.NotifyConfig{
		TelegramToken:  "tok",
		TelegramChatID: "chat",
	})
	tg.apiBase = server.URL

	long := strings.Repeat("a very long digest line\n", 400)
	if err := tg.Send(context.Background(), "Evening summary", long); err != nil {
		t.Fatalf("send error: %v", err)
	}
	if calls < 2 {
		t.Fatalf("expected the digest to be split into multiple messages, got %d call(s)", calls)
	}
}

func TestTelegramSend_APIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Too Many Requests"}`))
	}))
	defer server.Close()

	tg := NewTelegram(config.NotifyConfig{
		TelegramToken:  "tok",
		TelegramChatID: "chat",
	})
	tg.apiBase = server.URL

	err := tg.Send(context.Background(), "Morning briefing", "body")
	if err == nil || !strings.Contains(err.Error(), "Too Many Requests") {
		t.Fatalf("expected API error description, got %v", err)
	}
}
