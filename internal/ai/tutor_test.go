package ai

import (
	"context"
	"os"
	"strings"
	"testing"

	"log/slog"

	"github.com/idfuturestars/starguide/internal/app"
)

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return slog.New(handler)
}

func TestProvidersReflectKeys(t *testing.T) {
	tu := New(app.Config{OpenAIKey: "sk-test", ClaudeKey: ""}, newTestLogger())
	p := tu.Providers()
	if !p["openai"] {
		t.Error("openai should be available with a key")
	}
	if p["claude"] || p["gemini"] {
		t.Error("claude/gemini should be unavailable without keys")
	}
}

func TestChatFallsBackWithoutProvider(t *testing.T) {
	tu := New(app.Config{}, newTestLogger())
	reply, provider, _ := tu.Chat(context.Background(), "help me with algebra", "openai")
	if provider != "local" {
		t.Errorf("provider = %q, want local", provider)
	}
	if !strings.Contains(reply, "trouble connecting") {
		t.Errorf("reply = %q, want the fallback message", reply)
	}
}

func TestChatPlaceholderProviders(t *testing.T) {
	tu := New(app.Config{ClaudeKey: "k", GeminiKey: "k"}, newTestLogger())

	if _, provider, _ := tu.Chat(context.Background(), "hi", "claude"); provider != "claude" {
		t.Errorf("provider = %q, want claude", provider)
	}
	if _, provider, _ := tu.Chat(context.Background(), "hi", "gemini"); provider != "gemini" {
		t.Errorf("provider = %q, want gemini", provider)
	}
}
