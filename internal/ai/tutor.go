package ai

import (
	"context"
	"time"

	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/idfuturestars/starguide/internal/app"
	"github.com/idfuturestars/starguide/pkg/metrics"
)

const systemPrompt = "You are StarMentor, an encouraging AI tutor for students. " +
	"Be helpful, friendly, and use space/star metaphors when appropriate. " +
	"Keep responses concise but informative."

const fallbackReply = "I'm having trouble connecting right now. Try asking about math, science, or study tips!"

// Tutor proxies chat messages to the configured AI provider. Only OpenAI is
// wired up; claude/gemini report availability but answer with a placeholder,
// and any failure degrades to the static fallback.
type Tutor struct {
	log    *slog.Logger
	client *openai.Client
	model  string

	available map[string]bool
}

// New builds a tutor from the configured provider keys
func New(cfg app.Config, log *slog.Logger) *Tutor {
	t := &Tutor{
		log:   log,
		model: openai.GPT3Dot5Turbo,
		available: map[string]bool{
			"openai": cfg.OpenAIKey != "",
			"claude": cfg.ClaudeKey != "",
			"gemini": cfg.GeminiKey != "",
		},
	}
	if cfg.OpenAIKey != "" {
		t.client = openai.NewClient(cfg.OpenAIKey)
	}
	return t
}

// Providers reports which providers have keys configured
func (t *Tutor) Providers() map[string]bool {
	out := make(map[string]bool, len(t.available))
	for k, v := range t.available {
		out[k] = v
	}
	return out
}

// Chat answers a student message. The returned provider is "local" when the
// reply is the fallback string.
func (t *Tutor) Chat(ctx context.Context, message, provider string) (reply, usedProvider string, elapsed time.Duration) {
	start := time.Now()
	defer func() {
		elapsed = time.Since(start)
		metrics.AILatency.WithLabelValues(usedProvider).Observe(elapsed.Seconds())
	}()

	switch {
	case provider == "openai" && t.client != nil:
		resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       t.model,
			MaxTokens:   300,
			Temperature: 0.7,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: message},
			},
		})
		if err != nil || len(resp.Choices) == 0 {
			t.log.Error("ai.openai", "err", err)
			return fallbackReply, "local", 0
		}
		return resp.Choices[0].Message.Content, "openai", 0

	case provider == "claude" && t.available["claude"]:
		return "Claude AI is coming soon! For now, try using OpenAI.", "claude", 0

	case provider == "gemini" && t.available["gemini"]:
		return "Gemini AI is coming soon! For now, try using OpenAI.", "gemini", 0
	}

	t.log.Warn("ai.provider.unavailable", "provider", provider)
	return fallbackReply, "local", 0
}
