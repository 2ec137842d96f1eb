package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/memvault/ai"
	"github.com/tmc/langchaingo/llms"
)

// Answerer implements ai.Answerer using OpenAI-compatible chat APIs.
type Answerer struct {
	client llms.Model
	logger *slog.Logger
}

var _ ai.Answerer = (*Answerer)(nil)

// newAnswerer is an internal constructor that returns the concrete type.
func newAnswerer(config *ai.Config) (*Answerer, error) {
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}
	return &Answerer{
		client: client,
		logger: slog.Default().With("component", "openai-answerer"),
	}, nil
}

// NewAnswerer creates a new answerer using the provided configuration.
//
// Returns ai.Answerer interface to enforce abstraction.
func NewAnswerer(config *ai.Config) (ai.Answerer, error) {
	return newAnswerer(config)
}

// Answer asks the model to answer question from the numbered memories.
func (a *Answerer) Answer(ctx context.Context, question string, memories []string) (string, error) {
	var b strings.Builder
	for i, m := range memories {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m)
	}
	prompt := fmt.Sprintf(answerPromptTemplate, b.String(), question)

	answer, err := llms.GenerateFromSinglePrompt(ctx, a.client, prompt, llms.WithTemperature(0.2))
	if err != nil {
		a.logger.Error("failed to generate answer", "err", err)
		return "", err
	}

	answer = strings.TrimSpace(answer)
	a.logger.Debug("generated answer", "memories", len(memories), "length", len(answer))
	return answer, nil
}
