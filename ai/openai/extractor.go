package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

const maxExtractAttempts = 3

// ErrEmptyRestatement is returned when the model produced no restatement.
var ErrEmptyRestatement = errors.New("model returned an empty restatement")

// MemoryExtractor implements ai.MemoryExtractor using OpenAI-compatible chat APIs.
type MemoryExtractor struct {
	client      llms.Model
	maxKeywords int
	logger      *slog.Logger
}

var _ ai.MemoryExtractor = (*MemoryExtractor)(nil)

// extraction is the JSON object the model is asked to produce.
type extraction struct {
	Restatement string   `json:"lossless_restatement"`
	Keywords    []string `json:"keywords"`
	Persons     []string `json:"persons"`
	Entities    []string `json:"entities"`
	Location    *string  `json:"location"`
	Topic       *string  `json:"topic"`
}

// newMemoryExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newMemoryExtractor(config *ai.Config) (*MemoryExtractor, error) {
	client, err := newChatClient(config)
	if err != nil {
		return nil, err
	}

	return &MemoryExtractor{
		client:      client,
		maxKeywords: config.MaxKeywords,
		logger:      slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewMemoryExtractor creates a new extractor using the provided configuration.
//
// Returns ai.MemoryExtractor interface to enforce abstraction.
func NewMemoryExtractor(config *ai.Config) (ai.MemoryExtractor, error) {
	return newMemoryExtractor(config)
}

// newChatClient creates the langchaingo client shared by extraction and answering.
func newChatClient(config *ai.Config) (*openai.LLM, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(token(config)),
		openai.WithModel(config.ChatModel),
	)
}

// Extract asks the model for a restatement and enrichments of one dialogue turn.
func (e *MemoryExtractor) Extract(ctx context.Context, dialogue core.Dialogue) (*ai.ExtractedMemory, error) {
	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, buildExtractionPrompt(e.maxKeywords)),
		llms.TextParts(llms.ChatMessageTypeHuman, formatDialogue(dialogue)),
	}

	// Try up to 3 times in case of malformed JSON
	var result extraction
	var lastErr error
	for attempt := 0; attempt < maxExtractAttempts; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			lastErr = errors.New("no choices returned from model")
			continue
		}

		responseText := repairJSON(stripCodeFence(response.Choices[0].Content))

		result = extraction{}
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}
		if strings.TrimSpace(result.Restatement) == "" {
			lastErr = ErrEmptyRestatement
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to extract memory after retries", "err", lastErr)
		return nil, fmt.Errorf("extract memory: %w", lastErr)
	}

	memory := &ai.ExtractedMemory{
		Restatement: strings.TrimSpace(result.Restatement),
		Keywords:    cleanList(result.Keywords, e.maxKeywords, true),
		Persons:     cleanList(result.Persons, 0, false),
		Entities:    cleanList(result.Entities, 0, false),
		Location:    derefTrim(result.Location),
		Topic:       derefTrim(result.Topic),
	}

	e.logger.Debug("extracted memory",
		"keywords", len(memory.Keywords),
		"persons", len(memory.Persons),
		"entities", len(memory.Entities))

	return memory, nil
}

// formatDialogue renders the dialogue turn as the user message.
func formatDialogue(d core.Dialogue) string {
	var b strings.Builder
	if d.Timestamp != "" {
		fmt.Fprintf(&b, "[%s] ", d.Timestamp)
	}
	fmt.Fprintf(&b, "%s: %s", d.Speaker, d.Content)
	return b.String()
}
