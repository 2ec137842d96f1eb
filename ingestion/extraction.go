package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
)

// extractionProcessor builds the memory entry for a dialogue.
type extractionProcessor struct {
	extractor ai.MemoryExtractor
	logger    *slog.Logger
}

var _ processor = (*extractionProcessor)(nil)

func newExtractionProcessor(extractor ai.MemoryExtractor, logger *slog.Logger) (processor, error) {
	if extractor == nil {
		return nil, fmt.Errorf("memory extractor required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &extractionProcessor{
		extractor: extractor,
		logger:    logger.With("processor", "extraction"),
	}, nil
}

func (xp *extractionProcessor) process(ctx context.Context, j *job) error {
	memory, err := xp.extractor.Extract(ctx, j.dialogue)
	if err != nil {
		xp.logger.Error("error extracting memory", "index", j.index, "err", err)
		return err
	}

	d := j.dialogue
	entry := &core.MemoryEntry{
		Id:          j.id,
		Speaker:     strings.TrimSpace(d.Speaker),
		Content:     d.Content,
		Restatement: strings.TrimSpace(memory.Restatement),
		Keywords:    mergeTerms(memory.Keywords, nil),
		Persons:     mergeTerms(d.Persons, memory.Persons),
		Entities:    mergeTerms(d.Entities, memory.Entities),
		Location:    firstNonEmpty(d.Location, memory.Location),
		Topic:       firstNonEmpty(d.Topic, memory.Topic),
		Timestamp:   j.timestamp,
	}
	if err := core.ValidateMemoryEntry(entry); err != nil {
		return err
	}

	j.entry = entry
	return nil
}

// mergeTerms concatenates lists, dropping blanks and case-insensitive duplicates.
// Earlier lists win.
func mergeTerms(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, term := range list {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			key := strings.ToLower(term)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, term)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
