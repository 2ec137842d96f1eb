// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
)

// DefaultMaxKeywords is the keyword cap used by NewMockMemoryExtractor.
const DefaultMaxKeywords = 8

// MockMemoryExtractor is a test double for ai.MemoryExtractor.
//
// Default behavior: the restatement is "<speaker>: <content>", keywords are
// the content words in order of appearance, the speaker is the only person
// and capitalized words after the first one become entities.
type MockMemoryExtractor struct {
	// ExtractFunc is called by Extract if set.
	ExtractFunc func(ctx context.Context, dialogue core.Dialogue) (*ai.ExtractedMemory, error)

	maxKeywords int
	callCount   atomic.Int64
}

// NewMockMemoryExtractor creates a mock extractor with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockExtractor().
func NewMockMemoryExtractor() *MockMemoryExtractor {
	return &MockMemoryExtractor{maxKeywords: DefaultMaxKeywords}
}

// Extract distils a dialogue without calling any model.
func (m *MockMemoryExtractor) Extract(ctx context.Context, dialogue core.Dialogue) (*ai.ExtractedMemory, error) {
	m.callCount.Add(1)

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, dialogue)
	}

	content := strings.TrimSpace(dialogue.Content)
	if content == "" {
		return nil, errors.New("mock extractor: empty content")
	}
	speaker := strings.TrimSpace(dialogue.Speaker)

	restatement := content
	if speaker != "" {
		restatement = speaker + ": " + content
	}

	var keywords []string
	seen := make(map[string]struct{})
	for _, w := range contentWords(content) {
		if len(keywords) >= m.maxKeywords {
			break
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}

	var persons []string
	if speaker != "" {
		persons = []string{speaker}
	}

	return &ai.ExtractedMemory{
		Restatement: restatement,
		Keywords:    keywords,
		Persons:     persons,
		Entities:    capitalizedWords(content),
	}, nil
}

// capitalizedWords returns words starting with an uppercase letter, skipping
// the first word of the text.
func capitalizedWords(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for i, f := range fields {
		if i == 0 || f == "I" {
			continue
		}
		if r := []rune(f)[0]; unicode.IsUpper(r) {
			out = append(out, f)
		}
	}
	return out
}

// CallCount returns the number of times Extract was called.
func (m *MockMemoryExtractor) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockMemoryExtractor) Reset() {
	m.callCount.Store(0)
	m.ExtractFunc = nil
}
