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


package ai

import (
	"context"

	"github.com/poiesic/memvault/core"
)

// Embedder generates vector embeddings for text.
// Implementations must return unit-length vectors so that a dot product is
// a cosine similarity.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// MemoryExtractor distils a dialogue turn into a self-contained memory.
type MemoryExtractor interface {
	// Extract produces a restatement of the dialogue that can be understood
	// without the surrounding conversation, plus optional enrichments.
	// The returned Restatement is never empty when err is nil.
	Extract(ctx context.Context, dialogue core.Dialogue) (*ExtractedMemory, error)
}

// Answerer synthesizes a natural-language answer from retrieved memories.
type Answerer interface {
	// Answer responds to question using only the given memories.
	// memories is never empty.
	Answer(ctx context.Context, question string, memories []string) (string, error)
}

// AIProvider aggregates the AI services used by the engine.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// MemoryExtractor returns the dialogue extraction service.
	// The returned MemoryExtractor is safe for concurrent use.
	MemoryExtractor() MemoryExtractor

	// Answerer returns the answer synthesis service.
	Answerer() Answerer

	// Close releases resources held by the provider and its services.
	Close() error
}
