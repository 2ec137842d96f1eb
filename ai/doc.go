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


// Package ai provides abstractions for AI services used by memvault.
//
// This package defines interfaces for the three model-backed steps of the
// memory pipeline. Storage, ingestion and search depend on these interfaces
// rather than on any concrete client.
//
// # Design Principles
//
// The package is designed around four interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - MemoryExtractor: Turns a dialogue turn into a self-contained memory
//   - Answerer: Writes an answer to a question from retrieved memories
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Deterministic offline implementation for tests and demos
//
// Config.Provider picks between them at startup.
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Mock constructors return CONCRETE types so tests can inject behavior and
// count calls.
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextFunc = ...
//	count := mockEmbed.CallCount()
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithChatModel("gpt-4o-mini"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	memory, err := provider.MemoryExtractor().Extract(ctx, core.Dialogue{Speaker: "Alice", Content: "I love pizza"})
//	vector, err := provider.Embedder().EmbedText(ctx, memory.Restatement)
package ai
