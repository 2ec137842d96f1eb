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


// Package openai implements ai.AIProvider against OpenAI-compatible APIs.
//
// The services are built on langchaingo, so any server speaking the OpenAI
// wire protocol works: OpenAI itself, Ollama, LocalAI or vLLM.
//
// # Services
//
//   - Embedder turns restatements and queries into unit-length vectors.
//   - MemoryExtractor asks the chat model, in JSON mode, to rewrite one
//     dialogue turn as a lossless restatement with keywords, persons,
//     entities, location and topic. Malformed responses are repaired where
//     possible and retried up to three times.
//   - Answerer composes an answer to a question from retrieved memories.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"), // /v1 added automatically
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	    ai.WithChatModel("qwen2.5:3b"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	memory, err := provider.MemoryExtractor().Extract(ctx, core.Dialogue{
//	    Speaker: "Alice",
//	    Content: "Let's meet at Starbucks tomorrow at 2pm",
//	})
package openai
