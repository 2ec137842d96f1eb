// Package mock provides deterministic implementations of the ai interfaces.
//
// The mocks never touch the network. They back unit tests and the "mock"
// provider setting, which lets the service run fully offline.
//
// # Usage
//
//	provider := mock.NewMockProvider()
//	memory, _ := provider.MemoryExtractor().Extract(ctx, core.Dialogue{Speaker: "Alice", Content: "I love pizza"})
//	// memory.Restatement == "Alice: I love pizza"
//
//	// Inject custom behavior
//	embedder := mock.NewMockEmbedder()
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("embedding service down")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Hashes content words into a unit-length bag-of-words vector
//   - MockMemoryExtractor: Restates as "speaker: content" and keeps content words as keywords
//   - MockAnswerer: Quotes the retrieved memories
//   - MockProvider: Aggregates the three
package mock
