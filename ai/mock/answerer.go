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
	"strings"
	"sync/atomic"
)

// MockAnswerer is a test double for ai.Answerer.
// By default it quotes the memories it was given, in order.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	AnswerFunc func(ctx context.Context, question string, memories []string) (string, error)

	callCount atomic.Int64
}

// NewMockAnswerer creates a mock answerer with default behavior.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer joins the memories into a single reply.
func (m *MockAnswerer) Answer(ctx context.Context, question string, memories []string) (string, error) {
	m.callCount.Add(1)

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, memories)
	}

	return "Based on your memories: " + strings.Join(memories, " | "), nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and custom functions.
func (m *MockAnswerer) Reset() {
	m.callCount.Store(0)
	m.AnswerFunc = nil
}
