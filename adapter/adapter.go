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


package adapter

import (
	"context"

	"github.com/poiesic/memvault/ai"
	"github.com/poiesic/memvault/core"
)

// Adapter is the storage contract the HTTP service talks to. Every backend
// implements all of it; operations a backend has no use for succeed as no-ops.
//
// Expected failures (not found, invalid input, a batch item that could not be
// stored) are reported in the Outcome. A returned error means the backend
// itself malfunctioned.
type Adapter interface {
	// Initialize opens the backend. It must be called once before any other
	// operation; calling it again on a ready adapter is a no-op.
	Initialize(ctx context.Context) error

	// IsInitialized reports whether Initialize has succeeded. It has no side effects.
	IsInitialized() bool

	// AddDialogue ingests one dialogue turn.
	AddDialogue(ctx context.Context, dialogue core.Dialogue) (Outcome, error)

	// AddDialogues ingests a batch. One failing item does not stop the rest;
	// Outcome.Count reports how many were stored.
	AddDialogues(ctx context.Context, dialogues []core.Dialogue) (Outcome, error)

	// Finalize makes buffered writes durable.
	Finalize(ctx context.Context) (Outcome, error)

	// Query answers a question in prose from the stored memories.
	Query(ctx context.Context, opts QueryOptions) (string, error)

	// RetrieveAll lists memories in insertion order. A limit <= 0 means no limit.
	RetrieveAll(ctx context.Context, limit int) ([]core.MemoryRecord, error)

	// Search lists the memories most related to query, best first.
	Search(ctx context.Context, query string, limit int) ([]core.MemoryRecord, error)

	// DeleteMemory removes one memory. A missing entry yields ReasonNotFound.
	DeleteMemory(ctx context.Context, entryID string) (Outcome, error)

	// GetStats counts the stored memories at call time.
	GetStats(ctx context.Context) (core.Stats, error)

	// Clear removes every memory and leaves the adapter ready.
	Clear(ctx context.Context) (Outcome, error)

	// Close releases the backend. The adapter is not initialized afterwards.
	Close() error
}

// Reason classifies an unsuccessful Outcome.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonNotFound means the target of the operation does not exist.
	ReasonNotFound
	// ReasonInvalid means the request could not be acted on as given.
	ReasonInvalid
	// ReasonBackend means the backend refused or failed the write.
	ReasonBackend
)

// Outcome is the structured result of a mutating operation.
type Outcome struct {
	Success  bool
	Message  string
	Count    int
	EntryIDs []string
	Reason   Reason
}

// QueryOptions parameterizes Query.
type QueryOptions struct {
	Query string
	// Limit caps the memories handed to the answerer; <= 0 uses the default.
	Limit int
	// Threshold overrides the minimum similarity when in (0, 1].
	Threshold float32
}

// Config selects and configures a backend.
type Config struct {
	// DBType names the backend: "badger" (alias "lancedb") or "neo4j".
	DBType    string
	DBPath    string
	TableName string

	// AI configures the provider used by the local backend.
	AI *ai.Config

	// Workers is the number of dialogues prepared concurrently; 0 picks a default.
	Workers int

	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
}
