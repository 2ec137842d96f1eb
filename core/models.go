package core

import (
	"fmt"
	"strconv"
	"time"
)

// ID is a unique identifier for stored memories.
// IDs are synthesized from a monotonic clock by IDGenerator.
type ID uint64

// String renders the ID as decimal text, the form exposed to clients.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses the decimal text form of an ID.
// Zero is never issued, so it is rejected along with non-numeric input.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(v), nil
}

// Dialogue is a single conversational turn submitted for ingestion.
// Location, Persons, Entities and Topic are optional hints from the caller;
// they are merged with whatever the extractor finds.
type Dialogue struct {
	Speaker   string   `json:"speaker"`
	Content   string   `json:"content"`
	Timestamp string   `json:"timestamp,omitempty"`
	Location  string   `json:"location,omitempty"`
	Persons   []string `json:"persons,omitempty"`
	Entities  []string `json:"entities,omitempty"`
	Topic     string   `json:"topic,omitempty"`
}

// MemoryEntry is the durable form of a memory.
type MemoryEntry struct {
	Id       ID     `json:"id"`
	Sequence uint64 `json:"seq"`
	Speaker  string `json:"speaker,omitempty"`
	// Content is the dialogue text as submitted.
	Content string `json:"content,omitempty"`
	// Restatement is the self-contained form of the memory. Never empty once stored.
	Restatement string    `json:"restatement"`
	Keywords    []string  `json:"keywords,omitempty"`
	Location    string    `json:"location,omitempty"`
	Persons     []string  `json:"persons,omitempty"`
	Entities    []string  `json:"entities,omitempty"`
	Topic       string    `json:"topic,omitempty"`
	Timestamp   time.Time `json:"ts"`
	InsertedAt  time.Time `json:"inserted_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	// Vector is the embedding of Restatement.
	Vector []float32 `json:"vector,omitempty"`
}

// MemoryRecord is the client-facing view of a MemoryEntry.
type MemoryRecord struct {
	EntryID             string   `json:"entry_id,omitempty"`
	LosslessRestatement string   `json:"lossless_restatement"`
	Keywords            []string `json:"keywords,omitempty"`
	Timestamp           string   `json:"timestamp,omitempty"`
	Location            string   `json:"location,omitempty"`
	Persons             []string `json:"persons,omitempty"`
	Entities            []string `json:"entities,omitempty"`
	Topic               string   `json:"topic,omitempty"`
}

// Record converts the entry to its client-facing form.
func (e *MemoryEntry) Record() MemoryRecord {
	return MemoryRecord{
		EntryID:             e.Id.String(),
		LosslessRestatement: e.Restatement,
		Keywords:            e.Keywords,
		Timestamp:           FormatTimestamp(e.Timestamp),
		Location:            e.Location,
		Persons:             e.Persons,
		Entities:            e.Entities,
		Topic:               e.Topic,
	}
}

// Stats is a point-in-time snapshot of a memory table.
type Stats struct {
	Count     int    `json:"count"`
	TableName string `json:"table_name"`
	DBPath    string `json:"db_path"`
	DBType    string `json:"db_type"`
}

// Checkpoint records how far a long-running processor has progressed.
type Checkpoint struct {
	ProcessorType string    `json:"processor"`
	LastSequence  uint64    `json:"last_seq"`
	Processed     int       `json:"processed"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SimilarityMatch represents an entry match from vector similarity search.
type SimilarityMatch struct {
	EntryId ID
	Score   float32
}

// SearchResult represents a search result with the full entry and relevance score.
type SearchResult struct {
	Entry *MemoryEntry
	Score float32
}
