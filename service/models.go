package service

import "github.com/poiesic/memvault/core"

// DialogueInput is the body of POST /dialogue.
type DialogueInput = core.Dialogue

// DialogueBatchInput is the body of POST /dialogues.
type DialogueBatchInput struct {
	Dialogues []DialogueInput `json:"dialogues"`
}

// QueryInput is the body of POST /query and POST /ask.
type QueryInput struct {
	Query     string   `json:"query"`
	Limit     *int     `json:"limit,omitempty"`
	Threshold *float32 `json:"threshold,omitempty"`
}

// QueryResponse is the answer returned by /query and /ask.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// ClearRequest is the body of DELETE /clear.
type ClearRequest struct {
	Confirmation bool `json:"confirmation"`
}

// HealthResponse reports liveness and whether storage is ready.
type HealthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Initialized bool   `json:"simplemem_initialized"`
}

// MessageResponse is the body of successful mutating calls.
type MessageResponse struct {
	Message  string   `json:"message"`
	Success  bool     `json:"success"`
	Count    int      `json:"count,omitempty"`
	EntryIDs []string `json:"entry_ids,omitempty"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse = core.Stats
