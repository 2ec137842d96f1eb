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


package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/poiesic/memvault/adapter"
	"github.com/poiesic/memvault/core"
	"github.com/poiesic/memvault/search"
)

const (
	// maxBodyBytes caps request bodies; batches of dialogues are the largest.
	maxBodyBytes = 8 << 20

	defaultQueryLimit    = 10
	defaultRetrieveLimit = 10
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Welcome to %s v%s", s.appName, s.version),
		Success: true,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Version:     s.version,
		Initialized: s.ready(),
	})
}

func (s *Server) handleAddDialogue(w http.ResponseWriter, r *http.Request) {
	var in DialogueInput
	if !s.decode(w, r, &in) {
		return
	}
	if err := core.ValidateDialogue(&in); err != nil {
		writeProblem(w, r, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.adapter.AddDialogue(r.Context(), in)
	if err != nil {
		s.fail(w, r, "add dialogue", err)
		return
	}
	s.writeOutcome(w, r, http.StatusCreated, out)
}

func (s *Server) handleAddDialogues(w http.ResponseWriter, r *http.Request) {
	var in DialogueBatchInput
	if !s.decode(w, r, &in) {
		return
	}
	if in.Dialogues == nil {
		writeProblem(w, r, http.StatusBadRequest, "dialogues is required")
		return
	}

	out, err := s.adapter.AddDialogues(r.Context(), in.Dialogues)
	if err != nil {
		s.fail(w, r, "add dialogues", err)
		return
	}
	s.writeOutcome(w, r, http.StatusCreated, out)
}

func (s *Server) handleFinalize(w http.ResponseWriter, r *http.Request) {
	out, err := s.adapter.Finalize(r.Context())
	if err != nil {
		s.fail(w, r, "finalize", err)
		return
	}
	s.writeOutcome(w, r, http.StatusOK, out)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var in QueryInput
	if !s.decode(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Query) == "" {
		writeProblem(w, r, http.StatusBadRequest, "query must not be empty")
		return
	}

	opts := adapter.QueryOptions{Query: in.Query, Limit: defaultQueryLimit}
	if in.Limit != nil {
		if *in.Limit < 1 {
			writeProblem(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opts.Limit = *in.Limit
	}
	if in.Threshold != nil {
		if *in.Threshold < 0 || *in.Threshold > 1 {
			writeProblem(w, r, http.StatusBadRequest, "threshold must be between 0 and 1")
			return
		}
		opts.Threshold = *in.Threshold
	}

	answer, err := s.adapter.Query(r.Context(), opts)
	if err != nil {
		s.fail(w, r, "query", err)
		return
	}
	writeJSON(w, http.StatusOK, QueryResponse{Answer: answer})
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeProblem(w, r, http.StatusBadRequest, fmt.Sprintf("limit must be a non-negative integer, got %q", raw))
			return
		}
		limit = n
	}

	var (
		records []core.MemoryRecord
		err     error
	)
	if query := strings.TrimSpace(r.URL.Query().Get("query")); query != "" {
		if limit == 0 {
			limit = defaultRetrieveLimit
		}
		records, err = s.adapter.Search(r.Context(), query, limit)
	} else {
		records, err = s.adapter.RetrieveAll(r.Context(), limit)
	}
	if err != nil {
		s.fail(w, r, "retrieve", err)
		return
	}
	if records == nil {
		records = []core.MemoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeleteMemory(w http.ResponseWriter, r *http.Request) {
	out, err := s.adapter.DeleteMemory(r.Context(), r.PathValue("entry_id"))
	if err != nil {
		s.fail(w, r, "delete memory", err)
		return
	}
	s.writeOutcome(w, r, http.StatusOK, out)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.adapter.GetStats(r.Context())
	if err != nil {
		s.fail(w, r, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	var in ClearRequest
	if !s.decode(w, r, &in) {
		return
	}
	if !in.Confirmation {
		writeProblem(w, r, http.StatusBadRequest, "Confirmation required to clear memories. Set 'confirmation' to true.")
		return
	}

	out, err := s.adapter.Clear(r.Context())
	if err != nil {
		s.fail(w, r, "clear", err)
		return
	}
	s.logger.Warn("all memories cleared", "request_id", requestID(r.Context()))
	s.writeOutcome(w, r, http.StatusOK, out)
}

// decode reads a JSON body into v, answering 400 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		detail := "invalid JSON body: " + err.Error()
		if errors.Is(err, io.EOF) {
			detail = "request body is required"
		}
		writeProblem(w, r, http.StatusBadRequest, detail)
		return false
	}
	return true
}

// writeOutcome maps an adapter Outcome onto a response. Successful outcomes use
// status; failures use the status matching their reason.
func (s *Server) writeOutcome(w http.ResponseWriter, r *http.Request, status int, out adapter.Outcome) {
	if out.Success {
		writeJSON(w, status, MessageResponse{
			Message:  out.Message,
			Success:  true,
			Count:    out.Count,
			EntryIDs: out.EntryIDs,
		})
		return
	}

	switch out.Reason {
	case adapter.ReasonNotFound:
		writeProblem(w, r, http.StatusNotFound, out.Message)
	case adapter.ReasonInvalid:
		writeProblem(w, r, http.StatusBadRequest, out.Message)
	default:
		s.logger.Error("operation failed", "path", r.URL.Path, "message", out.Message)
		writeProblem(w, r, http.StatusInternalServerError, out.Message)
	}
}

// fail reports an adapter error. The error text is passed through for
// diagnostics.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, adapter.ErrNotInitialized):
		writeProblem(w, r, http.StatusServiceUnavailable, "Storage not initialized")
	case errors.Is(err, search.ErrEmptyQuery):
		writeProblem(w, r, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(op+" failed", "request_id", requestID(r.Context()), "err", err)
		writeProblem(w, r, http.StatusInternalServerError, err.Error())
	}
}
