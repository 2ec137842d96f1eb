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


package core

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses ISO-8601 text. Values without a zone are read as UTC.
// Empty input yields the zero time and no error.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// FormatTimestamp renders ts as RFC 3339 text, or "" for the zero time.
func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339Nano)
}

// ValidateDialogue validates a Dialogue according to domain rules.
//
// Validation rules:
//   - Speaker must not be blank
//   - Content must not be blank
//   - Timestamp, when present, must parse as ISO-8601
func ValidateDialogue(d *Dialogue) error {
	if d == nil {
		return fmt.Errorf("%w: dialogue is nil", ErrInvalidDialogue)
	}

	if strings.TrimSpace(d.Speaker) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDialogue, ErrEmptySpeaker)
	}

	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDialogue, ErrEmptyContent)
	}

	if _, err := ParseTimestamp(d.Timestamp); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDialogue, err)
	}

	return nil
}

// ValidateMemoryEntry validates a MemoryEntry before it is persisted.
//
// NOT validated:
//   - Vector (empty until embedded)
//   - ID (0 asks storage to assign one)
func ValidateMemoryEntry(entry *MemoryEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidMemoryEntry)
	}

	if strings.TrimSpace(entry.Restatement) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMemoryEntry, ErrEmptyRestatement)
	}

	return nil
}
