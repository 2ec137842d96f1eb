package core

import (
	"errors"
	"testing"
	"time"
)

func TestIDString(t *testing.T) {
	if got := ID(1700000000000000042).String(); got != "1700000000000000042" {
		t.Errorf("ID.String() = %q", got)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "decimal", input: "42", want: 42},
		{name: "large", input: "18446744073709551615", want: ID(^uint64(0))},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "word", input: "nonexistent", wantErr: true},
		{name: "injection attempt", input: "abc' OR '1'='1", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidID) {
					t.Fatalf("ParseID(%q) error = %v, want ErrInvalidID", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseIDRoundTrip(t *testing.T) {
	id := ID(1234567890123)
	parsed, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != id {
		t.Errorf("round trip = %d, want %d", parsed, id)
	}
}

func TestMemoryEntryRecord(t *testing.T) {
	entry := &MemoryEntry{
		Id:          42,
		Restatement: "Alice loves pizza.",
		Keywords:    []string{"pizza"},
		Persons:     []string{"Alice"},
		Timestamp:   time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC),
	}

	rec := entry.Record()
	if rec.EntryID != "42" {
		t.Errorf("EntryID = %q", rec.EntryID)
	}
	if rec.LosslessRestatement != entry.Restatement {
		t.Errorf("LosslessRestatement = %q", rec.LosslessRestatement)
	}
	if rec.Timestamp != "2025-01-15T14:30:00Z" {
		t.Errorf("Timestamp = %q", rec.Timestamp)
	}
	if rec.Location != "" || rec.Topic != "" {
		t.Errorf("unset enrichments should stay empty: %+v", rec)
	}

	if got := (&MemoryEntry{Id: 1, Restatement: "x"}).Record().Timestamp; got != "" {
		t.Errorf("zero timestamp rendered as %q", got)
	}
}
