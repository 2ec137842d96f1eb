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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDialogue indicates a Dialogue failed validation.
	ErrInvalidDialogue = errors.New("invalid dialogue")

	// ErrInvalidMemoryEntry indicates a MemoryEntry failed validation.
	ErrInvalidMemoryEntry = errors.New("invalid memory entry")

	// ErrEmptySpeaker indicates the Speaker field is blank.
	ErrEmptySpeaker = errors.New("speaker cannot be empty")

	// ErrEmptyContent indicates the Content field is blank.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyRestatement indicates a memory has no restatement.
	ErrEmptyRestatement = errors.New("restatement cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp could not be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp")

	// ErrInvalidID indicates text that is not a valid entry ID.
	ErrInvalidID = errors.New("invalid entry id")
)
