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


package ingestion

import (
	"context"
	"time"

	"github.com/poiesic/memvault/core"
)

// job carries one dialogue through the processors.
type job struct {
	index     int
	id        core.ID
	dialogue  core.Dialogue
	timestamp time.Time
	entry     *core.MemoryEntry
}

// processor is an internal interface for one preparation step.
// Steps run in order on the same job; a step may assume the previous ones
// succeeded.
type processor interface {
	process(ctx context.Context, j *job) error
}
