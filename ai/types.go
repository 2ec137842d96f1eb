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


package ai

// ExtractedMemory is the result of distilling one dialogue turn.
type ExtractedMemory struct {
	// Restatement is a standalone sentence preserving every fact of the turn,
	// with pronouns and relative times resolved.
	Restatement string

	// Keywords are short lowercase search terms.
	Keywords []string

	// Persons are people mentioned or speaking.
	Persons []string

	// Entities are organisations, products, places and other named things.
	Entities []string

	// Location is where the conversation or event takes place, if stated.
	Location string

	// Topic is a short label for the subject of the turn.
	Topic string
}
