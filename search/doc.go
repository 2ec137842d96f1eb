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


// Package search finds and answers from stored memories.
//
// The Searcher ranks entries by combining three signals:
//   - Semantic similarity between the query embedding and entry vectors
//   - Keyword index hits for the filtered query words
//   - A verbatim boost when every query word appears in the entry
//
// Entries found by both the semantic and the keyword stage score highest.
// Ask feeds the best entries to the answerer and returns its prose answer,
// or NoMatchAnswer when nothing relates to the question.
package search
