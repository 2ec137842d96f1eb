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


package openai

import "fmt"

const extractionResponseSchema = `{
  "type": "object",
  "properties": {
    "lossless_restatement": {"type": "string", "minLength": 1},
    "keywords": {"type": "array", "items": {"type": "string"}},
    "persons": {"type": "array", "items": {"type": "string"}},
    "entities": {"type": "array", "items": {"type": "string"}},
    "location": {"type": ["string", "null"]},
    "topic": {"type": ["string", "null"]}
  },
  "required": ["lossless_restatement", "keywords", "persons", "entities", "location", "topic"],
  "additionalProperties": false
}`

const extractionPromptTemplate = `You turn one line of a conversation into a memory that can be understood on its own.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- lossless_restatement is one or two complete sentences in the third person that keep every fact of the line.
- Replace pronouns with the names they refer to. The speaker is named before the colon.
- If the line starts with a bracketed timestamp, turn relative times ("tomorrow", "last week") into absolute dates.
- keywords: at most %d short lowercase search terms, most important first.
- persons: names of people speaking or mentioned.
- entities: organisations, products, places, works and other named things.
- location and topic are short phrases, or null when the line gives none.
- Do not invent facts that are not in the line.

Example:
Input: "[2025-03-04T10:00:00Z] Alice: I'm meeting Bob at the Louvre tomorrow to talk about the robotics grant."
Output:
{
  "lossless_restatement": "Alice is meeting Bob at the Louvre on 2025-03-05 to talk about the robotics grant.",
  "keywords": ["meeting", "louvre", "robotics grant"],
  "persons": ["Alice", "Bob"],
  "entities": ["Louvre"],
  "location": "Louvre",
  "topic": "robotics grant meeting"
}`

const answerPromptTemplate = `Answer the question using only the memories below. Each memory is a fact that was
recorded earlier. If the memories do not contain the answer, say that you do not know. Keep the answer short and
mention the relevant details from the memories.

Memories:
%s
Question: %s
Answer:`

// buildExtractionPrompt creates the system prompt for memory extraction.
func buildExtractionPrompt(maxKeywords int) string {
	return fmt.Sprintf(extractionPromptTemplate, extractionResponseSchema, maxKeywords)
}
