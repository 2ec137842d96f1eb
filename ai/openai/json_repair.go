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

import "strings"

// repairJSON patches the two mistakes small chat models make most often in
// JSON mode: a key missing its opening quote (`, keywords": [...]`) and a
// trailing comma before a closing bracket. Text inside string literals is
// left untouched.
func repairJSON(s string) string {
	return dropTrailingCommas(quoteBareKeys(s))
}

func quoteBareKeys(s string) string {
	src := []rune(s)
	var out strings.Builder
	out.Grow(len(s) + 16)

	inString := false
	for i := 0; i < len(src); i++ {
		ch := src[i]
		out.WriteRune(ch)

		if inString {
			if ch == '\\' && i+1 < len(src) {
				i++
				out.WriteRune(src[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			continue
		}
		if ch != '{' && ch != ',' {
			continue
		}

		j := i + 1
		for j < len(src) && isSpace(src[j]) {
			j++
		}
		k := j
		for k < len(src) && (isLetter(src[k]) || src[k] == '_') {
			k++
		}
		// A run of key characters closed by `":` is a key that lost its
		// opening quote.
		if k > j && k+1 < len(src) && src[k] == '"' && src[k+1] == ':' {
			out.WriteString(string(src[i+1 : j]))
			out.WriteByte('"')
			out.WriteString(string(src[j : k+1]))
			i = k
		}
	}
	return out.String()
}

func dropTrailingCommas(s string) string {
	src := []rune(s)
	var out strings.Builder
	out.Grow(len(s))

	inString := false
	for i := 0; i < len(src); i++ {
		ch := src[i]
		if inString {
			out.WriteRune(ch)
			if ch == '\\' && i+1 < len(src) {
				i++
				out.WriteRune(src[i])
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		if ch == '"' {
			inString = true
			out.WriteRune(ch)
			continue
		}
		if ch == ',' {
			j := i + 1
			for j < len(src) && isSpace(src[j]) {
				j++
			}
			if j < len(src) && (src[j] == '}' || src[j] == ']') {
				continue
			}
		}
		out.WriteRune(ch)
	}
	return out.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t' || r == '\r'
}
