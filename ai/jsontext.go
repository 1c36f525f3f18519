// Copyright 2025 Casaseek Labs
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

import "strings"

// StripFences removes a surrounding markdown code fence from a model
// response, if present.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// RepairJSON attempts to fix common JSON formatting issues in model
// responses. It specifically handles missing opening quotes before keys,
// e.g. `, type":` becomes `, "type":`.
func RepairJSON(s string) string {
	result := []rune(s)
	fixed := make([]rune, 0, len(result)+100)

	i := 0
	for i < len(result) {
		ch := result[i]

		// After { or , look for unquoted keys
		if ch == '{' || ch == ',' {
			fixed = append(fixed, ch)
			i++

			for i < len(result) && (result[i] == ' ' || result[i] == '\n' || result[i] == '\t') {
				fixed = append(fixed, result[i])
				i++
			}

			if i < len(result) && result[i] != '"' && isASCIILetter(result[i]) {
				keyStart := i
				for i < len(result) && (isASCIILetter(result[i]) || result[i] == '_' || result[i] == ' ') {
					i++
				}
				keyEnd := i

				// A bare word followed by ": is a key missing its opening quote.
				if i+1 < len(result) && result[i] == '"' && result[i+1] == ':' {
					fixed = append(fixed, '"')
					for j := keyStart; j < keyEnd; j++ {
						if result[j] != ' ' || (j > keyStart && j < keyEnd-1) {
							fixed = append(fixed, result[j])
						}
					}
					continue
				}
				for j := keyStart; j < i; j++ {
					fixed = append(fixed, result[j])
				}
			}
		} else {
			fixed = append(fixed, ch)
			i++
		}
	}

	return string(fixed)
}

// ExtractJSONArray returns the first balanced top-level JSON array in s, or
// an empty string when none exists. Models wrap arrays in prose often enough
// that callers should not unmarshal the raw response directly.
func ExtractJSONArray(s string) string {
	s = StripFences(s)
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '[':
			depth++
		case ch == ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
