// Copyright 2025 Inkline Labs
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

package fingerprint

import (
	"strings"
	"unicode"
)

// stopWords are dropped during normalization so trivial rewording does not
// change the semantic hash
var stopWords = map[string]struct{}{
	"a":     {},
	"an":    {},
	"and":   {},
	"are":   {},
	"as":    {},
	"at":    {},
	"be":    {},
	"but":   {},
	"by":    {},
	"for":   {},
	"from":  {},
	"had":   {},
	"has":   {},
	"have":  {},
	"in":    {},
	"is":    {},
	"it":    {},
	"its":   {},
	"of":    {},
	"on":    {},
	"or":    {},
	"that":  {},
	"the":   {},
	"their": {},
	"this":  {},
	"to":    {},
	"was":   {},
	"were":  {},
	"will":  {},
	"with":  {},
}

// Normalize lowercases content, strips punctuation, removes stop words,
// and collapses whitespace. The result is the input to the semantic hash
// and to similarity scoring.
func Normalize(content string) string {
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range strings.ToLower(content) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	words := strings.Fields(sb.String())
	kept := words[:0]
	for _, word := range words {
		if _, ok := stopWords[word]; ok {
			continue
		}
		kept = append(kept, word)
	}
	return strings.Join(kept, " ")
}
