// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package util

import (
	"strings"
)

// SanitizeName turns an arbitrary source identifier into one which is safe to
// embed in generated code, by mapping every character outside [A-Za-z0-9_] to
// an underscore.  Thus, a qualified column name such as "alu.op_add" becomes
// "alu_op_add", whilst "mem[0]" becomes "mem_0_".  The mapping is
// deterministic and collision free for the identifier domain produced by the
// constraint language (letters, digits, dots and subscripts).
func SanitizeName(name string) string {
	var builder strings.Builder
	//
	for _, r := range name {
		if isIdentifierRune(r) {
			builder.WriteRune(r)
		} else {
			builder.WriteRune('_')
		}
	}
	//
	return builder.String()
}

// SnakeCase converts a name written in any of the usual casings (camel,
// pascal, kebab or already snake) into lower snake case, splitting words on
// explicit separators and on lower-to-upper case changes.
func SnakeCase(name string) string {
	words := splitWords(name)
	//
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	//
	return strings.Join(words, "_")
}

func isIdentifierRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	//
	return false
}

func splitWords(name string) []string {
	var words []string
	//
	for _, w1 := range strings.Split(name, "_") {
		for _, w2 := range strings.Split(w1, "-") {
			words = append(words, splitCaseChange(w2)...)
		}
	}
	//
	return words
}

func splitCaseChange(word string) []string {
	var (
		runes = []rune(word)
		words []string
		last  bool = true
		start int
	)
	//
	for i, r := range runes {
		ith := r >= 'A' && r <= 'Z'
		if !last && ith {
			// case change
			words = append(words, string(runes[start:i]))
			start = i
		}

		last = ith
	}
	// Append whatever is left
	words = append(words, string(runes[start:]))
	//
	return words
}
