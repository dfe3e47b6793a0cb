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
package bberg

import (
	"fmt"
	"strings"
)

// PlaceholderKind distinguishes what a pattern placeholder stands for.
type PlaceholderKind uint8

const (
	// PlaceholderColumn marks a placeholder naming a trace column, rendered
	// through a column accessor on instantiation.
	PlaceholderColumn PlaceholderKind = iota
	// PlaceholderAlias marks a placeholder naming an intermediate
	// polynomial, rendered as the alias's own generated identifier.
	PlaceholderAlias
)

// Placeholder describes one `{name}` token of a pattern.
type Placeholder struct {
	// Name is the sanitized identifier appearing between the braces.
	Name string
	// Kind determines how the token is rendered on instantiation.
	Kind PlaceholderKind
}

// PolynomialExpression is the flattened form of an algebraic expression: a
// textual pattern containing `{name}` placeholder tokens, together with its
// placeholders in order of first appearance.  Every token in the pattern has
// exactly one placeholder entry and vice versa.  Keeping the placeholders as
// an ordered list (rather than a map) makes everything derived from them,
// alias resolution included, reproducible across runs.
type PolynomialExpression struct {
	Pattern      string
	Placeholders []Placeholder
}

// Aliases returns the names of the alias placeholders, in placeholder order.
func (p PolynomialExpression) Aliases() []string {
	var names []string
	//
	for _, placeholder := range p.Placeholders {
		if placeholder.Kind == PlaceholderAlias {
			names = append(names, placeholder.Name)
		}
	}
	//
	return names
}

// InstantiateWithView renders the pattern with every column read through the
// accumulator's view type, as required when the expression is evaluated
// inside a batched subrelation check.
func (p PolynomialExpression) InstantiateWithView() string {
	return p.InstantiateWith(func(placeholder Placeholder) string {
		if placeholder.Kind == PlaceholderColumn {
			return fmt.Sprintf("static_cast<View>(in.get(C::%s))", placeholder.Name)
		}
		//
		return placeholder.Name
	})
}

// Instantiate renders the pattern with every column read through the plain
// row accessor, as used for alias definitions and skip-guard evaluation.
func (p PolynomialExpression) Instantiate() string {
	return p.InstantiateWith(func(placeholder Placeholder) string {
		if placeholder.Kind == PlaceholderColumn {
			return fmt.Sprintf("in.get(C::%s)", placeholder.Name)
		}
		//
		return placeholder.Name
	})
}

// InstantiateWith renders the pattern using a caller-supplied accessor
// strategy, substituting every placeholder token with the strategy's
// rendering of that placeholder.
func (p PolynomialExpression) InstantiateWith(accessor func(Placeholder) string) string {
	pattern := p.Pattern
	//
	for _, placeholder := range p.Placeholders {
		token := "{" + placeholder.Name + "}"
		pattern = strings.ReplaceAll(pattern, token, accessor(placeholder))
	}
	//
	return pattern
}

// Append those placeholders of right not already present on the left,
// preserving first-appearance order.
func mergePlaceholders(left, right []Placeholder) []Placeholder {
	for _, placeholder := range right {
		if !containsPlaceholder(left, placeholder.Name) {
			left = append(left, placeholder)
		}
	}
	//
	return left
}

func containsPlaceholder(placeholders []Placeholder, name string) bool {
	for _, placeholder := range placeholders {
		if placeholder.Name == name {
			return true
		}
	}
	//
	return false
}
