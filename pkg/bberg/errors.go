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

	"github.com/consensys/go-pilcom/pkg/pil"
)

// UnsupportedOperatorError indicates an operator the relation backend cannot
// compile, such as exponentiation.
type UnsupportedOperatorError struct {
	// Op is the rendering of the offending operator.
	Op string
}

func (p *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator %q", p.Op)
}

// UnsupportedExpressionError indicates an expression node the relation
// backend cannot evaluate, such as a public input or verifier challenge.
type UnsupportedExpressionError struct {
	// Kind describes the offending node.
	Kind string
}

func (p *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported expression kind %s", p.Kind)
}

// DuplicateGuardError indicates that a relation group contains more than one
// identity labelled as its skip guard, making the guard ambiguous.
type DuplicateGuardError struct {
	// Group is the name of the offending relation group.
	Group string
	// FirstId and SecondId are the two identities claiming the guard.
	FirstId  uint64
	SecondId uint64
}

func (p *DuplicateGuardError) Error() string {
	return fmt.Sprintf("relation %q: identities %d and %d are both labelled %q",
		p.Group, p.FirstId, p.SecondId, pil.SkippableIf)
}

// MissingAliasError indicates that an expression references an intermediate
// polynomial for which the alias table holds no definition.
type MissingAliasError struct {
	// Name of the missing alias.
	Name string
}

func (p *MissingAliasError) Error() string {
	return fmt.Sprintf("no definition for alias %q", p.Name)
}

// Describe an expression node for diagnostics.
func exprKind(expr pil.Expr) string {
	switch expr.(type) {
	case *pil.Constant:
		return "constant"
	case *pil.Reference:
		return "reference"
	case *pil.Binary:
		return "binary operation"
	case *pil.Unary:
		return "unary operation"
	case *pil.PublicReference:
		return "public reference"
	case *pil.Challenge:
		return "challenge"
	}
	//
	return fmt.Sprintf("%T", expr)
}
