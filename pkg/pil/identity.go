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
package pil

import (
	"fmt"
	"slices"
)

// SkippableIf is the reserved identity attribute marking a relation's skip
// guard: an identity whose value indicates whether the remaining checks of
// its relation can be skipped for a given row.
const SkippableIf = "skippable_if"

// IdentityKind distinguishes the different kinds of constraint an analyzed
// PIL file can contain.  The relation backend compiles polynomial identities
// only; the remaining kinds are handled by other pipelines.
type IdentityKind uint8

const (
	// Polynomial is an algebraic identity whose expression must equal zero
	// on every row.
	Polynomial IdentityKind = iota
	// Lookup requires the values of one expression tuple to appear within
	// another.
	Lookup
	// Permutation requires two expression tuples to be permutations of each
	// other.
	Permutation
	// Connect identifies copy constraints between columns.
	Connect
)

func (k IdentityKind) String() string {
	switch k {
	case Polynomial:
		return "polynomial"
	case Lookup:
		return "lookup"
	case Permutation:
		return "permutation"
	case Connect:
		return "connect"
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// SourceRef locates the constraint definition an identity originated from.
// The file name determines which relation group the identity belongs to; an
// identity with no source information lands in the unnamed group.
type SourceRef struct {
	File string
	Line uint
}

// Identity is a single constraint of the system.  For polynomial identities
// the expression is the left-hand side of an equation whose right-hand side
// is implicitly zero.
type Identity struct {
	// Id is a globally unique, stable ordering key assigned by the
	// analyzer.
	Id uint64
	// Kind of this constraint.
	Kind IdentityKind
	// Attribute optionally labels the identity.  The empty string means no
	// attribute; SkippableIf is reserved.
	Attribute string
	// Source locates the defining constraint file.
	Source SourceRef
	// Expr is the constrained expression.
	Expr Expr
}

// Symbol is an intermediate polynomial definition: a name bound to one or
// more defining expressions in source order.  Only the first definition is
// honoured downstream; further definitions are reported but ignored.
type Symbol struct {
	Name  string
	Exprs []Expr
}

// ConstraintSet is the analyzed form of a PIL source set, as produced by the
// upstream analyzer and consumed by the relation backend.
type ConstraintSet struct {
	// Identities of the system, in analyzer order.
	Identities []Identity
	// Intermediates holds the intermediate polynomial definitions in stable
	// source order.
	Intermediates []Symbol
}

// IdentitiesSortedById returns the identities ordered by ascending id.  The
// receiver is left untouched.
func (p *ConstraintSet) IdentitiesSortedById() []Identity {
	identities := slices.Clone(p.Identities)
	//
	slices.SortFunc(identities, func(l, r Identity) int {
		switch {
		case l.Id < r.Id:
			return -1
		case l.Id > r.Id:
			return 1
		}
		//
		return 0
	})
	//
	return identities
}

// IntermediatesInSourceOrder returns the intermediate polynomial definitions
// in their stable source order.
func (p *ConstraintSet) IntermediatesInSourceOrder() []Symbol {
	return p.Intermediates
}
