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
)

// IdentitiesWithInlinedIntermediates returns a copy of the identities in
// which every reference to an intermediate polynomial has been replaced,
// recursively, by that intermediate's first defining expression.  Only
// column references remain afterwards, making the result suitable for
// degree analysis.  A next-row reference to an intermediate shifts every
// reference within its expansion; references which would end up shifted
// twice are rejected, as are cyclic intermediate definitions.
func (p *ConstraintSet) IdentitiesWithInlinedIntermediates() ([]Identity, error) {
	var (
		inliner    = newInliner(p.Intermediates)
		identities = make([]Identity, len(p.Identities))
	)
	//
	for i, identity := range p.Identities {
		expr, err := inliner.inline(identity.Expr, false)
		if err != nil {
			return nil, fmt.Errorf("identity %d: %w", identity.Id, err)
		}
		//
		identity.Expr = expr
		identities[i] = identity
	}
	//
	return identities, nil
}

type inliner struct {
	// First defining expression of each intermediate.
	defs map[string]Expr
	// Fully expanded (unshifted) definitions, memoised.
	done map[string]Expr
	// Names on the current expansion path, for cycle detection.
	busy map[string]bool
}

func newInliner(intermediates []Symbol) *inliner {
	defs := make(map[string]Expr, len(intermediates))
	//
	for _, symbol := range intermediates {
		if _, ok := defs[symbol.Name]; !ok && len(symbol.Exprs) > 0 {
			defs[symbol.Name] = symbol.Exprs[0]
		}
	}
	//
	return &inliner{defs, make(map[string]Expr), make(map[string]bool)}
}

// Expand intermediates within an expression, building a fresh tree.  When
// shifted is set, the surrounding context demands every reference advance by
// one row.
func (p *inliner) inline(expr Expr, shifted bool) (Expr, error) {
	switch e := expr.(type) {
	case *Reference:
		return p.inlineReference(e, shifted)
	case *Binary:
		left, err := p.inline(e.Left, shifted)
		if err != nil {
			return nil, err
		}
		//
		right, err := p.inline(e.Right, shifted)
		if err != nil {
			return nil, err
		}
		//
		return &Binary{left, e.Op, right}, nil
	case *Unary:
		arg, err := p.inline(e.Expr, shifted)
		if err != nil {
			return nil, err
		}
		//
		return &Unary{e.Op, arg}, nil
	default:
		// Constants, publics and challenges contain no references.
		return expr, nil
	}
}

func (p *inliner) inlineReference(ref *Reference, shifted bool) (Expr, error) {
	if shifted && ref.Next {
		return nil, fmt.Errorf("doubly shifted reference to %q", ref.Name)
	}
	//
	next := shifted || ref.Next
	//
	def, ok := p.defs[ref.Name]
	if !ok {
		// Plain column reference.
		if next == ref.Next {
			return ref, nil
		}
		//
		return &Reference{ref.Name, next}, nil
	}
	// Intermediate reference.
	if p.busy[ref.Name] {
		return nil, fmt.Errorf("cyclic definition of intermediate %q", ref.Name)
	}
	//
	if expr, ok := p.done[ref.Name]; ok && !next {
		return expr, nil
	}
	//
	p.busy[ref.Name] = true
	expr, err := p.inline(def, next)
	delete(p.busy, ref.Name)
	//
	if err != nil {
		return nil, fmt.Errorf("within intermediate %q: %w", ref.Name, err)
	}
	//
	if !next {
		p.done[ref.Name] = expr
	}
	//
	return expr, nil
}
