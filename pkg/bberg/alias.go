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
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-pilcom/pkg/pil"
	"github.com/consensys/go-pilcom/pkg/util"
	"github.com/consensys/go-pilcom/pkg/util/collection/set"
)

// AliasDef is one entry of the alias table: an intermediate polynomial's
// sanitized name bound to its flattened definition.
type AliasDef struct {
	Name string
	Expr PolynomialExpression
}

// BuildAliasTable flattens every intermediate polynomial definition, in
// stable source order, and returns the table together with the full set of
// sanitized alias names.  The name set is collected up front so that aliases
// referencing other aliases (or themselves) classify as aliases during
// flattening.  Only the first definition of each name is honoured; any
// further definition is reported and skipped.
func BuildAliasTable(cs *pil.ConstraintSet) ([]AliasDef, *set.SortedSet[string], error) {
	var (
		intermediates = cs.IntermediatesInSourceOrder()
		aliasNames    = set.NewSortedSet[string]()
		table         = make([]AliasDef, 0, len(intermediates))
	)
	//
	for _, symbol := range intermediates {
		aliasNames.Insert(util.SanitizeName(symbol.Name))
	}
	//
	for _, symbol := range intermediates {
		name := util.SanitizeName(symbol.Name)
		//
		if containsAlias(table, name) {
			log.Warnf("intermediate %q defined more than once, keeping the first definition", symbol.Name)
			continue
		}
		//
		if len(symbol.Exprs) == 0 {
			return nil, nil, &MissingAliasError{name}
		}
		//
		if n := len(symbol.Exprs); n > 1 {
			log.Warnf("intermediate %q has %d defining expressions, keeping the first", symbol.Name, n)
		}
		//
		expr, err := ComputeExpression(symbol.Exprs[0], aliasNames)
		if err != nil {
			return nil, nil, fmt.Errorf("alias %q: %w", name, err)
		}
		//
		table = append(table, AliasDef{name, expr})
	}
	//
	return table, aliasNames, nil
}

// TransitiveAliases computes the set of aliases a group of compiled
// identities depends upon: every alias their expressions mention directly,
// closed over the aliases mentioned by those aliases' own definitions.  A
// mentioned alias missing from the table is an error.
func TransitiveAliases(identities []Identity, table []AliasDef) (*set.SortedSet[string], error) {
	var (
		defs = indexAliases(table)
		//
		closure = set.UnionSortedSets(identities, func(identity Identity) *set.SortedSet[string] {
			return set.NewSortedSet(identity.Expression.Aliases()...)
		})
		//
		worklist = slices.Clone(closure.Elements())
	)
	//
	for len(worklist) > 0 {
		name := worklist[0]
		worklist = worklist[1:]
		//
		def, ok := defs[name]
		if !ok {
			return nil, &MissingAliasError{name}
		}
		//
		for _, referenced := range def.Aliases() {
			if closure.Insert(referenced) {
				worklist = append(worklist, referenced)
			}
		}
	}
	//
	return closure, nil
}

// UsedDefs filters the alias table down to the given names, preserving the
// table's definition order rather than the set's.
func UsedDefs(table []AliasDef, used *set.SortedSet[string]) []AliasDef {
	var defs []AliasDef
	//
	for _, def := range table {
		if used.Contains(def.Name) {
			defs = append(defs, def)
		}
	}
	//
	return defs
}

func indexAliases(table []AliasDef) map[string]PolynomialExpression {
	defs := make(map[string]PolynomialExpression, len(table))
	//
	for _, def := range table {
		defs[def.Name] = def.Expr
	}
	//
	return defs
}

func containsAlias(table []AliasDef, name string) bool {
	for _, def := range table {
		if def.Name == name {
			return true
		}
	}
	//
	return false
}
