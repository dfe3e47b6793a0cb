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
	"path/filepath"
	"strings"

	"github.com/consensys/go-pilcom/pkg/pil"
	"github.com/consensys/go-pilcom/pkg/util/collection/set"
)

// Identity is a single compiled polynomial constraint: the flattened
// expression, the identifier it carried in the constraint set, and its label
// (empty when unlabelled).
type Identity struct {
	OriginalId uint64
	Expression PolynomialExpression
	Label      string
}

// Identities holds the compiled constraints of one relation group, with the
// skippability guard (if any) split out from the accumulated identities.
type Identities struct {
	Relation  []Identity
	Skippable *Identity
}

// GroupIdentities partitions identities into relation groups keyed by the
// name derived from each identity's source file.  Within a group, input
// order is preserved.
func GroupIdentities(identities []pil.Identity) map[string][]pil.Identity {
	groups := make(map[string][]pil.Identity)
	//
	for _, identity := range identities {
		name := RelationName(identity.Source)
		groups[name] = append(groups[name], identity)
	}
	//
	return groups
}

// RelationName derives the relation group name from a source reference by
// stripping the directory and any file extensions from its filename.  An
// identity without a source file lands in the group named "".
func RelationName(source pil.SourceRef) string {
	if source.File == "" {
		return ""
	}
	//
	name := filepath.Base(source.File)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	// Drop any interior extension left behind, e.g. "alu.pil.hbs".
	name = strings.ReplaceAll(name, ".pil", "")
	//
	return name
}

// CreateIdentities compiles the polynomial identities of one relation group.
// Identities of other kinds are ignored here and handled by their own
// backends.  An identity labelled with the skippability attribute becomes the
// group's guard and is excluded from the accumulated identities; a second
// such identity is an error.
func CreateIdentities(group string, identities []pil.Identity,
	aliasNames *set.SortedSet[string]) (Identities, error) {
	//
	var compiled Identities
	//
	for _, identity := range identities {
		if identity.Kind != pil.Polynomial {
			continue
		}
		//
		expr, err := ComputeExpression(identity.Expr, aliasNames)
		if err != nil {
			return Identities{}, fmt.Errorf("relation %q: identity %d: %w", group, identity.Id, err)
		}
		//
		if identity.Attribute == pil.SkippableIf {
			if compiled.Skippable != nil {
				return Identities{}, &DuplicateGuardError{group, compiled.Skippable.OriginalId, identity.Id}
			}
			//
			compiled.Skippable = &Identity{identity.Id, expr, identity.Attribute}
			//
			continue
		}
		//
		compiled.Relation = append(compiled.Relation, Identity{identity.Id, expr, identity.Attribute})
	}
	//
	return compiled, nil
}
