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

// Package bberg compiles an analyzed PIL constraint system into the C++
// relation sources consumed by a Barretenberg-style proving system: one
// declaration, implementation and instantiation unit per relation group,
// plus a manifest including them all.
package bberg

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/go-pilcom/pkg/pil"
	"github.com/consensys/go-pilcom/pkg/util"
	"github.com/consensys/go-pilcom/pkg/util/collection/set"
)

// Relation gathers everything the templates need to render one relation
// group.
type Relation struct {
	// RootName is the namespace of the target proving system.
	RootName string
	// Name identifies the relation group.
	Name string
	// Identities are the accumulated constraints, in ascending identifier
	// order.
	Identities []RelationIdentity
	// SubrelationLengths gives, for each identity, its degree plus one.
	SubrelationLengths []uint
	// Labels maps identity positions to their labels, for labelled
	// identities only.
	Labels []SubrelationLabel
	// SkippableIf is the rendered guard expression, or empty when the group
	// has none.
	SkippableIf string
	// AliasDefs are the alias definitions the identities depend upon, in
	// definition order.
	AliasDefs []RenderedAlias
	// SkippableAliasDefs are the alias definitions the guard depends upon.
	SkippableAliasDefs []RenderedAlias
}

// RelationIdentity is one accumulated constraint, rendered for the
// evaluation view.
type RelationIdentity struct {
	Expression string
	Label      string
}

// SubrelationLabel attaches a label to the identity at the given position.
type SubrelationLabel struct {
	Index uint
	Label string
}

// RenderedAlias is an alias definition rendered for direct evaluation.
type RenderedAlias struct {
	Name       string
	Expression string
}

// CompiledRelation pairs a relation group's name with its rendered
// artifacts.
type CompiledRelation struct {
	Name      string
	Artifacts Artifacts
}

// RelationSet is the complete output of compiling a constraint set: the
// rendered relations in ascending name order, the manifest including them,
// and the names of every relation group encountered (whether generated or
// hand-optimized).
type RelationSet struct {
	Relations []CompiledRelation
	Manifest  string
	Names     []string
}

// CompileRelations compiles every relation group of the given constraint set
// into C++ sources, skipping groups named in handOptimized.  Groups compile
// independently and in parallel; if any fail, the errors of all failing
// groups are reported together and no output is produced.
func CompileRelations(rootName string, cs *pil.ConstraintSet, handOptimized []string) (*RelationSet, error) {
	// Degrees are computed over the inlined identities, since an
	// intermediate contributes the degree of its definition, not that of a
	// reference.  Flattening works on the raw identities instead, so that
	// intermediates surface as aliases rather than expanded expressions.
	inlined, err := cs.IdentitiesWithInlinedIntermediates()
	if err != nil {
		return nil, err
	}
	//
	slices.SortFunc(inlined, func(l, r pil.Identity) int { return cmp.Compare(l.Id, r.Id) })
	//
	log.Debugf("computing degrees of %d identities", len(inlined))
	//
	degrees, err := identityDegrees(inlined)
	if err != nil {
		return nil, err
	}
	//
	table, aliasNames, err := BuildAliasTable(cs)
	if err != nil {
		return nil, err
	}
	//
	var (
		groups = GroupIdentities(cs.IdentitiesSortedById())
		names  = slices.Sorted(maps.Keys(groups))
		//
		excluded  = slices.Clone(handOptimized)
		generated []string
	)
	//
	slices.Sort(excluded)
	excluded = slices.Compact(excluded)
	//
	for _, name := range names {
		if !slices.Contains(excluded, name) {
			generated = append(generated, name)
		}
	}
	//
	log.Debugf("compiling %d of %d relation groups", len(generated), len(names))
	//
	var (
		g        errgroup.Group
		compiled = make([]*CompiledRelation, len(generated))
		failures = make([]error, len(generated))
	)
	//
	for i, name := range generated {
		g.Go(func() error {
			relation, err := compileGroup(rootName, name, groups[name], aliasNames, table, degrees)
			if err != nil {
				failures[i] = err
				return err
			}
			//
			compiled[i] = relation
			//
			return nil
		})
	}
	//
	if g.Wait() != nil {
		return nil, errors.Join(failures...)
	}
	//
	manifest, err := EmitManifest(rootName, generated, excluded)
	if err != nil {
		return nil, err
	}
	//
	relations := make([]CompiledRelation, len(compiled))
	for i, relation := range compiled {
		relations[i] = *relation
	}
	//
	return &RelationSet{relations, manifest, names}, nil
}

// ShiftedColumns returns the sanitized names of every column referenced in
// shifted form anywhere in the constraint set, after inlining of
// intermediates.  Downstream flavor generation needs this set to declare
// the shifted polynomial views.
func ShiftedColumns(cs *pil.ConstraintSet) (*set.SortedSet[string], error) {
	inlined, err := cs.IdentitiesWithInlinedIntermediates()
	if err != nil {
		return nil, err
	}
	//
	columns := set.NewSortedSet[string]()
	//
	for _, identity := range inlined {
		collectShiftedColumns(identity.Expr, columns)
	}
	//
	return columns, nil
}

// compileGroup runs the full pipeline for one relation group: identity
// compilation, alias closure, subrelation lengths and artifact rendering.
func compileGroup(rootName, name string, identities []pil.Identity, aliasNames *set.SortedSet[string],
	table []AliasDef, degrees []identityDegree) (*CompiledRelation, error) {
	//
	log.Debugf("compiling relation %q (%d identities)", name, len(identities))
	//
	out, err := CreateIdentities(name, identities, aliasNames)
	if err != nil {
		return nil, err
	}
	//
	used, err := TransitiveAliases(out.Relation, table)
	if err != nil {
		return nil, fmt.Errorf("relation %q: %w", name, err)
	}
	//
	var skipDefs []AliasDef
	//
	if out.Skippable != nil {
		skipUsed, err := TransitiveAliases([]Identity{*out.Skippable}, table)
		if err != nil {
			return nil, fmt.Errorf("relation %q: %w", name, err)
		}
		//
		skipDefs = UsedDefs(table, skipUsed)
	}
	//
	relation := buildRelation(rootName, name, out, UsedDefs(table, used), skipDefs,
		subrelationLengths(out.Relation, degrees))
	//
	artifacts, err := Emit(relation)
	if err != nil {
		return nil, fmt.Errorf("relation %q: %w", name, err)
	}
	//
	return &CompiledRelation{name, artifacts}, nil
}

// buildRelation assembles the render record for one relation group.
func buildRelation(rootName, name string, out Identities, aliasDefs, skipDefs []AliasDef,
	lengths []uint) Relation {
	//
	var (
		identities = make([]RelationIdentity, len(out.Relation))
		labels     []SubrelationLabel
	)
	//
	for i, identity := range out.Relation {
		identities[i] = RelationIdentity{identity.Expression.InstantiateWithView(), identity.Label}
		//
		if identity.Label != "" {
			labels = append(labels, SubrelationLabel{uint(i), identity.Label})
		}
	}
	//
	relation := Relation{
		RootName:           rootName,
		Name:               name,
		Identities:         identities,
		SubrelationLengths: lengths,
		Labels:             labels,
		AliasDefs:          renderAliases(aliasDefs),
	}
	//
	if out.Skippable != nil {
		relation.SkippableIf = out.Skippable.Expression.Instantiate()
		relation.SkippableAliasDefs = renderAliases(skipDefs)
	}
	//
	return relation
}

func renderAliases(defs []AliasDef) []RenderedAlias {
	rendered := make([]RenderedAlias, len(defs))
	//
	for i, def := range defs {
		rendered[i] = RenderedAlias{def.Name, def.Expr.Instantiate()}
	}
	//
	return rendered
}

// identityDegree records the evaluation degree of one polynomial identity.
type identityDegree struct {
	id     uint64
	degree uint
}

// identityDegrees computes the degree of every polynomial identity, in input
// order.  Identities of other kinds contribute no subrelation and are
// skipped.
func identityDegrees(identities []pil.Identity) ([]identityDegree, error) {
	var degrees []identityDegree
	//
	for _, identity := range identities {
		if identity.Kind != pil.Polynomial {
			continue
		}
		//
		degree, err := DegreeOf(identity.Expr)
		if err != nil {
			return nil, fmt.Errorf("identity %d: %w", identity.Id, err)
		}
		//
		degrees = append(degrees, identityDegree{identity.Id, degree})
	}
	//
	return degrees, nil
}

// subrelationLengths selects, in identifier order, the subrelation length of
// each compiled identity.  A subrelation of degree d accumulates evaluations
// of length d+1.
func subrelationLengths(compiled []Identity, degrees []identityDegree) []uint {
	var lengths []uint
	//
	for _, degree := range degrees {
		if containsIdentity(compiled, degree.id) {
			lengths = append(lengths, degree.degree+1)
		}
	}
	//
	return lengths
}

func containsIdentity(identities []Identity, id uint64) bool {
	for _, identity := range identities {
		if identity.OriginalId == id {
			return true
		}
	}
	//
	return false
}

func collectShiftedColumns(expr pil.Expr, columns *set.SortedSet[string]) {
	switch e := expr.(type) {
	case *pil.Reference:
		if e.Next {
			columns.Insert(util.SanitizeName(e.Name))
		}
	case *pil.Binary:
		collectShiftedColumns(e.Left, columns)
		collectShiftedColumns(e.Right, columns)
	case *pil.Unary:
		collectShiftedColumns(e.Expr, columns)
	}
}
