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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-pilcom/pkg/pil"
)

// A two-group constraint set covering the interesting paths: an intermediate
// polynomial, a labelled identity, a skip guard, a non-polynomial identity
// and a shifted column.  Identities arrive deliberately out of order.
func testConstraintSet() *pil.ConstraintSet {
	ranged := polyIdentity(2, "alu.pil", mul(col("alu_cnt"), sub(col("alu_cnt"), num(1))))
	ranged.Attribute = "ALU_RANGE"
	//
	guard := polyIdentity(3, "alu.pil", col("alu_sel"))
	guard.Attribute = pil.SkippableIf
	//
	lookup := polyIdentity(4, "alu.pil", col("alu_op"))
	lookup.Kind = pil.Lookup
	//
	return &pil.ConstraintSet{
		Identities: []pil.Identity{
			polyIdentity(5, "mem.pil", mul(col("mem_sel"), sub(colNext("mem_addr"), col("mem_addr")))),
			polyIdentity(1, "alu.pil", mul(col("alu_sel"), col("alu_prod"))),
			ranged,
			guard,
			lookup,
		},
		Intermediates: []pil.Symbol{
			{Name: "alu_prod", Exprs: []pil.Expr{mul(col("alu_x"), col("alu_y"))}},
		},
	}
}

func TestCompileRelations(t *testing.T) {
	relations, err := CompileRelations("vm", testConstraintSet(), nil)
	require.NoError(t, err)
	//
	assert.Equal(t, []string{"alu", "mem"}, relations.Names)
	require.Len(t, relations.Relations, 2)
	//
	alu := relations.Relations[0]
	assert.Equal(t, "alu", alu.Name)
	// Lengths follow identifier order.  The product identity inlines to
	// degree three, the range check has degree two, and the guard
	// contributes no subrelation.
	assert.Contains(t, alu.Artifacts.Declaration, "std::array<size_t, 2> SUBRELATION_PARTIAL_LENGTHS = { 4, 3 };")
	assert.Contains(t, alu.Artifacts.Declaration, "class aluImpl")
	// The intermediate surfaces as an alias, not as an expanded expression.
	assert.Contains(t, alu.Artifacts.Implementation, "const auto alu_prod = in.get(C::alu_x) * in.get(C::alu_y);")
	assert.Contains(t, alu.Artifacts.Implementation, "static_cast<View>(in.get(C::alu_sel)) * alu_prod")
	// The labelled identity is addressable by subrelation index.
	assert.Contains(t, alu.Artifacts.Implementation, "case 1:")
	assert.Contains(t, alu.Artifacts.Implementation, `return "ALU_RANGE";`)
	// The guard compiles to a skip check.
	assert.Contains(t, alu.Artifacts.Implementation, "return (in.get(C::alu_sel)).is_zero();")
	//
	mem := relations.Relations[1]
	assert.Equal(t, "mem", mem.Name)
	assert.Contains(t, mem.Artifacts.Declaration, "std::array<size_t, 1> SUBRELATION_PARTIAL_LENGTHS = { 3 };")
	assert.NotContains(t, mem.Artifacts.Declaration, "skip(")
	assert.Contains(t, mem.Artifacts.Implementation,
		"static_cast<View>(in.get(C::mem_sel)) * (static_cast<View>(in.get(C::mem_addr_shift)) - static_cast<View>(in.get(C::mem_addr)))")
	//
	assert.Contains(t, relations.Manifest, `#include "barretenberg/vm/generated/relations/alu_impl.hpp"`)
	assert.Contains(t, relations.Manifest, `#include "barretenberg/vm/generated/relations/mem_impl.hpp"`)
}

func TestCompileRelationsHandOptimized(t *testing.T) {
	relations, err := CompileRelations("vm", testConstraintSet(), []string{"alu"})
	require.NoError(t, err)
	// Every group is still reported, but only mem is compiled.
	assert.Equal(t, []string{"alu", "mem"}, relations.Names)
	require.Len(t, relations.Relations, 1)
	assert.Equal(t, "mem", relations.Relations[0].Name)
	// The manifest pulls the hand-optimized implementation from its own,
	// non-generated directory.
	assert.Contains(t, relations.Manifest, `#include "barretenberg/vm/relations/alu_impl.hpp"`)
	assert.Contains(t, relations.Manifest, "Hand-optimized")
	assert.NotContains(t, relations.Manifest, "generated/relations/alu_impl.hpp")
}

func TestCompileRelationsDeterministic(t *testing.T) {
	first, err := CompileRelations("vm", testConstraintSet(), nil)
	require.NoError(t, err)
	//
	second, err := CompileRelations("vm", testConstraintSet(), nil)
	require.NoError(t, err)
	//
	assert.Equal(t, first, second)
}

func TestCompileRelationsGuardAliases(t *testing.T) {
	guard := polyIdentity(2, "alu.pil", col("acc"))
	guard.Attribute = pil.SkippableIf
	//
	cs := &pil.ConstraintSet{
		Identities: []pil.Identity{
			polyIdentity(1, "alu.pil", mul(col("sel"), col("cnt"))),
			guard,
		},
		Intermediates: []pil.Symbol{
			{Name: "acc", Exprs: []pil.Expr{add(col("a"), col("b"))}},
		},
	}
	//
	relations, err := CompileRelations("vm", cs, nil)
	require.NoError(t, err)
	//
	// The alias feeds the guard only, so its definition appears exactly
	// once, inside the skip check.
	impl := relations.Relations[0].Artifacts.Implementation
	assert.Equal(t, 1, strings.Count(impl, "const auto acc = in.get(C::a) + in.get(C::b);"))
	assert.Contains(t, impl, "return (acc).is_zero();")
}

func TestCompileRelationsAliasDifference(t *testing.T) {
	cs := &pil.ConstraintSet{
		Identities: []pil.Identity{
			polyIdentity(1, "cmp.pil", mul(col("sel"), sub(col("a"), col("b")))),
		},
		Intermediates: []pil.Symbol{
			{Name: "a", Exprs: []pil.Expr{col("x")}},
			{Name: "b", Exprs: []pil.Expr{col("y")}},
		},
	}
	//
	relations, err := CompileRelations("vm", cs, nil)
	require.NoError(t, err)
	//
	rel := relations.Relations[0]
	// Both intermediates stay symbolic in the emitted expression, whilst
	// the degree is computed through their definitions.
	assert.Contains(t, rel.Artifacts.Declaration, "SUBRELATION_PARTIAL_LENGTHS = { 3 };")
	impl := rel.Artifacts.Implementation
	assert.Contains(t, impl, "const auto a = in.get(C::x);")
	assert.Contains(t, impl, "const auto b = in.get(C::y);")
	assert.Contains(t, impl, "static_cast<View>(in.get(C::sel)) * (a - b)")
}

func TestCompileRelationsEmptyGroupName(t *testing.T) {
	cs := &pil.ConstraintSet{Identities: []pil.Identity{
		polyIdentity(1, "", mul(col("sel"), col("cnt"))),
	}}
	// An identity without source metadata lands in the unnamed group, which
	// still compiles.
	relations, err := CompileRelations("vm", cs, nil)
	require.NoError(t, err)
	//
	assert.Equal(t, []string{""}, relations.Names)
	require.Len(t, relations.Relations, 1)
	assert.Equal(t, "", relations.Relations[0].Name)
}

func TestCompileRelationsAggregatesFailures(t *testing.T) {
	cs := &pil.ConstraintSet{Identities: []pil.Identity{
		polyIdentity(1, "alu.pil", &pil.PublicReference{Name: "in"}),
		polyIdentity(2, "mem.pil", &pil.Challenge{Index: 0}),
	}}
	//
	_, err := CompileRelations("vm", cs, nil)
	require.Error(t, err)
	// Failures of independent groups are reported together.
	assert.ErrorContains(t, err, `relation "alu": identity 1`)
	assert.ErrorContains(t, err, `relation "mem": identity 2`)
}

func TestCompileRelationsDegreeError(t *testing.T) {
	cs := &pil.ConstraintSet{Identities: []pil.Identity{
		polyIdentity(7, "alu.pil", pow(col("alu_a"), num(2))),
	}}
	//
	_, err := CompileRelations("vm", cs, nil)
	//
	var unsupported *UnsupportedOperatorError
	require.ErrorAs(t, err, &unsupported)
	assert.ErrorContains(t, err, "identity 7")
}

func TestCompileRelationsInlineError(t *testing.T) {
	cs := &pil.ConstraintSet{
		Identities: []pil.Identity{
			polyIdentity(1, "alu.pil", mul(col("alu_sel"), colNext("alu_prod"))),
		},
		Intermediates: []pil.Symbol{
			{Name: "alu_prod", Exprs: []pil.Expr{colNext("alu_x")}},
		},
	}
	//
	_, err := CompileRelations("vm", cs, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "doubly shifted")
}

func TestCompileRelationsCyclicIntermediate(t *testing.T) {
	cs := &pil.ConstraintSet{
		Identities: []pil.Identity{
			polyIdentity(1, "alu.pil", col("acc")),
		},
		Intermediates: []pil.Symbol{
			{Name: "acc", Exprs: []pil.Expr{mul(col("sel"), col("acc"))}},
		},
	}
	//
	_, err := CompileRelations("vm", cs, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "cyclic definition")
}

func TestShiftedColumns(t *testing.T) {
	columns, err := ShiftedColumns(testConstraintSet())
	require.NoError(t, err)
	//
	assert.Equal(t, []string{"mem_addr"}, columns.Elements())
}

func TestShiftedColumnsThroughIntermediates(t *testing.T) {
	cs := &pil.ConstraintSet{
		Identities: []pil.Identity{
			polyIdentity(1, "alu.pil", mul(col("sel"), colNext("prod"))),
		},
		Intermediates: []pil.Symbol{
			{Name: "prod", Exprs: []pil.Expr{mul(col("x"), col("y"))}},
		},
	}
	//
	columns, err := ShiftedColumns(cs)
	require.NoError(t, err)
	// Shifting an intermediate shifts every column of its expansion.
	assert.Equal(t, []string{"x", "y"}, columns.Elements())
}
