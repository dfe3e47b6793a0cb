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
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A fixed relation record exercising aliases, labels and a skip guard.
func testRelation() Relation {
	return Relation{
		RootName: "vm",
		Name:     "alu",
		Identities: []RelationIdentity{
			{"static_cast<View>(in.get(C::alu_sel)) * (alu_diff - static_cast<View>(in.get(C::alu_res)))", ""},
			{"static_cast<View>(in.get(C::alu_cnt)) * (static_cast<View>(in.get(C::alu_cnt)) - 1)", "ALU_CNT_BINARY"},
		},
		SubrelationLengths: []uint{3, 3},
		Labels:             []SubrelationLabel{{1, "ALU_CNT_BINARY"}},
		SkippableIf:        "in.get(C::alu_sel)",
		AliasDefs:          []RenderedAlias{{"alu_diff", "(in.get(C::alu_a) - in.get(C::alu_b))"}},
	}
}

func TestEmitArtifacts(t *testing.T) {
	artifacts, err := Emit(testRelation())
	require.NoError(t, err)
	//
	g := golden(t)
	g.Assert(t, "alu_declaration", []byte(artifacts.Declaration))
	g.Assert(t, "alu_implementation", []byte(artifacts.Implementation))
	g.Assert(t, "alu_instantiation", []byte(artifacts.Instantiation))
}

func TestEmitManifest(t *testing.T) {
	// Inputs arrive unsorted; the manifest must not care.
	manifest, err := EmitManifest("vm", []string{"mem", "alu"}, []string{"toy"})
	require.NoError(t, err)
	//
	golden(t).Assert(t, "manifest", []byte(manifest))
}

func TestEmitManifestWithoutHandOptimized(t *testing.T) {
	manifest, err := EmitManifest("vm", []string{"alu"}, nil)
	require.NoError(t, err)
	//
	assert.Contains(t, manifest, `#include "barretenberg/vm/generated/relations/alu_impl.hpp"`)
	assert.NotContains(t, manifest, "Hand-optimized")
}

func TestEmitWithoutGuard(t *testing.T) {
	relation := testRelation()
	relation.SkippableIf = ""
	relation.SkippableAliasDefs = nil
	//
	artifacts, err := Emit(relation)
	require.NoError(t, err)
	//
	assert.NotContains(t, artifacts.Declaration, "skip(")
	assert.NotContains(t, artifacts.Implementation, "skip(")
	assert.Contains(t, artifacts.Declaration, "get_subrelation_label")
}

func TestEmitCamelCaseNames(t *testing.T) {
	relation := testRelation()
	relation.Name = "binaryOps"
	// Type names keep the relation name as-is; filenames snake-case it.
	artifacts, err := Emit(relation)
	require.NoError(t, err)
	//
	assert.Contains(t, artifacts.Declaration, "class binaryOpsImpl")
	assert.Contains(t, artifacts.Implementation, `relations/binary_ops.hpp"`)
	assert.Contains(t, artifacts.Instantiation, `relations/binary_ops_impl.hpp"`)
}

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	//
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
