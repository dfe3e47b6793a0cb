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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactFilenames(t *testing.T) {
	declaration, implementation, instantiation := ArtifactFilenames("binaryOps")
	//
	assert.Equal(t, "binary_ops.hpp", declaration)
	assert.Equal(t, "binary_ops_impl.hpp", implementation)
	assert.Equal(t, "binary_ops.cpp", instantiation)
}

func TestWriteRelations(t *testing.T) {
	relations, err := CompileRelations("vm", testConstraintSet(), nil)
	require.NoError(t, err)
	//
	dir := t.TempDir()
	writer := Writer{OutputDir: dir}
	require.NoError(t, writer.WriteRelations(relations))
	// Three files per relation under relations/, the manifest alongside.
	for _, filename := range []string{
		"relations/alu.hpp", "relations/alu_impl.hpp", "relations/alu.cpp",
		"relations/mem.hpp", "relations/mem_impl.hpp", "relations/mem.cpp",
	} {
		contents, err := os.ReadFile(filepath.Join(dir, filename))
		require.NoError(t, err, filename)
		assert.NotEmpty(t, contents, filename)
	}
	//
	contents, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	require.NoError(t, err)
	assert.Equal(t, relations.Manifest, string(contents))
}
