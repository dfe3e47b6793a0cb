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
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/consensys/go-pilcom/pkg/util"
)

// ManifestFilename is the name of the aggregate header listing every
// relation implementation.
const ManifestFilename = "relations_impls.hpp"

// ArtifactFilenames returns the declaration, implementation and
// instantiation filenames for a relation name.
func ArtifactFilenames(name string) (string, string, string) {
	snake := util.SnakeCase(name)
	//
	return snake + ".hpp", snake + "_impl.hpp", snake + ".cpp"
}

// Writer persists a compiled relation set: per-relation sources go under a
// relations/ subdirectory of the output directory, with the manifest
// directly alongside.
type Writer struct {
	// OutputDir is the root of the generated tree.
	OutputDir string
}

// RelationsDir returns the directory receiving per-relation sources.
func (p *Writer) RelationsDir() string {
	return filepath.Join(p.OutputDir, "relations")
}

// WriteRelations writes every artifact of the given relation set, creating
// the output directories as needed.
func (p *Writer) WriteRelations(set *RelationSet) error {
	dir := p.RelationsDir()
	//
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	//
	for _, relation := range set.Relations {
		declaration, implementation, instantiation := ArtifactFilenames(relation.Name)
		//
		if err := writeFile(filepath.Join(dir, declaration), relation.Artifacts.Declaration); err != nil {
			return err
		}
		//
		if err := writeFile(filepath.Join(dir, implementation), relation.Artifacts.Implementation); err != nil {
			return err
		}
		//
		if err := writeFile(filepath.Join(dir, instantiation), relation.Artifacts.Instantiation); err != nil {
			return err
		}
	}
	//
	return writeFile(filepath.Join(p.OutputDir, ManifestFilename), set.Manifest)
}

func writeFile(path string, contents string) error {
	log.Debugf("writing %s", path)
	//
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	//
	return nil
}
