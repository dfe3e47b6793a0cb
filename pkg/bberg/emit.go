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
	"bytes"
	"embed"
	"fmt"
	"slices"
	"text/template"

	"github.com/consensys/go-pilcom/pkg/util"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// templates holds the parsed C++ templates.
var templates *template.Template

func init() {
	var err error
	//
	templates, err = template.New("relations").
		Funcs(template.FuncMap{"snake": util.SnakeCase}).
		ParseFS(templatesFS, "templates/*.tmpl")
	//
	if err != nil {
		panic(fmt.Sprintf("failed to parse relation templates: %v", err))
	}
}

// Artifacts are the rendered C++ sources of one relation group.
type Artifacts struct {
	// Declaration declares the relation class.
	Declaration string
	// Implementation defines accumulation, subrelation labels and
	// skippability.
	Implementation string
	// Instantiation explicitly instantiates the relation for the target
	// field.
	Instantiation string
}

// Emit renders the three C++ artifacts of a relation.
func Emit(relation Relation) (Artifacts, error) {
	declaration, err := render("relation.hpp.tmpl", relation)
	if err != nil {
		return Artifacts{}, err
	}
	//
	implementation, err := render("relation_impl.hpp.tmpl", relation)
	if err != nil {
		return Artifacts{}, err
	}
	//
	instantiation, err := render("relation.cpp.tmpl", relation)
	if err != nil {
		return Artifacts{}, err
	}
	//
	return Artifacts{declaration, implementation, instantiation}, nil
}

// manifestData feeds the manifest template.
type manifestData struct {
	RootName      string
	Generated     []string
	HandOptimized []string
}

// EmitManifest renders the aggregate header including every generated
// relation implementation, followed by the hand-optimized ones.  Both lists
// render in sorted order, so the manifest is insensitive to how callers
// ordered their inputs.
func EmitManifest(rootName string, generated, handOptimized []string) (string, error) {
	data := manifestData{
		RootName:      rootName,
		Generated:     sortedClone(generated),
		HandOptimized: sortedClone(handOptimized),
	}
	//
	return render("relations_impls.hpp.tmpl", data)
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	//
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	//
	return buf.String(), nil
}

func sortedClone(names []string) []string {
	names = slices.Clone(names)
	slices.Sort(names)
	//
	return names
}
