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
package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consensys/go-pilcom/pkg/bberg"
	"github.com/consensys/go-pilcom/pkg/pil"
	"github.com/consensys/go-pilcom/pkg/util"
)

var generateCmd = &cobra.Command{
	Use:   "generate [flags] constraint_file",
	Short: "generate C++ relation sources from a constraint set.",
	Long: `Generate the C++ relation sources consumed by a Barretenberg-style proving
system from an analyzed PIL constraint set in JSON form.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		name := GetString(cmd, "name")
		output := GetString(cmd, "out")
		optimized := GetStringArray(cmd, "optimized")
		//
		stats := util.NewPerfStats()
		// Parse constraint set
		constraints, err := pil.ReadConstraintSet(args[0])
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		//
		stats.Log("Reading constraints file")
		stats = util.NewPerfStats()
		// Compile every relation group
		relations, err := bberg.CompileRelations(name, constraints, optimized)
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		//
		stats.Log("Compiling relations")
		// Report columns used in shifted form, as needed downstream for
		// flavor generation.
		shifted, err := bberg.ShiftedColumns(constraints)
		if err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		//
		log.Debugf("%d columns used in shifted form: %s", shifted.Len(),
			strings.Join(shifted.Elements(), ", "))
		// Write out the generated sources
		writer := bberg.Writer{OutputDir: output}
		if err := writer.WriteRelations(relations); err != nil {
			fmt.Println(err.Error())
			os.Exit(1)
		}
		//
		log.Debugf("generated %d relations under %s", len(relations.Relations), output)
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringP("name", "n", "", "specify the namespace of the target proving system.")
	generateCmd.Flags().StringP("out", "o", "generated", "specify the output directory.")
	generateCmd.Flags().StringArray("optimized", nil, "name a hand-optimized relation to skip (may be repeated).")
	generateCmd.MarkFlagRequired("name")
}
