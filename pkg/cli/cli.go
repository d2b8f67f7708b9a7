// Copyright 2026 The Windrow Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

// Package cli implements the windrow command line interface: it loads a
// TSV table and a YAML file of window definitions, evaluates every
// window over the table, and prints the table extended with one result
// column per window.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/windrowdb/windrow/pkg/tree"
	"github.com/windrowdb/windrow/pkg/util/log"
	"github.com/windrowdb/windrow/pkg/windower"
)

// evalCtx holds the flag values for the eval command.
var evalCtx struct {
	dataPath    string
	windowsPath string
}

var evalCmd = &cobra.Command{
	Use:   "eval --data <table.tsv> --windows <windows.yaml>",
	Short: "evaluate window definitions over a TSV table",
	Long: `
Reads a tab-separated table whose header declares column names and types
(name:type), evaluates each window defined in the YAML file over it, and
prints the input rows extended with one column per window.

Windows are evaluated independently: a window that fails to evaluate is
reported on stderr and its column is omitted from the output.
`,
	Args: cobra.NoArgs,
	RunE: runEval,
}

func runEval(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := log.FromContext(ctx)

	f, err := os.Open(evalCtx.dataPath)
	if err != nil {
		return err
	}
	tbl, err := ReadTable(f)
	_ = f.Close()
	if err != nil {
		return errors.Wrapf(err, "reading %s", evalCtx.dataPath)
	}
	windowsData, err := os.ReadFile(evalCtx.windowsPath)
	if err != nil {
		return err
	}
	specs, err := DecodeWindowSpecs(windowsData, tbl)
	if err != nil {
		return errors.Wrapf(err, "reading %s", evalCtx.windowsPath)
	}

	results := windower.EvalAll(ctx, tbl.Rows, specs)
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			logger.Errorw("window evaluation failed",
				"window", res.Window.Name, "error", res.Err)
		}
	}

	render(cmd.OutOrStdout(), tbl, results)
	if failed > 0 {
		return errors.Newf("%d of %d windows failed", failed, len(results))
	}
	return nil
}

// render prints the table plus one column per successfully evaluated
// window, in the order the windows were defined.
func render(w io.Writer, tbl *Table, results []windower.PassResult) {
	header := make([]string, 0, len(tbl.Columns)+len(results))
	for _, col := range tbl.Columns {
		header = append(header, col.Name)
	}
	for _, res := range results {
		if res.Err == nil {
			header = append(header, res.Window.Name)
		}
	}

	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(header)
	for i, row := range tbl.Rows {
		out := make([]string, 0, len(header))
		for _, d := range row {
			out = append(out, formatDatum(d))
		}
		for _, res := range results {
			if res.Err == nil {
				out = append(out, formatDatum(res.Col[i]))
			}
		}
		tw.Append(out)
	}
	tw.Render()
}

func formatDatum(d tree.Datum) string {
	if d == tree.DNull {
		return ""
	}
	return d.String()
}

var rootCmd = &cobra.Command{
	Use:           "windrow",
	Short:         "windrow evaluates window functions over tabular data",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	evalCmd.Flags().StringVar(&evalCtx.dataPath, "data", "", "path to the TSV input table")
	evalCmd.Flags().StringVar(&evalCtx.windowsPath, "windows", "", "path to the YAML window definitions")
	_ = evalCmd.MarkFlagRequired("data")
	_ = evalCmd.MarkFlagRequired("windows")
	rootCmd.AddCommand(evalCmd)
}

// Run executes the windrow CLI with the given arguments (excluding the
// program name) and returns the process exit code.
func Run(args []string) int {
	logger := log.NewLogger()
	defer func() { _ = logger.Sync() }()

	ctx := log.WithLogger(context.Background(), logger)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
