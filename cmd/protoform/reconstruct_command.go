package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temporal-IPA/protoform/pkg/reconstruct"
)

func newReconstructCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reconstruct FORM...",
		Short: "Reconstruct the proto-form of a set of cognates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine(cmd)
			if err != nil {
				return err
			}
			res, err := eng.Reconstruct(args)
			if err != nil {
				return err
			}
			if ctx.json {
				return writeJSON(cmd, res)
			}
			printResult(cmd, res)
			return nil
		},
	}
}

func printResult(cmd *cobra.Command, res reconstruct.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Form)
	if len(res.Ratios) > 0 {
		tbl := newResultTable("Form", "Similarity").numericColumns(1)
		for _, r := range res.Ratios {
			tbl.add(r.Form, ratio(r.Ratio))
		}
		fmt.Fprintln(out, tbl.render())
	}
	printDiagnostics(cmd, res.Diagnostics)
}

func printDiagnostics(cmd *cobra.Command, d reconstruct.Diagnostics) {
	if d.Empty() {
		return
	}
	out := cmd.OutOrStdout()
	for _, w := range d.Unmatched {
		fmt.Fprintf(out, "unmatched: %s\n", w)
	}
	for _, a := range d.Ambiguities {
		fmt.Fprintf(out, "ambiguous: %s\n", a)
	}
	for _, a := range d.Approximations {
		fmt.Fprintf(out, "approximated column %d: %s -> %s (%s)\n", a.Column, a.Theoretical, a.Symbol, ratio(a.Ratio))
	}
	if len(d.Skipped) > 0 {
		cols := make([]string, len(d.Skipped))
		for i, c := range d.Skipped {
			cols[i] = fmt.Sprint(c)
		}
		fmt.Fprintf(out, "skipped columns: %s\n", strings.Join(cols, ", "))
	}
	if d.Pruned > 0 || d.Dropped > 0 {
		fmt.Fprintf(out, "alignment: %d moves, %d pruned, %d dropped\n", len(d.Moves), d.Pruned, d.Dropped)
	}
}
