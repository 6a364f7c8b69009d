package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCollapseCommand(ctx *commandContext) *cobra.Command {
	var showSteps bool
	cmd := &cobra.Command{
		Use:   "collapse FORM...",
		Short: "Merge cognates pairwise, most similar first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine(cmd)
			if err != nil {
				return err
			}
			res, err := eng.Collapse(args)
			if err != nil {
				return err
			}
			if ctx.json {
				return writeJSON(cmd, res)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Form)
			if showSteps && len(res.Steps) > 0 {
				tbl := newResultTable("#", "A", "B", "Similarity", "Merged").numericColumns(0, 3)
				for i, s := range res.Steps {
					tbl.add(fmt.Sprint(i+1), s.A, s.B, ratio(s.Ratio), s.Merged)
				}
				fmt.Fprintln(out, tbl.render())
				fmt.Fprintf(out, "threshold: %s, fell back: %s\n", ratio(res.Threshold), yesNo(res.FellBack))
			}
			printDiagnostics(cmd, res.Diagnostics)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSteps, "steps", false, "Print every merge")
	return cmd
}
