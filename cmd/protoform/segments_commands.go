package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temporal-IPA/protoform/internal/config"
	"github.com/temporal-IPA/protoform/pkg/ipa"
	"github.com/temporal-IPA/protoform/pkg/phono"
)

type segmentView struct {
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name,omitempty"`
	Features []string `json:"features"`
}

func newSegmentsCommand(ctx *commandContext) *cobra.Command {
	segmentsCmd := &cobra.Command{
		Use:   "segments",
		Short: "Inspect the segment inventory",
	}
	segmentsCmd.AddCommand(newSegmentsLookupCommand(ctx))
	segmentsCmd.AddCommand(newSegmentsListCommand(ctx))
	segmentsCmd.AddCommand(newSegmentsExportCommand())
	return segmentsCmd
}

// newSegmentsExportCommand writes the built-in segment table, a starting
// point for a custom inventory.path.
func newSegmentsExportCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:         "export",
		Short:       "Write the built-in IPA segment table as JSON",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				_, err := cmd.OutOrStdout().Write(ipa.Raw())
				return err
			}
			target, err := config.ExpandPath(path)
			if err != nil {
				return err
			}
			if err := os.WriteFile(target, ipa.Raw(), 0o644); err != nil {
				return fmt.Errorf("export segments: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Segment table written to %s\n", target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Write to a file instead of stdout")
	return cmd
}

func newSegmentsLookupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup QUERY",
		Short: "Find segments by symbol, name or features (e.g. \"cons +, voice -\")",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.inventory(cmd.Context())
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			segs, err := inv.Query(query)
			if errors.Is(err, phono.ErrNoMatch) {
				if suggestions := inv.SuggestNames(query, 3); len(suggestions) > 0 {
					return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
				}
			}
			if err != nil {
				return err
			}
			return printSegments(cmd, ctx, segs)
		},
	}
}

func newSegmentsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "list [symbols|names|features|charset]",
		Short:     "List the inventory",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"symbols", "names", "features", "charset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := ctx.inventory(cmd.Context())
			if err != nil {
				return err
			}
			what := "features"
			if len(args) == 1 {
				what = args[0]
			}
			out := cmd.OutOrStdout()
			switch what {
			case "symbols":
				if ctx.json {
					return writeJSON(cmd, inv.Symbols())
				}
				fmt.Fprintln(out, strings.Join(inv.Symbols(), " "))
			case "names":
				tbl := newResultTable("Symbol", "Name")
				names := make(map[string]string, inv.Len())
				for _, seg := range inv.Segments() {
					tbl.add(seg.Symbol, seg.Name)
					names[seg.Symbol] = seg.Name
				}
				if ctx.json {
					return writeJSON(cmd, names)
				}
				fmt.Fprintln(out, tbl.render())
			case "features":
				return printSegments(cmd, ctx, inv.Segments())
			case "charset":
				if ctx.json {
					return writeJSON(cmd, inv.Charset())
				}
				fmt.Fprintln(out, inv.Charset())
			default:
				return fmt.Errorf("unknown listing %q (want symbols, names, features or charset)", what)
			}
			return nil
		},
	}
}

func printSegments(cmd *cobra.Command, ctx *commandContext, segs []phono.Segment) error {
	views := make([]segmentView, len(segs))
	for i, seg := range segs {
		views[i] = segmentView{Symbol: seg.Symbol, Name: seg.Name, Features: seg.Features.True()}
	}
	if ctx.json {
		return writeJSON(cmd, views)
	}
	tbl := newResultTable("Symbol", "Name", "Features")
	for _, v := range views {
		tbl.add(v.Symbol, v.Name, strings.Join(v.Features, " "))
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
	return nil
}
