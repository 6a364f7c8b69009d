package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temporal-IPA/protoform/pkg/lexeme"
	"github.com/temporal-IPA/protoform/pkg/reconstruct"
)

type runOptions struct {
	lexemes    string
	encoding   string
	refine     bool
	iterations int
	test       bool
	collapse   bool
	workers    int
}

type runItem struct {
	Root        int                     `json:"root"`
	Gloss       string                  `json:"gloss,omitempty"`
	Forms       []string                `json:"forms"`
	Form        string                  `json:"form"`
	Refined     string                  `json:"refined,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Diagnostics reconstruct.Diagnostics `json:"diagnostics"`
}

type runReport struct {
	RunID string              `json:"run_id"`
	Items []runItem           `json:"items"`
	Test  *reconstruct.Report `json:"test,omitempty"`
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Reconstruct every cognate set of a lexeme database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if opts.lexemes == "" {
				opts.lexemes = cfg.Lexemes.Path
			}
			if opts.lexemes == "" {
				return errors.New("no lexeme database: pass --lexemes or set lexemes.path")
			}
			if !cmd.Flags().Changed("encoding") {
				opts.encoding = cfg.Lexemes.Encoding
			}
			if !cmd.Flags().Changed("iterations") {
				opts.iterations = cfg.Engine.RefineIterations
			}
			if !cmd.Flags().Changed("collapse") {
				opts.collapse = cfg.Engine.Collapse
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = cfg.Engine.Workers
			}
			return runDatabase(cmd, ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.lexemes, "lexemes", "l", "", "Lexeme database (JSON, text or SQLite)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Character encoding of a text database")
	cmd.Flags().BoolVar(&opts.refine, "refine", false, "Refine every reconstruction towards its agreeing forms")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 1, "Refinement passes")
	cmd.Flags().BoolVar(&opts.test, "test", false, "Score the reconstructions against the database answers")
	cmd.Flags().BoolVar(&opts.collapse, "collapse", false, "Merge forms pairwise instead of aligning them at once")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Sets processed in parallel, 0 for one per CPU")
	return cmd
}

func runDatabase(cmd *cobra.Command, ctx *commandContext, opts runOptions) error {
	logger := ctx.logger(cmd)
	eng, err := ctx.engine(cmd)
	if err != nil {
		return err
	}
	db, err := lexeme.LoadFile(cmd.Context(), opts.lexemes, opts.encoding)
	if err != nil {
		return err
	}
	if opts.test && !db.HasAnswers() {
		return fmt.Errorf("%s has no answers to test against", opts.lexemes)
	}
	logger.Info("loaded lexemes",
		slog.String("path", opts.lexemes),
		slog.Int("languages", len(db.Languages)),
		slog.Int("sets", len(db.Sets)))

	outcomes, err := eng.RunAll(cmd.Context(), db.Sets, reconstruct.BatchOptions{
		Workers:  opts.workers,
		Collapse: opts.collapse,
	})
	if err != nil {
		return err
	}

	report := runReport{Items: make([]runItem, len(outcomes))}
	forms := make([]string, len(outcomes))
	for i, o := range outcomes {
		if report.RunID == "" {
			report.RunID = o.RunID
		}
		item := runItem{
			Root:        o.Set.Root,
			Gloss:       o.Set.Gloss,
			Forms:       o.Set.Texts(),
			Form:        o.Form(),
			Diagnostics: o.Diagnostics(),
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
			logger.Warn("set failed", slog.Int("root", o.Set.Root), slog.Any("error", o.Err))
		}
		report.Items[i] = item
		forms[i] = item.Form
	}

	if opts.refine {
		if err := refineItems(eng, db.Sets, report.Items, forms, opts.iterations); err != nil {
			return err
		}
	}

	if opts.test {
		rep := eng.Score(forms, db.Answers(), eng.RetentionThreshold(db.Sets, db.Answers()))
		report.Test = &rep
	}

	if ctx.json {
		return writeJSON(cmd, report)
	}
	printRunReport(cmd, report, db.HasAnswers())
	return nil
}

// refineItems refines the sets that reconstructed without error and
// updates forms in place. A set whose refinement fails keeps its
// provisional form and reports the error.
func refineItems(eng *reconstruct.Engine, sets []lexeme.CognateSet, items []runItem, forms []string, iterations int) error {
	var idx []int
	var ok []lexeme.CognateSet
	var provisional []string
	for i, item := range items {
		if item.Error != "" {
			continue
		}
		idx = append(idx, i)
		ok = append(ok, sets[i])
		provisional = append(provisional, forms[i])
	}
	refined, err := eng.Refine(ok, provisional, iterations)
	if err != nil {
		return err
	}
	for k, i := range idx {
		if refined[k].Err != nil {
			items[i].Error = refined[k].Err.Error()
			continue
		}
		items[i].Refined = refined[k].Form()
		forms[i] = items[i].Refined
	}
	return nil
}

func printRunReport(cmd *cobra.Command, report runReport, withAnswers bool) {
	out := cmd.OutOrStdout()
	headers := []string{"Root", "Forms", "Reconstruction"}
	var refined bool
	for _, item := range report.Items {
		if item.Refined != "" {
			refined = true
			break
		}
	}
	if refined {
		headers = append(headers, "Refined")
	}
	scored := report.Test != nil && withAnswers
	scores := map[int]reconstruct.ItemScore{}
	if scored {
		headers = append(headers, "Answer", "Similarity")
		for _, s := range report.Test.Items {
			scores[s.Index] = s
		}
	}

	tbl := newResultTable(headers...).numericColumns(0)
	if scored {
		tbl.numericColumns(len(headers) - 1)
	}
	for i, item := range report.Items {
		form := item.Form
		if item.Error != "" {
			form = "error: " + item.Error
		}
		row := []string{fmt.Sprint(item.Root), strings.Join(item.Forms, ", "), form}
		if refined {
			row = append(row, item.Refined)
		}
		if s, ok := scores[i]; ok {
			row = append(row, s.Answer, ratio(s.Ratio))
		}
		tbl.add(row...)
	}
	fmt.Fprintln(out, tbl.render())

	if report.Test != nil {
		fmt.Fprintf(out, "passed %d/%d (%.1f%%) at threshold %s, mean similarity %s\n",
			report.Test.Passed, report.Test.Total, report.Test.PassRate()*100,
			ratio(report.Test.Threshold), ratio(report.Test.MeanRatio))
	}
}
