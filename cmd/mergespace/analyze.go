package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fwojciec/mergespace/analyze"
	"github.com/fwojciec/mergespace/git"
	"github.com/fwojciec/mergespace/gogit"
	"github.com/fwojciec/mergespace/jsonl"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		output      string
		limit       int
		searchLimit int
	)

	cmd := &cobra.Command{
		Use:   "analyze <repo-dir>",
		Short: "Analyze the conflicting merges in a repository's history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := gogit.Open(args[0])
			if err != nil {
				return err
			}

			analyzer := &analyze.Analyzer{
				Repo:        repo,
				Merger:      git.NewMerger(),
				SearchLimit: searchLimit,
			}

			reports, err := analyzer.Run(cmd.Context(), limit)
			if err != nil {
				return err
			}

			printReports(cmd.OutOrStdout(), reports)

			if output != "" {
				if err := jsonl.NewStore().Save(output, reports); err != nil {
					return fmt.Errorf("writing %s: %w", output, err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write reports to a JSONL file")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Analyze at most n merge commits (0 = all)")
	cmd.Flags().IntVar(&searchLimit, "search-limit", 1024, "Candidates to enumerate when searching for the actual resolution (0 = skip)")

	return cmd
}

func printReports(w io.Writer, reports []analyze.Report) {
	if len(reports) == 0 {
		fmt.Fprintln(w, "no conflicting merges found")
		return
	}

	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	for _, r := range reports {
		bold.Fprintf(w, "%s", r.CommitIDShort)
		fmt.Fprintf(w, "  files=%d conflicts=%d space=%g  ", r.Files, r.ConflictCount, r.SpaceSize)
		if r.ActualFound {
			green.Fprintf(w, "actual at #%d\n", r.ActualIndex)
		} else {
			yellow.Fprintln(w, "actual not among searched candidates")
		}
	}
	fmt.Fprintf(w, "%d conflicting merge(s)\n", len(reports))
}
