package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mergespace",
		Short: "Analyze historical merge conflicts and their resolution spaces",
		Long: `mergespace replays the merges in a repository's history, finds the
commits whose three-way merge conflicted, and measures the space of
syntactically possible resolutions against the resolution developers
actually committed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newCloneCmd())

	return cmd
}
