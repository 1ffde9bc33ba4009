package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/mergespace/gogit"
	"github.com/fwojciec/mergespace/projects"
)

func newCloneCmd() *cobra.Command {
	var (
		projectDir  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "clone <project-list>",
		Short: "Clone every project in a name,url CSV list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := projects.ReadListFile(args[0])
			if err != nil {
				return err
			}

			cloner := gogit.NewCloner()

			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(concurrency)
			for _, p := range list {
				g.Go(func() error {
					dir := filepath.Join(projectDir, p.Name)
					if err := cloner.Clone(ctx, p.URL, dir); err != nil {
						return fmt.Errorf("%s: %w", p.Name, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "cloned %s\n", p.Name)
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&projectDir, "project-dir", "d", ".", "Directory to clone projects into")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Concurrent clones")

	return cmd
}
