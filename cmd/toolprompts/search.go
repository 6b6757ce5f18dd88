package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/toolprompts/search"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find example prompts matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			reg, _, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			searcher := search.NewSearcher(search.Config{
				MaxResults: cfg.Search.MaxResults,
				NameBoost:  cfg.Search.NameBoost,
			})
			defer func() {
				_ = searcher.Close()
			}()

			hits, err := searcher.Search(reg, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(hits) == 0 {
				fmt.Fprintln(out, "No matching prompts.")
				return nil
			}
			for _, hit := range hits {
				fmt.Fprintf(out, "%-30s %6.3f  %s\n", hit.Tool, hit.Score, hit.Prompt)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (default from config)")
	return cmd
}
