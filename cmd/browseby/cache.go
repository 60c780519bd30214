package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPurgeCmd(a *app) *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "purge [page...]",
		Short: "Clear cached browse data",
		Long: `Clear the cache directories of the given pages (author, year, topic, gmd,
coll_type, with or without the browse_ prefix), or of every page when none
is given.

With --id only the entries of one facet are dropped: its lookup, title count
and title pages. Letter counts and facet lists stay cached.

purge only touches the cache files. A running serve process keeps its
in-memory copies for up to BROWSEBY_MEMORY_TTL (BROWSEBY_MEMORY_TTL=0
turns the memory tier off).`,
		Example: `  browseby purge
  browseby purge author topic
  browseby purge gmd --id 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			defer c.Close()

			purged, err := c.Purge(cmd.Context(), args, id)
			if err != nil {
				return err
			}
			for _, ns := range purged {
				if id > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "purged %s id %d\n", ns, id)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", ns)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&id, "id", 0, "purge only the entries of this facet id")
	return cmd
}

func newWarmCmd(a *app) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Refresh the letter counts, facet lists and year data in the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.container()
			if err != nil {
				return err
			}
			defer c.Close()

			start := time.Now()
			res, err := c.Warm(cmd.Context(), concurrency)
			if err != nil {
				return err
			}

			a.logger.Info().
				Int("kinds", res.Kinds).
				Int("facet_lists", res.FacetLists).
				Int("years", res.Years).
				Dur("took", time.Since(start)).
				Msg("cache warmed")
			fmt.Fprintf(cmd.OutOrStdout(), "warmed %d facet lists across %d pages and %d years\n",
				res.FacetLists, res.Kinds, res.Years)
			return nil
		},
	}
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of queries run at once")
	return cmd
}
