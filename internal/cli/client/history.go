package client

import (
	"context"
	"fmt"
	"net/url"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func HistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "List past searches, most recent first",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			var records []SearchRecord
			if err := api.Get(context.Background(), "/api/search-history", &records); err != nil {
				return err
			}
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}

			return printResult(cmd, records, func() {
				if len(records) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No searches yet.")
					return
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCOUNTRY\tCONFIDENCE\tSEARCHED")
				for _, r := range records {
					fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n", r.ID, r.Name, r.PredictedCountry, r.ConfidenceScore, r.Timestamp.Format(time.DateTime))
				}
				_ = w.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most n searches (0 for all)")

	return cmd
}

func GetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get <search_id>",
		Short:   "Show one stored search",
		Aliases: []string{"view"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			var rec SearchRecord
			if err := api.Get(context.Background(), "/api/search-history/"+url.PathEscape(args[0]), &rec); err != nil {
				return err
			}
			return printResult(cmd, rec, func() { printRecord(cmd, &rec) })
		},
	}
}
