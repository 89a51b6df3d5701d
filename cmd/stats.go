package cmd

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/phonix/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show scoring service call statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		repo := st.StatsRepo()
		stats, err := repo.Stats(ctx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}
		recent, _ := cmd.Flags().GetInt("recent")
		var calls []store.RemoteCallEvent
		if recent > 0 {
			calls, err = repo.RecentRemoteCalls(ctx, store.QueryOpts{Limit: recent, Failed: true})
			if err != nil {
				return fmt.Errorf("load recent failures: %w", err)
			}
		}
		return printStats(cmd.OutOrStdout(), stats, calls)
	},
}

func init() {
	statsCmd.Flags().Int("recent", 10, "Number of recent failures to list")
}

func printStats(w io.Writer, stats *store.Stats, failures []store.RemoteCallEvent) error {
	if len(stats.Endpoints) == 0 {
		_, err := fmt.Fprintln(w, "No calls recorded yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENDPOINT\tCALLS\tFAILURES")
	for _, e := range stats.Endpoints {
		fmt.Fprintf(tw, "%s\t%d\t%d\n", e.Endpoint, e.Calls, e.Failures)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	printCounts(w, "Failures by kind", stats.FailuresByKind)
	printCounts(w, "Sessions", stats.SessionActions)

	if len(failures) > 0 {
		fmt.Fprintln(w, "\nRecent failures:")
		for _, c := range failures {
			fmt.Fprintf(w, "  %s  %-18s %-8s %3d  %s\n",
				c.Timestamp.Format("2006-01-02 15:04:05"), c.Endpoint, c.Kind, c.Status, c.Detail)
		}
	}
	return nil
}

func printCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-12s %d\n", k, counts[k])
	}
}
