package main

import (
	"fmt"
	"io"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rankradius/rankradius/internal/model"
	"github.com/rankradius/rankradius/internal/store"
)

var (
	historyCity    string
	historyKeyword string
	historyDays    int
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show stored observations and per-city appearance trends",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filter := store.ObservationFilter{
			CityName: historyCity,
			Keyword:  historyKeyword,
			Limit:    historyLimit,
		}
		if historyDays > 0 {
			filter.Since = time.Now().UTC().AddDate(0, 0, -historyDays)
		}

		rows, err := st.ListObservations(ctx, filter)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			cmd.Println("No stored observations match the filter.")
			return nil
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d observations\n\n", len(rows))
		for _, r := range rows {
			pos := "-"
			if r.Position != nil {
				pos = fmt.Sprintf("#%d", *r.Position)
			}
			fmt.Fprintf(out, "%s  %-20s %-24s appears=%-5v pos=%-4s competitors=%d\n",
				r.ObservedAt.Format("2006-01-02"), r.CityName, r.Keyword,
				r.Appears, pos, r.CompetitorCount)
		}

		fmt.Fprint(out, "\nPer-city trend\n")
		printTrend(out, rows)
		return nil
	},
}

type cityTrend struct {
	total     int
	appearing int
	latest    time.Time
}

func printTrend(out io.Writer, rows []model.ObservationRow) {
	trends := make(map[string]cityTrend)
	for _, r := range rows {
		t := trends[r.CityName]
		t.total++
		if r.Appears {
			t.appearing++
		}
		if r.ObservedAt.After(t.latest) {
			t.latest = r.ObservedAt
		}
		trends[r.CityName] = t
	}

	names := make([]string, 0, len(trends))
	for name := range trends {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := trends[name]
		fmt.Fprintf(out, "%-20s %d/%d appearing (%.0f%%), last seen %s\n",
			name, t.appearing, t.total,
			float64(t.appearing)/float64(t.total)*100,
			t.latest.Format("2006-01-02"))
	}
}

func init() {
	historyCmd.Flags().StringVar(&historyCity, "city", "", "filter by city name")
	historyCmd.Flags().StringVar(&historyKeyword, "keyword", "", "filter by keyword")
	historyCmd.Flags().IntVar(&historyDays, "days", 0, "only observations from the last N days")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 200, "maximum rows to show")
	rootCmd.AddCommand(historyCmd)
}
