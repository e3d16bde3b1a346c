package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rankradius/rankradius/internal/export"
	"github.com/rankradius/rankradius/internal/model"
	"github.com/rankradius/rankradius/internal/store"
)

var (
	exportXLSXPath    string
	exportGeoJSONPath string
	exportDays        int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a report computed from stored observations",
	Long:  "Recomputes the dominance report from stored observation history and writes it as an XLSX workbook and/or a GeoJSON dominance map.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if exportXLSXPath == "" && exportGeoJSONPath == "" {
			return eris.New("nothing to export, pass --xlsx and/or --geojson")
		}

		classifier, err := buildClassifier()
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		filter := store.ObservationFilter{}
		if exportDays > 0 {
			filter.Since = time.Now().UTC().AddDate(0, 0, -exportDays)
		}
		rows, err := st.ListObservations(ctx, filter)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return eris.New("no stored observations to export, run analyze first")
		}

		observations := latestObservations(rows)
		keywords := make(map[string]struct{})
		for _, obs := range observations {
			keywords[obs.Keyword] = struct{}{}
		}

		cities := prepareCities(classifier)
		report := computeReport(cfg, classifier, cities, observations, len(keywords), 0, false)

		if exportXLSXPath != "" {
			if err := export.WriteWorkbook(report, exportXLSXPath); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", exportXLSXPath))
			cmd.Printf("Wrote %s\n", exportXLSXPath)
		}

		if exportGeoJSONPath != "" {
			data, err := export.DominanceMap(report, baseCoordinate(), cities)
			if err != nil {
				return err
			}
			if err := os.WriteFile(exportGeoJSONPath, data, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", exportGeoJSONPath)
			}
			zap.L().Info("dominance map written", zap.String("path", exportGeoJSONPath))
			cmd.Printf("Wrote %s\n", exportGeoJSONPath)
		}

		return nil
	},
}

// latestObservations keeps the newest stored row per (city, keyword) so the
// recomputed report reflects one coherent snapshot. Rows arrive newest first.
func latestObservations(rows []model.ObservationRow) []model.SearchObservation {
	type key struct{ city, keyword string }
	seen := make(map[key]struct{}, len(rows))

	var observations []model.SearchObservation
	for _, r := range rows {
		k := key{r.CityName, r.Keyword}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		observations = append(observations, r.Observation())
	}
	return observations
}

func init() {
	exportCmd.Flags().StringVar(&exportXLSXPath, "xlsx", "", "write opportunities workbook to this path")
	exportCmd.Flags().StringVar(&exportGeoJSONPath, "geojson", "", "write dominance map to this path")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "only use observations from the last N days")
	rootCmd.AddCommand(exportCmd)
}
