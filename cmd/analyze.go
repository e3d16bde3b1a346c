package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/rankradius/rankradius/internal/analysis"
	"github.com/rankradius/rankradius/internal/model"
	"github.com/rankradius/rankradius/internal/rank"
	"github.com/rankradius/rankradius/internal/survey"
	"github.com/rankradius/rankradius/pkg/places"
)

var (
	analyzeOutput   string
	analyzeDryRun   bool
	analyzeKeywords []string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Survey rankings and compute the dominance report",
	Long:  "Runs one Places query per city and keyword, computes per-tier coverage, the dominance radius, and scored expansion opportunities, then persists the observations.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate(); err != nil {
			return err
		}

		keywords := cfg.Keywords
		if len(analyzeKeywords) > 0 {
			keywords = analyzeKeywords
		}

		classifier, err := buildClassifier()
		if err != nil {
			return err
		}

		client := places.NewClient(cfg.Places.APIKey,
			places.WithBaseURL(cfg.Places.BaseURL),
			places.WithRateLimit(cfg.Places.RateRPS),
		)
		extractor := rank.NewExtractor(rank.NewMatcher(cfg.MatchTerms()...), cfg.Analysis.ObservationWindow)

		engine := survey.NewEngine(client, extractor, survey.Options{
			Base:            baseCoordinate(),
			Classifier:      classifier,
			SearchRadiusM:   cfg.Places.SearchRadiusM,
			Concurrency:     cfg.Survey.Concurrency,
			MaxSkipFraction: cfg.Analysis.MaxSkipFraction,
		})

		result, runErr := engine.Run(ctx, configuredCities(), keywords)
		if runErr != nil {
			if result == nil || len(result.Observations) == 0 {
				return runErr
			}
			zap.L().Warn("survey interrupted, reporting on partial data", zap.Error(runErr))
		}

		report := computeReport(cfg, classifier, result.Cities, result.Observations,
			len(keywords), result.Skipped, result.Degraded)

		switch analyzeOutput {
		case "yaml":
			data, err := yaml.Marshal(report)
			if err != nil {
				return eris.Wrap(err, "marshal report")
			}
			cmd.Print(string(data))
		case "text":
			cmd.Print(analysis.FormatReport(report))
		default:
			return eris.Errorf("unknown output format %q", analyzeOutput)
		}

		if analyzeDryRun {
			zap.L().Info("dry run, skipping persistence")
			return nil
		}
		return persistObservations(cmd, report.Observations)
	},
}

func persistObservations(cmd *cobra.Command, observations []model.SearchObservation) error {
	// Persistence happens after all computation; a store failure never costs
	// the rendered report.
	ctx := cmd.Context()
	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	if err := st.Migrate(ctx); err != nil {
		return eris.Wrap(err, "migrate store")
	}

	rows := make([]model.ObservationRow, len(observations))
	for i, obs := range observations {
		rows[i] = obs.Row()
	}
	n, err := st.InsertObservations(ctx, rows)
	if err != nil {
		return eris.Wrap(err, "persist observations")
	}

	zap.L().Info("observations persisted", zap.Int64("rows", n))
	fmt.Fprintf(cmd.OutOrStdout(), "\nPersisted %d observations.\n", n)
	return nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "text", "report format: text or yaml")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "skip persisting observations")
	analyzeCmd.Flags().StringSliceVar(&analyzeKeywords, "keywords", nil, "override configured keywords")
	rootCmd.AddCommand(analyzeCmd)
}
