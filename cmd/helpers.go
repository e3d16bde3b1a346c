package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rankradius/rankradius/internal/analysis"
	"github.com/rankradius/rankradius/internal/config"
	"github.com/rankradius/rankradius/internal/geo"
	"github.com/rankradius/rankradius/internal/model"
	"github.com/rankradius/rankradius/internal/store"
)

func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, store.Config{
		Driver:      cfg.Store.Driver,
		DatabaseURL: cfg.Store.DatabaseURL,
	})
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

func buildClassifier() (*geo.Classifier, error) {
	classifier, err := geo.NewClassifier(cfg.Analysis.TierBoundaries)
	if err != nil {
		return nil, eris.Wrap(err, "tier boundaries")
	}
	return classifier, nil
}

func baseCoordinate() model.Coordinate {
	return model.Coordinate{Lat: cfg.Base.Lat, Lng: cfg.Base.Lng}
}

func configuredCities() []model.City {
	cities := make([]model.City, 0, len(cfg.Cities))
	for _, c := range cfg.Cities {
		cities = append(cities, model.City{
			Name:       c.Name,
			Coordinate: model.Coordinate{Lat: c.Lat, Lng: c.Lng},
			ZipCode:    c.ZipCode,
		})
	}
	return cities
}

// prepareCities derives distance and tier for the configured cities, dropping
// any with coordinates outside WGS84 range.
func prepareCities(classifier *geo.Classifier) []model.City {
	base := baseCoordinate()
	var prepared []model.City
	for _, c := range configuredCities() {
		d, err := geo.Distance(base, c.Coordinate)
		if err != nil {
			zap.L().Warn("skipping city with invalid coordinate",
				zap.String("city", c.Name), zap.Error(err))
			continue
		}
		c.DistanceKM = d
		if tier, ok := classifier.Classify(d); ok {
			c.Tier = tier
		}
		prepared = append(prepared, c)
	}
	return prepared
}

// computeReport runs the pure analysis stages over collected observations.
func computeReport(c *config.Config, classifier *geo.Classifier,
	cities []model.City, observations []model.SearchObservation,
	keywordCount, skipped int, degraded bool) model.AnalysisReport {

	summaries := analysis.Aggregate(classifier, cities, observations)
	profile := analysis.ComputeDominance(summaries, c.Analysis.DominanceThreshold)

	byCity := make(map[string][]model.SearchObservation)
	for _, obs := range observations {
		byCity[obs.CityName] = append(byCity[obs.CityName], obs)
	}

	scorer := analysis.NewScorer(c.Scoring, c.PrimaryKeyword())
	var opportunities []model.Opportunity
	for _, city := range cities {
		if opp := scorer.Score(city, byCity[city.Name], profile); opp != nil {
			opportunities = append(opportunities, *opp)
		}
	}

	return analysis.BuildReport(analysis.BuildParams{
		BusinessName:  c.Business.Name,
		BaseName:      c.Base.Name,
		CityCount:     len(cities),
		KeywordCount:  keywordCount,
		Profile:       profile,
		Tiers:         summaries,
		Opportunities: opportunities,
		Observations:  observations,
		SkippedCount:  skipped,
		Degraded:      degraded,
	})
}
