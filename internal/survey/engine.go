// Package survey fans out one search per (city, keyword) pair and collects
// the extracted observations for the analysis stages.
package survey

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rankradius/rankradius/internal/geo"
	"github.com/rankradius/rankradius/internal/model"
	"github.com/rankradius/rankradius/internal/rank"
	"github.com/rankradius/rankradius/pkg/places"
)

// Options configures an Engine.
type Options struct {
	Base            model.Coordinate
	Classifier      *geo.Classifier
	SearchRadiusM   int
	Concurrency     int
	MaxSkipFraction float64
}

// Engine runs the per-query survey. The provider client carries its own rate
// limiter; the engine only bounds parallelism.
type Engine struct {
	client    places.Client
	extractor *rank.Extractor
	opts      Options
}

// Result holds everything a survey produced. A context-canceled run still
// returns the observations collected so far, usable for partial reporting.
type Result struct {
	Cities       []model.City
	Observations []model.SearchObservation
	Skipped      int
	Degraded     bool
}

// NewEngine creates a survey Engine.
func NewEngine(client places.Client, extractor *rank.Extractor, opts Options) *Engine {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.SearchRadiusM <= 0 {
		opts.SearchRadiusM = 8000
	}
	return &Engine{client: client, extractor: extractor, opts: opts}
}

// PrepareCities computes distance and tier for each candidate city. Cities
// with coordinates outside WGS84 range are excluded and logged; they never
// fail the run. Cities beyond the outermost tier stay in the set untiered so
// their observations remain recordable.
func (e *Engine) PrepareCities(cities []model.City) []model.City {
	log := zap.L().With(zap.String("component", "survey.engine"))

	prepared := make([]model.City, 0, len(cities))
	for _, c := range cities {
		d, err := geo.Distance(e.opts.Base, c.Coordinate)
		if err != nil {
			log.Warn("excluding city with invalid coordinate",
				zap.String("city", c.Name),
				zap.Float64("lat", c.Coordinate.Lat),
				zap.Float64("lng", c.Coordinate.Lng),
				zap.Error(err),
			)
			continue
		}
		c.DistanceKM = d
		if tier, ok := e.opts.Classifier.Classify(d); ok {
			c.Tier = tier
		} else {
			c.Tier = 0
			log.Debug("city outside tier range, observations recorded untiered",
				zap.String("city", c.Name),
				zap.Float64("distance_km", d),
			)
		}
		prepared = append(prepared, c)
	}
	return prepared
}

// Run surveys every (city, keyword) pair. Individual query failures are
// skipped and counted, never fatal; only context cancellation stops the run,
// and even then the partial result is returned alongside the error.
func (e *Engine) Run(ctx context.Context, cities []model.City, keywords []string) (*Result, error) {
	log := zap.L().With(zap.String("component", "survey.engine"))

	cities = e.PrepareCities(cities)
	total := len(cities) * len(keywords)
	if total == 0 {
		return nil, eris.New("survey: nothing to query, no valid cities or keywords")
	}

	log.Info("starting survey",
		zap.Int("cities", len(cities)),
		zap.Int("keywords", len(keywords)),
		zap.Int("queries", total),
		zap.Int("concurrency", e.opts.Concurrency),
	)

	var mu sync.Mutex
	observations := make([]model.SearchObservation, 0, total)
	var skipped int

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Concurrency)

	for _, city := range cities {
		for _, keyword := range keywords {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				resp, err := e.client.NearbySearch(gctx, places.SearchRequest{
					Keyword: keyword,
					Lat:     city.Coordinate.Lat,
					Lng:     city.Coordinate.Lng,
					RadiusM: e.opts.SearchRadiusM,
				})

				var obs model.SearchObservation
				if err == nil {
					obs, err = e.extractor.Extract(resp, city, keyword, time.Now().UTC())
				}
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					log.Warn("skipping observation",
						zap.String("city", city.Name),
						zap.String("keyword", keyword),
						zap.Error(err),
					)
					mu.Lock()
					skipped++
					mu.Unlock()
					return nil
				}

				mu.Lock()
				observations = append(observations, obs)
				mu.Unlock()
				return nil
			})
		}
	}

	runErr := g.Wait()

	result := &Result{
		Cities:       cities,
		Observations: observations,
		Skipped:      skipped,
	}
	if total > 0 && e.opts.MaxSkipFraction > 0 {
		result.Degraded = float64(skipped)/float64(total) > e.opts.MaxSkipFraction
	}

	log.Info("survey complete",
		zap.Int("observations", len(observations)),
		zap.Int("skipped", skipped),
		zap.Bool("degraded", result.Degraded),
	)

	if runErr != nil {
		return result, eris.Wrap(runErr, "survey: run interrupted")
	}
	return result, nil
}
