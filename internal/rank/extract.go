// Package rank normalizes raw search-provider responses into structured
// observations of where the target business ranks.
package rank

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/rankradius/rankradius/internal/model"
	"github.com/rankradius/rankradius/pkg/places"
)

// ErrMalformedResponse marks a provider response that cannot be read as a
// ranked entry list. Recoverable: the caller skips the observation and
// continues the run.
var ErrMalformedResponse = eris.New("rank: malformed response")

// DefaultWindow is how deep into the ranked list an observation looks.
const DefaultWindow = 20

// Matcher identifies the target business among ranked entries by
// case-insensitive substring match on any configured identifier term
// (business name fragments or domain).
type Matcher struct {
	terms []string
}

// NewMatcher builds a Matcher from identifier terms. Blank terms are dropped.
func NewMatcher(terms ...string) Matcher {
	m := Matcher{}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			m.terms = append(m.terms, t)
		}
	}
	return m
}

// Match reports whether an entry name belongs to the target business.
func (m Matcher) Match(name string) bool {
	lower := strings.ToLower(name)
	for _, t := range m.terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Extractor turns provider responses into SearchObservations.
type Extractor struct {
	matcher Matcher
	window  int
}

// NewExtractor creates an Extractor with the given matcher and observation
// window. A non-positive window falls back to DefaultWindow.
func NewExtractor(matcher Matcher, window int) *Extractor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Extractor{matcher: matcher, window: window}
}

// Extract scans the ranked list up to the observation window and produces one
// observation for the given city and keyword. Competitor rating and review
// means only cover entries that carry the field; entries without reviews are
// excluded from the mean, not counted as zero.
func (e *Extractor) Extract(resp *places.SearchResponse, city model.City, keyword string, observedAt time.Time) (model.SearchObservation, error) {
	if resp == nil {
		return model.SearchObservation{}, eris.Wrap(ErrMalformedResponse, "nil response")
	}
	switch resp.Status {
	case "OK", "ZERO_RESULTS":
	default:
		return model.SearchObservation{}, eris.Wrapf(ErrMalformedResponse, "status %q", resp.Status)
	}

	entries := resp.Results
	if len(entries) > e.window {
		entries = entries[:e.window]
	}

	obs := model.SearchObservation{
		CityName:   city.Name,
		Keyword:    keyword,
		Tier:       city.Tier,
		DistanceKM: city.DistanceKM,
		ObservedAt: observedAt,
	}

	var (
		ratingSum, reviewSum     float64
		ratingCount, reviewCount int
	)

	for i, entry := range entries {
		if e.matcher.Match(entry.Name) {
			if !obs.Appears {
				obs.Appears = true
				pos := i + 1
				obs.Position = &pos
			}
			continue
		}

		obs.CompetitorCount++
		if entry.Rating != nil {
			ratingSum += *entry.Rating
			ratingCount++
		}
		if entry.ReviewCount != nil {
			reviewSum += float64(*entry.ReviewCount)
			reviewCount++
		}
	}

	if ratingCount > 0 {
		avg := ratingSum / float64(ratingCount)
		obs.AvgCompetitorRating = &avg
	}
	if reviewCount > 0 {
		avg := reviewSum / float64(reviewCount)
		obs.AvgCompetitorReviews = &avg
	}

	return obs, nil
}
