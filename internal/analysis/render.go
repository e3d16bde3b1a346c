package analysis

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rankradius/rankradius/internal/model"
)

// FormatReport renders a human-readable territorial dominance report.
func FormatReport(report model.AnalysisReport) string {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	fmt.Fprintf(&b, "# Territorial Dominance Report: %s\n", report.BusinessName)
	fmt.Fprintf(&b, "Base: %s\n", report.BaseName)
	fmt.Fprintf(&b, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Run: %s\n\n", report.RunID)

	b.WriteString("## Summary\n")
	p.Fprintf(&b, "- Cities analyzed: %d\n", report.CityCount)
	p.Fprintf(&b, "- Keywords: %d\n", report.KeywordCount)
	p.Fprintf(&b, "- Observations: %d\n", len(report.Observations))
	if report.SkippedCount > 0 {
		p.Fprintf(&b, "- Skipped queries: %d\n", report.SkippedCount)
	}
	if report.Degraded {
		b.WriteString("- WARNING: degraded run, skip rate exceeded the configured limit\n")
	}
	b.WriteString("\n")

	b.WriteString("## Dominance Radius\n")
	if report.Profile.Dominant() {
		fmt.Fprintf(&b, "- Effective radius: %.1f km (through tier %d)\n",
			report.Profile.RadiusKM, report.Profile.DominantTier)
		if report.Profile.AvgPositionOverall != nil {
			fmt.Fprintf(&b, "- Average map position inside radius: #%.1f\n", *report.Profile.AvgPositionOverall)
		}
	} else {
		b.WriteString("- No demonstrated dominance: the innermost tier missed the coverage threshold\n")
	}
	b.WriteString("\n")

	b.WriteString("## Coverage by Tier\n")
	for _, t := range report.Tiers {
		fmt.Fprintf(&b, "- Tier %d (%s, %.0f-%.0f km): %d cities", t.Tier, t.Label, t.InnerKM, t.OuterKM, t.CityCount)
		if t.ObservationCnt == 0 {
			b.WriteString(", insufficient data\n")
			continue
		}
		fmt.Fprintf(&b, ", coverage %d/%d (%.0f%%)", t.AppearingCnt, t.ObservationCnt, t.CoveragePct*100)
		if t.AvgPosition != nil {
			fmt.Fprintf(&b, ", avg position #%.1f", *t.AvgPosition)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("## Expansion Opportunities\n")
	if len(report.Opportunities) == 0 {
		b.WriteString("No expansion opportunities identified.\n")
		return b.String()
	}
	for i, o := range report.Opportunities {
		fmt.Fprintf(&b, "%d. %s (%.1f km): score %.1f, %s\n", i+1, o.CityName, o.DistanceKM, o.Score, o.Difficulty)
		p.Fprintf(&b, "   Competitors: %d", o.CompetitorCount)
		if o.AvgCompetitorRating != nil {
			fmt.Fprintf(&b, ", avg rating %.1f", *o.AvgCompetitorRating)
		}
		if o.AvgCompetitorReviews != nil {
			p.Fprintf(&b, ", avg reviews %d", int(*o.AvgCompetitorReviews))
		}
		b.WriteString("\n")
	}

	return b.String()
}
