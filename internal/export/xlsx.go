package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/rankradius/rankradius/internal/model"
)

// WriteWorkbook writes the report to an XLSX workbook at path with one sheet
// of scored opportunities and one of per-tier coverage.
func WriteWorkbook(report model.AnalysisReport, path string) error {
	f := xlsx.NewFile()

	if err := addOpportunitySheet(f, report.Opportunities); err != nil {
		return err
	}
	if err := addCoverageSheet(f, report.Tiers); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func addOpportunitySheet(f *xlsx.File, opportunities []model.Opportunity) error {
	sheet, err := f.AddSheet("Opportunities")
	if err != nil {
		return eris.Wrap(err, "export: add opportunities sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"City", "Distance (km)", "Tier", "Competitors",
		"Avg Rating", "Avg Reviews", "Score", "Difficulty",
	} {
		header.AddCell().Value = h
	}

	for _, o := range opportunities {
		row := sheet.AddRow()
		row.AddCell().Value = o.CityName
		row.AddCell().SetFloatWithFormat(o.DistanceKM, "0.0")
		row.AddCell().SetInt(o.Tier)
		row.AddCell().SetInt(o.CompetitorCount)
		addOptionalFloat(row, o.AvgCompetitorRating, "0.0")
		addOptionalFloat(row, o.AvgCompetitorReviews, "0")
		row.AddCell().SetFloatWithFormat(o.Score, "0.0")
		row.AddCell().Value = string(o.Difficulty)
	}
	return nil
}

func addCoverageSheet(f *xlsx.File, tiers []model.TierSummary) error {
	sheet, err := f.AddSheet("Coverage")
	if err != nil {
		return eris.Wrap(err, "export: add coverage sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{
		"Tier", "Label", "Inner (km)", "Outer (km)", "Cities",
		"Observations", "Appearing", "Coverage", "Avg Position",
	} {
		header.AddCell().Value = h
	}

	for _, ts := range tiers {
		row := sheet.AddRow()
		row.AddCell().SetInt(ts.Tier)
		row.AddCell().Value = ts.Label
		row.AddCell().SetFloatWithFormat(ts.InnerKM, "0")
		row.AddCell().SetFloatWithFormat(ts.OuterKM, "0")
		row.AddCell().SetInt(ts.CityCount)
		row.AddCell().SetInt(ts.ObservationCnt)
		row.AddCell().SetInt(ts.AppearingCnt)
		row.AddCell().SetFloatWithFormat(ts.CoveragePct, "0.00")
		addOptionalFloat(row, ts.AvgPosition, "0.0")
	}
	return nil
}

func addOptionalFloat(row *xlsx.Row, v *float64, format string) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloatWithFormat(*v, format)
	}
}
