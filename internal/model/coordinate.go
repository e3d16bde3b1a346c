// Package model defines the domain types shared across the analysis pipeline.
package model

// Coordinate is a WGS84 point in floating-point degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat" mapstructure:"lat"`
	Lng float64 `json:"lng" yaml:"lng" mapstructure:"lng"`
}

// Valid reports whether the coordinate is within WGS84 range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// City is a candidate market around the base location. DistanceKM and Tier
// are derived once per run from the base coordinate; they are never read back
// from storage.
type City struct {
	Name       string     `json:"name" yaml:"name" mapstructure:"name"`
	Coordinate Coordinate `json:"coordinate" yaml:"coordinate" mapstructure:"coordinate"`
	ZipCode    string     `json:"zip_code,omitempty" yaml:"zip_code,omitempty" mapstructure:"zip_code"`
	DistanceKM float64    `json:"distance_km" yaml:"distance_km" mapstructure:"-"`
	Tier       int        `json:"tier" yaml:"tier" mapstructure:"-"` // 0 = outside all tiers
}
