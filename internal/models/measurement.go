package models

import "time"

// Season is one of the three fixed calendar-month groupings used to
// stratify measurements at the monitoring site.
type Season string

const (
	SeasonDry    Season = "Dry Season"
	SeasonBelg   Season = "Belg Rainy Season"
	SeasonKiremt Season = "Kiremt Rainy Season"
)

// seasonByMonth maps month (1-12) to its season. The three month sets
// partition 1..12: Dry covers Oct-Feb, Belg Mar-May, Kiremt Jun-Sep.
var seasonByMonth = map[int]Season{
	1:  SeasonDry,
	2:  SeasonDry,
	3:  SeasonBelg,
	4:  SeasonBelg,
	5:  SeasonBelg,
	6:  SeasonKiremt,
	7:  SeasonKiremt,
	8:  SeasonKiremt,
	9:  SeasonKiremt,
	10: SeasonDry,
	11: SeasonDry,
	12: SeasonDry,
}

// SeasonForMonth returns the season a month (1-12) belongs to.
// The second return is false for months outside 1..12.
func SeasonForMonth(month int) (Season, bool) {
	s, ok := seasonByMonth[month]
	return s, ok
}

// Seasons lists all seasons in display order.
func Seasons() []Season {
	return []Season{SeasonDry, SeasonBelg, SeasonKiremt}
}

// MeasurementRecord is one synthesized filter measurement. Records are
// immutable once generated.
type MeasurementRecord struct {
	Date            string  `json:"date"`             // ISO calendar date
	TimestampMillis int64   `json:"timestamp_millis"` // epoch millis of Date, sort key
	Month           int     `json:"month"`            // 1-12
	Season          Season  `json:"season"`
	RedBCc          float64 `json:"red_bcc"` // aethalometer red-channel BC estimate
	ECFtir          float64 `json:"ec_ftir"` // FTIR elemental carbon
	Fabs            float64 `json:"fabs"`    // HIPS absorption coefficient
	MAC             float64 `json:"mac"`     // Fabs / ECFtir
}

// Time returns the record's date as a UTC time.
func (r MeasurementRecord) Time() time.Time {
	return time.UnixMilli(r.TimestampMillis).UTC()
}

// Dataset is the full synthesized sequence plus the parameters that
// produced it. Generated once per process; never mutated afterward.
type Dataset struct {
	Records     []MeasurementRecord `json:"records"`
	GeneratedAt time.Time           `json:"generated_at"`
	SampleSize  int                 `json:"sample_size"`
	StartDate   string              `json:"start_date"`
	StepDays    int                 `json:"step_days"`
	Seed        int64               `json:"seed"`
}

// ViewMode selects which chart layout the dashboard renders.
type ViewMode string

const (
	ViewScatter     ViewMode = "scatter"
	ViewTimeSeries  ViewMode = "timeseries"
	ViewMACAnalysis ViewMode = "mac"
)

// ParseViewMode maps a query value to a view mode, defaulting to the
// scatter view for unknown input.
func ParseViewMode(s string) ViewMode {
	switch ViewMode(s) {
	case ViewScatter, ViewTimeSeries, ViewMACAnalysis:
		return ViewMode(s)
	default:
		return ViewScatter
	}
}

// Title returns the human-readable name of the view.
func (v ViewMode) Title() string {
	switch v {
	case ViewTimeSeries:
		return "Time Series"
	case ViewMACAnalysis:
		return "MAC Analysis"
	default:
		return "Scatter Plot"
	}
}

// SeasonFilter narrows the dataset to one season, or passes everything
// through when set to FilterAll.
type SeasonFilter string

const (
	FilterAll    SeasonFilter = "all"
	FilterDry    SeasonFilter = "dry"
	FilterBelg   SeasonFilter = "belg"
	FilterKiremt SeasonFilter = "kiremt"
)

// ParseSeasonFilter maps a query value to a season filter, defaulting
// to FilterAll for unknown input.
func ParseSeasonFilter(s string) SeasonFilter {
	switch SeasonFilter(s) {
	case FilterAll, FilterDry, FilterBelg, FilterKiremt:
		return SeasonFilter(s)
	default:
		return FilterAll
	}
}

// Season returns the season the filter selects. The second return is
// false for FilterAll.
func (f SeasonFilter) Season() (Season, bool) {
	switch f {
	case FilterDry:
		return SeasonDry, true
	case FilterBelg:
		return SeasonBelg, true
	case FilterKiremt:
		return SeasonKiremt, true
	default:
		return "", false
	}
}

// Matches reports whether a record with the given season passes the filter.
func (f SeasonFilter) Matches(s Season) bool {
	want, ok := f.Season()
	if !ok {
		return true
	}
	return s == want
}

// Title returns the human-readable name of the filter selection.
func (f SeasonFilter) Title() string {
	if s, ok := f.Season(); ok {
		return string(s)
	}
	return "All Seasons"
}
