package synth

import (
	"fmt"
	"math/rand"
	"time"

	"bcviz/internal/models"
)

// Seasonal scale factors applied to the red-channel BC estimate. Only
// RedBCc is scaled by season; EC and Fabs vary with season solely through
// the shared base value.
const (
	dryFactor  = 1.2
	belgFactor = 0.8
)

// Synthesizer produces placeholder measurement datasets. Physical values
// are stochastic; date spacing and season assignment are deterministic.
type Synthesizer struct {
	rng *rand.Rand
}

// New creates a synthesizer backed by the given random source.
func New(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// NewSeeded creates a synthesizer seeded with the given value. A zero
// seed means "seed from the clock".
func NewSeeded(seed int64) *Synthesizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(rand.New(rand.NewSource(seed)))
}

// Generate creates sampleSize records starting at startDate, stepDays
// apart. sampleSize <= 0 yields an empty sequence; consumers must handle
// the empty-data case. stepDays must be positive.
func (s *Synthesizer) Generate(sampleSize int, startDate time.Time, stepDays int) ([]models.MeasurementRecord, error) {
	if stepDays <= 0 {
		return nil, fmt.Errorf("step days must be positive, got %d", stepDays)
	}
	if sampleSize <= 0 {
		return []models.MeasurementRecord{}, nil
	}

	records := make([]models.MeasurementRecord, 0, sampleSize)
	for i := 0; i < sampleSize; i++ {
		date := startDate.UTC().AddDate(0, 0, i*stepDays)
		month := int(date.Month())
		season, ok := models.SeasonForMonth(month)
		if !ok {
			// The month table partitions 1..12, so this is a broken
			// configuration rather than a data condition.
			return nil, fmt.Errorf("month %d maps to no season", month)
		}

		// Shared base value in [2, 10) plus independent multiplicative
		// noise per quantity. EC's noise term is at least 0.8 and the
		// base at least 2, so EC stays strictly positive and MAC finite.
		base := 2 + s.rng.Float64()*8
		redBCc := base * seasonalFactor(season) * (1 + (s.rng.Float64()-0.5)*0.3)
		ecFtir := base * 0.9 * (1 + (s.rng.Float64()-0.5)*0.4)
		fabs := base * 5 * (1 + (s.rng.Float64()-0.5)*0.5)

		records = append(records, models.MeasurementRecord{
			Date:            date.Format("2006-01-02"),
			TimestampMillis: date.UnixMilli(),
			Month:           month,
			Season:          season,
			RedBCc:          redBCc,
			ECFtir:          ecFtir,
			Fabs:            fabs,
			MAC:             fabs / ecFtir,
		})
	}

	return records, nil
}

// GenerateDataset wraps Generate with the parameters that produced it.
func (s *Synthesizer) GenerateDataset(sampleSize int, startDate time.Time, stepDays int, seed int64) (*models.Dataset, error) {
	records, err := s.Generate(sampleSize, startDate, stepDays)
	if err != nil {
		return nil, fmt.Errorf("failed to generate dataset: %w", err)
	}
	return &models.Dataset{
		Records:     records,
		GeneratedAt: time.Now().UTC(),
		SampleSize:  sampleSize,
		StartDate:   startDate.UTC().Format("2006-01-02"),
		StepDays:    stepDays,
		Seed:        seed,
	}, nil
}

func seasonalFactor(season models.Season) float64 {
	switch season {
	case models.SeasonDry:
		return dryFactor
	case models.SeasonBelg:
		return belgFactor
	default:
		return 1.0
	}
}
