package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"bcviz/internal/models"
)

// SeasonStat summarizes the MAC values of one season's records.
type SeasonStat struct {
	MeanMAC float64 `json:"mean_mac"`
	Count   int     `json:"count"`
}

// SeasonShare is one row of the whole-dataset season distribution.
type SeasonShare struct {
	Season     models.Season `json:"season"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

// Filter returns the order-preserving subsequence of records matching the
// season filter. FilterAll returns a copy equal to the input.
func Filter(records []models.MeasurementRecord, filter models.SeasonFilter) []models.MeasurementRecord {
	out := make([]models.MeasurementRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r.Season) {
			out = append(out, r)
		}
	}
	return out
}

// SortByTimestamp returns a copy of records stably sorted by ascending
// timestamp. Filtered subsequences are not guaranteed chronological, so
// time-indexed views must sort before rendering.
func SortByTimestamp(records []models.MeasurementRecord) []models.MeasurementRecord {
	out := make([]models.MeasurementRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimestampMillis < out[j].TimestampMillis
	})
	return out
}

// SeasonalStats computes the mean MAC and count per season present in
// the input. Seasons with no matching records are omitted, never
// zero-filled.
func SeasonalStats(records []models.MeasurementRecord) map[models.Season]SeasonStat {
	macsBySeason := map[models.Season][]float64{}
	for _, r := range records {
		macsBySeason[r.Season] = append(macsBySeason[r.Season], r.MAC)
	}

	stats := make(map[models.Season]SeasonStat, len(macsBySeason))
	for season, macs := range macsBySeason {
		stats[season] = SeasonStat{
			MeanMAC: stat.Mean(macs, nil),
			Count:   len(macs),
		}
	}
	return stats
}

// OverallMean computes the arithmetic mean MAC over the records. The
// second return is false when the input is empty: the mean is undefined
// and must be rendered as a placeholder, not as NaN or zero.
func OverallMean(records []models.MeasurementRecord) (float64, bool) {
	if len(records) == 0 {
		return 0, false
	}
	macs := make([]float64, len(records))
	for i, r := range records {
		macs[i] = r.MAC
	}
	return stat.Mean(macs, nil), true
}

// Distribution reports per-season counts and percentages over the whole
// (unfiltered) dataset, in the given season order. The summary panel
// always shows the full-dataset distribution regardless of the active
// filter.
func Distribution(records []models.MeasurementRecord, seasons []models.Season) []SeasonShare {
	counts := map[models.Season]int{}
	for _, r := range records {
		counts[r.Season]++
	}

	total := len(records)
	shares := make([]SeasonShare, 0, len(seasons))
	for _, season := range seasons {
		share := SeasonShare{Season: season, Count: counts[season]}
		if total > 0 {
			share.Percentage = float64(share.Count) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	return shares
}
