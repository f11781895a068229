package aggregate

import (
	"cmp"
	"slices"

	"water360/backend/services/telemetry-service/internal/models"
)

// Correlate returns the three metrics as aligned slices ordered by reading id.
func Correlate(rows []models.Reading) models.CorrelationData {
	sorted := byID(rows)
	out := models.CorrelationData{
		TemperatureValues: make([]float64, 0, len(sorted)),
		TurbidityValues:   make([]float64, 0, len(sorted)),
		PHValues:          make([]float64, 0, len(sorted)),
	}
	for _, r := range sorted {
		out.TemperatureValues = append(out.TemperatureValues, r.Temperature)
		out.TurbidityValues = append(out.TurbidityValues, r.Turbidity)
		out.PHValues = append(out.PHValues, r.PHValue)
	}
	return out
}

// LocationCounts counts readings per location, busiest first then by name.
// Labels differing only in case share a bucket named after the first spelling seen.
func LocationCounts(rows []models.Reading) []models.LocationCount {
	index := make(map[string]int)
	out := make([]models.LocationCount, 0)
	for _, r := range byID(rows) {
		key := NormalizeLocation(r.Location)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.LocationCount{Location: r.Location})
		}
		out[i].Count++
	}
	slices.SortStableFunc(out, func(a, b models.LocationCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Location, b.Location)
	})
	return out
}

// NewestFirst orders rows by creation time, newest first, breaking ties by id.
func NewestFirst(rows []models.Reading) []models.Reading {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b models.Reading) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return sorted
}

// ByIDDesc orders rows by id, highest first.
func ByIDDesc(rows []models.Reading) []models.Reading {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b models.Reading) int { return cmp.Compare(b.ID, a.ID) })
	return sorted
}
