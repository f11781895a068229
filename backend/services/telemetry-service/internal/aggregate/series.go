package aggregate

import (
	"slices"
	"strings"

	"water360/backend/services/telemetry-service/internal/metric"
	"water360/backend/services/telemetry-service/internal/models"
)

// Series averages k per calendar date, ascending by date. Dates without
// readings are omitted rather than zero filled.
func Series(k metric.Kind, rows []models.Reading) []models.SeriesPoint {
	type bucket struct {
		sum float64
		n   int
	}
	buckets := make(map[string]*bucket)
	for _, r := range rows {
		b, ok := buckets[r.Date]
		if !ok {
			b = &bucket{}
			buckets[r.Date] = b
		}
		b.sum += k.Value(r)
		b.n++
	}

	dates := make([]string, 0, len(buckets))
	for d := range buckets {
		dates = append(dates, d)
	}
	slices.Sort(dates)

	out := make([]models.SeriesPoint, 0, len(dates))
	for _, d := range dates {
		b := buckets[d]
		out = append(out, models.SeriesPoint{Date: d, Value: b.sum / float64(b.n)})
	}
	return out
}

// MultiSeries builds one Series per requested location. Every requested
// location is a key of the result, with an empty series when nothing matched.
// Locations compare case-insensitively; keys keep the requested spelling.
func MultiSeries(k metric.Kind, locations []string, rows []models.Reading) map[string][]models.SeriesPoint {
	grouped := make(map[string][]models.Reading)
	for _, r := range rows {
		key := NormalizeLocation(r.Location)
		grouped[key] = append(grouped[key], r)
	}

	out := make(map[string][]models.SeriesPoint, len(locations))
	for _, loc := range locations {
		out[loc] = Series(k, grouped[NormalizeLocation(loc)])
	}
	return out
}

// NormalizeLocation is the comparison form of a location label.
func NormalizeLocation(loc string) string {
	return strings.ToLower(strings.TrimSpace(loc))
}
