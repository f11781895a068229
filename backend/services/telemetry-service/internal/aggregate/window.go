// Package aggregate turns a snapshot of readings into dashboard values. All
// functions are pure: callers fetch rows for a window and pass them in.
package aggregate

import (
	"cmp"
	"slices"

	"water360/backend/services/telemetry-service/internal/metric"
	"water360/backend/services/telemetry-service/internal/models"
)

// Count returns the number of readings.
func Count(rows []models.Reading) int {
	return len(rows)
}

// Highest returns the reading with the largest value of k, nil for no rows.
// Ties go to the lowest id.
func Highest(k metric.Kind, rows []models.Reading) *models.Extreme {
	return pick(k, rows, func(candidate, best float64) bool { return candidate > best })
}

// Lowest returns the reading with the smallest value of k, nil for no rows.
// Ties go to the lowest id.
func Lowest(k metric.Kind, rows []models.Reading) *models.Extreme {
	return pick(k, rows, func(candidate, best float64) bool { return candidate < best })
}

func pick(k metric.Kind, rows []models.Reading, better func(candidate, best float64) bool) *models.Extreme {
	if len(rows) == 0 {
		return nil
	}
	best := rows[0]
	for _, r := range rows[1:] {
		v, bv := k.Value(r), k.Value(best)
		if better(v, bv) || (v == bv && r.ID < best.ID) {
			best = r
		}
	}
	e := extreme(k, best)
	return &e
}

// HighestAll returns every reading sharing the largest value of k, ordered by id.
func HighestAll(k metric.Kind, rows []models.Reading) []models.Extreme {
	top := Highest(k, rows)
	if top == nil {
		return []models.Extreme{}
	}
	return matching(k, rows, top.Value)
}

// LowestAll returns every reading sharing the smallest value of k, ordered by id.
func LowestAll(k metric.Kind, rows []models.Reading) []models.Extreme {
	bottom := Lowest(k, rows)
	if bottom == nil {
		return []models.Extreme{}
	}
	return matching(k, rows, bottom.Value)
}

func matching(k metric.Kind, rows []models.Reading, value float64) []models.Extreme {
	out := make([]models.Extreme, 0, 1)
	for _, r := range byID(rows) {
		if k.Value(r) == value {
			out = append(out, extreme(k, r))
		}
	}
	return out
}

// Average returns the arithmetic mean of k, nil for no rows.
func Average(k metric.Kind, rows []models.Reading) *float64 {
	if len(rows) == 0 {
		return nil
	}
	var sum float64
	for _, r := range rows {
		sum += k.Value(r)
	}
	avg := sum / float64(len(rows))
	return &avg
}

// Insights returns highest and lowest readings, ties included, for every metric keyed by metric name.
func Insights(rows []models.Reading) map[string]models.MetricInsight {
	out := make(map[string]models.MetricInsight, len(metric.All()))
	for _, k := range metric.All() {
		out[k.String()] = models.MetricInsight{
			Highest: HighestAll(k, rows),
			Lowest:  LowestAll(k, rows),
		}
	}
	return out
}

func extreme(k metric.Kind, r models.Reading) models.Extreme {
	return models.Extreme{
		Metric:    k.String(),
		Value:     k.Value(r),
		Location:  r.Location,
		Timestamp: r.Timestamp(),
		ReadingID: r.ID,
	}
}

func byID(rows []models.Reading) []models.Reading {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b models.Reading) int { return cmp.Compare(a.ID, b.ID) })
	return sorted
}
