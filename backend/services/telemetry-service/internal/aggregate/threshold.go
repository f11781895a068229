package aggregate

import (
	"fmt"
	"strings"

	"water360/backend/services/telemetry-service/internal/metric"
	"water360/backend/services/telemetry-service/internal/models"
)

// Evaluate checks every reading against the fixed safe ranges and returns one
// warning per metric with violations, in pH, temperature, turbidity order.
// Locations are listed once, in order of their first violating reading.
func Evaluate(rows []models.Reading) []models.Warning {
	sorted := byID(rows)
	warnings := make([]models.Warning, 0, len(metric.All()))

	for _, k := range metric.All() {
		limits := k.SafeRange()
		seen := make(map[string]struct{})
		var locations []string
		for _, r := range sorted {
			if limits.Contains(k.Value(r)) {
				continue
			}
			key := NormalizeLocation(r.Location)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			locations = append(locations, r.Location)
		}
		if len(locations) == 0 {
			continue
		}
		warnings = append(warnings, models.Warning{
			Metric:    k.String(),
			Locations: locations,
			Message:   fmt.Sprintf("%s out of safe limits in: %s", k.Title(), strings.Join(locations, ", ")),
		})
	}
	return warnings
}
