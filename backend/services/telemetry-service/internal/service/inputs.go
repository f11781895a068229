package service

import (
	"errors"
	"strings"
	"time"

	"water360/backend/libs/validation"
	"water360/backend/services/telemetry-service/internal/models"
)

const dateLayout = "2006-01-02"

// SeriesQuery selects one location's daily averages.
type SeriesQuery struct {
	Metric    string
	Location  string
	StartDate string
	EndDate   string
}

// CompareQuery selects daily averages for several locations.
type CompareQuery struct {
	Metric    string
	Locations []string
	StartDate string
	EndDate   string
}

// ListQuery filters the plain reading listing.
type ListQuery struct {
	Location string
	Date     string
}

// CreateReadingInput is the insert payload. Numeric fields are pointers so that
// absence can be told apart from zero.
type CreateReadingInput struct {
	PHValue     *float64 `json:"ph_value" validate:"required"`
	Temperature *float64 `json:"temperature" validate:"required"`
	Turbidity   *float64 `json:"turbidity" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string   `json:"time" validate:"required,datetime=15:04:05"`
}

// UpdateReadingInput carries the columns to change; nil means unchanged.
type UpdateReadingInput struct {
	PHValue     *float64 `json:"ph_value"`
	Temperature *float64 `json:"temperature"`
	Turbidity   *float64 `json:"turbidity"`
	Location    *string  `json:"location" validate:"omitnil,min=1"`
	Date        *string  `json:"date" validate:"omitnil,datetime=2006-01-02"`
	Time        *string  `json:"time" validate:"omitnil,datetime=15:04:05"`
}

func (in UpdateReadingInput) patch() models.ReadingPatch {
	return models.ReadingPatch{
		PHValue:     in.PHValue,
		Temperature: in.Temperature,
		Turbidity:   in.Turbidity,
		Location:    in.Location,
		Date:        in.Date,
		Time:        in.Time,
	}
}

// normalizeTime accepts "HH:MM" as well as "HH:MM:SS".
func normalizeTime(v string) string {
	v = strings.TrimSpace(v)
	if len(v) == len("15:04") {
		return v + ":00"
	}
	return v
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalid(field, "is required")
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, invalid(field, "must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// cleanLocations trims, drops blanks and removes exact duplicates, keeping order.
func cleanLocations(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, loc := range raw {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	return out
}

func validationFailure(err error) error {
	var verrs validation.Errors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return invalid(verrs[0].Field, strings.TrimPrefix(verrs[0].Message, verrs[0].Field+" "))
	}
	return invalid("", err.Error())
}
