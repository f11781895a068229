package aggregate

import (
	"reflect"
	"testing"
	"time"

	"water360/backend/services/telemetry-service/internal/metric"
	"water360/backend/services/telemetry-service/internal/models"
)

func reading(id int64, loc, date string, ph, temp, turb float64) models.Reading {
	return models.Reading{
		ID:          id,
		PHValue:     ph,
		Temperature: temp,
		Turbidity:   turb,
		Location:    loc,
		Date:        date,
		Time:        "06:00:00",
		CreatedAt:   time.Date(2024, 11, 1, 6, 0, int(id), 0, time.UTC),
	}
}

func TestHighestLowest(t *testing.T) {
	rows := []models.Reading{
		reading(3, "us", "2024-11-01", 7.0, 20.0, 3.0),
		reading(1, "uk", "2024-11-01", 7.2, 32.5, 2.0),
		reading(2, "fr", "2024-11-01", 6.9, 32.5, 2.0),
	}

	top := Highest(metric.Temperature, rows)
	if top == nil || top.Value != 32.5 || top.Location != "uk" || top.ReadingID != 1 {
		t.Fatalf("unexpected highest temperature %+v", top)
	}
	if top.Timestamp != "2024-11-01 06:00:00" || top.Metric != "temperature" {
		t.Fatalf("unexpected timestamp/metric %+v", top)
	}

	low := Lowest(metric.Turbidity, rows)
	if low == nil || low.Value != 2.0 || low.ReadingID != 1 {
		t.Fatalf("expected lowest-id tie winner, got %+v", low)
	}

	if Highest(metric.PH, nil) != nil || Lowest(metric.PH, nil) != nil {
		t.Fatal("expected nil extremes for empty window")
	}
}

func TestTieBreakIsOrderIndependent(t *testing.T) {
	a := reading(5, "a", "2024-11-01", 8.0, 1, 1)
	b := reading(9, "b", "2024-11-01", 8.0, 1, 1)

	first := Highest(metric.PH, []models.Reading{a, b})
	second := Highest(metric.PH, []models.Reading{b, a})
	if first.ReadingID != 5 || second.ReadingID != 5 {
		t.Fatalf("expected id 5 both times, got %d and %d", first.ReadingID, second.ReadingID)
	}
}

func TestHighestAllLowestAll(t *testing.T) {
	rows := []models.Reading{
		reading(4, "b", "2024-11-01", 8.0, 10, 1),
		reading(2, "a", "2024-11-01", 8.0, 12, 1),
		reading(3, "c", "2024-11-01", 6.0, 12, 1),
	}

	high := HighestAll(metric.PH, rows)
	if len(high) != 2 || high[0].ReadingID != 2 || high[1].ReadingID != 4 {
		t.Fatalf("unexpected highest set %+v", high)
	}
	low := LowestAll(metric.PH, rows)
	if len(low) != 1 || low[0].Location != "c" {
		t.Fatalf("unexpected lowest set %+v", low)
	}
	if got := HighestAll(metric.PH, nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}

	insights := Insights(rows)
	if len(insights) != 3 {
		t.Fatalf("expected three metrics, got %d", len(insights))
	}
	if len(insights["temperature"].Highest) != 2 {
		t.Fatalf("expected temperature tie, got %+v", insights["temperature"])
	}
}

func TestAverage(t *testing.T) {
	if got := Average(metric.PH, nil); got != nil {
		t.Fatalf("expected nil average over empty window, got %v", *got)
	}

	rows := []models.Reading{
		reading(1, "a", "2024-11-01", 7.0, 10, 1),
		reading(2, "a", "2024-11-01", 8.0, 20, 3),
	}
	got := Average(metric.Temperature, rows)
	if got == nil || *got != 15 {
		t.Fatalf("expected 15, got %v", got)
	}
	if Count(rows) != 2 {
		t.Fatalf("expected count 2, got %d", Count(rows))
	}
}

func TestSeriesSortedAndUnique(t *testing.T) {
	rows := []models.Reading{
		reading(1, "us", "2024-11-03", 7.0, 0, 0),
		reading(2, "us", "2024-11-01", 6.0, 0, 0),
		reading(3, "us", "2024-11-03", 8.0, 0, 0),
		reading(4, "us", "2024-11-02", 7.5, 0, 0),
	}

	got := Series(metric.PH, rows)
	want := []models.SeriesPoint{
		{Date: "2024-11-01", Value: 6.0},
		{Date: "2024-11-02", Value: 7.5},
		{Date: "2024-11-03", Value: 7.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("series mismatch:\n got %+v\nwant %+v", got, want)
	}

	if empty := Series(metric.PH, nil); empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil series, got %#v", empty)
	}
}

func TestMultiSeriesKeepsRequestedKeys(t *testing.T) {
	rows := []models.Reading{
		reading(1, "UK", "2024-11-01", 7.0, 0, 0),
		reading(2, "us", "2024-11-01", 8.0, 0, 0),
		reading(3, "uk", "2024-11-02", 6.0, 0, 0),
	}

	got := MultiSeries(metric.PH, []string{"uk", "mars"}, rows)
	if len(got) != 2 {
		t.Fatalf("expected two keys, got %v", got)
	}
	if len(got["uk"]) != 2 || got["uk"][0].Value != 7.0 {
		t.Fatalf("unexpected uk series %+v", got["uk"])
	}
	mars, ok := got["mars"]
	if !ok || mars == nil || len(mars) != 0 {
		t.Fatalf("expected empty series for unknown location, got %#v (present=%v)", mars, ok)
	}
	if _, ok := got["us"]; ok {
		t.Fatal("unrequested location must not appear")
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("single pH violation", func(t *testing.T) {
		rows := []models.Reading{
			reading(1, "uk", "2024-11-01", 9.0, 20, 3),
			reading(2, "us", "2024-11-01", 7.0, 20, 3),
		}
		got := Evaluate(rows)
		if len(got) != 1 {
			t.Fatalf("expected one warning, got %+v", got)
		}
		if got[0].Metric != "ph_value" || !reflect.DeepEqual(got[0].Locations, []string{"uk"}) {
			t.Fatalf("unexpected warning %+v", got[0])
		}
		if got[0].Message != "Ph Value out of safe limits in: uk" {
			t.Fatalf("unexpected message %q", got[0].Message)
		}
	})

	t.Run("no violations", func(t *testing.T) {
		rows := []models.Reading{reading(1, "uk", "2024-11-01", 6.5, 33, 5)}
		got := Evaluate(rows)
		if got == nil || len(got) != 0 {
			t.Fatalf("expected empty non-nil sequence, got %#v", got)
		}
	})

	t.Run("fixed order and distinct locations", func(t *testing.T) {
		rows := []models.Reading{
			reading(4, "fr", "2024-11-01", 7.0, 20, 0.5),
			reading(1, "uk", "2024-11-01", 7.0, 40, 3),
			reading(2, "UK", "2024-11-01", 5.0, 35, 3),
			reading(3, "us", "2024-11-01", 7.0, -1, 9),
		}
		got := Evaluate(rows)
		if len(got) != 3 {
			t.Fatalf("expected three warnings, got %+v", got)
		}
		order := []string{got[0].Metric, got[1].Metric, got[2].Metric}
		if !reflect.DeepEqual(order, []string{"ph_value", "temperature", "turbidity"}) {
			t.Fatalf("unexpected order %v", order)
		}
		if !reflect.DeepEqual(got[1].Locations, []string{"uk", "us"}) {
			t.Fatalf("expected case-insensitive distinct locations, got %v", got[1].Locations)
		}
		if !reflect.DeepEqual(got[2].Locations, []string{"us", "fr"}) {
			t.Fatalf("expected first-violation order, got %v", got[2].Locations)
		}
		if got[2].Message != "Turbidity out of safe limits in: us, fr" {
			t.Fatalf("unexpected message %q", got[2].Message)
		}
	})
}

func TestCorrelateAligned(t *testing.T) {
	rows := []models.Reading{
		reading(2, "us", "2024-11-01", 7.2, 21, 3.5),
		reading(1, "us", "2024-11-01", 7.0, 20, 3.0),
	}
	got := Correlate(rows)
	want := models.CorrelationData{
		TemperatureValues: []float64{20, 21},
		TurbidityValues:   []float64{3.0, 3.5},
		PHValues:          []float64{7.0, 7.2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("correlation mismatch:\n got %+v\nwant %+v", got, want)
	}

	empty := Correlate(nil)
	if empty.PHValues == nil || len(empty.PHValues) != 0 {
		t.Fatalf("expected empty non-nil arrays, got %#v", empty)
	}
}

func TestLocationCountsAndOrdering(t *testing.T) {
	rows := []models.Reading{
		reading(1, "us", "2024-11-01", 7, 20, 3),
		reading(2, "uk", "2024-11-01", 7, 20, 3),
		reading(3, "UK", "2024-11-01", 7, 20, 3),
		reading(4, "fr", "2024-11-01", 7, 20, 3),
	}
	got := LocationCounts(rows)
	want := []models.LocationCount{{Location: "uk", Count: 2}, {Location: "fr", Count: 1}, {Location: "us", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("counts mismatch: got %+v want %+v", got, want)
	}

	newest := NewestFirst(rows)
	if newest[0].ID != 4 || newest[3].ID != 1 {
		t.Fatalf("unexpected newest-first order %+v", newest)
	}
	desc := ByIDDesc(rows)
	if desc[0].ID != 4 {
		t.Fatalf("unexpected id-desc order %+v", desc)
	}
}
