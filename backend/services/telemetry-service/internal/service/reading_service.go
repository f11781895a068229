package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"water360/backend/libs/metrics"
	"water360/backend/libs/validation"
	"water360/backend/services/telemetry-service/internal/aggregate"
	"water360/backend/services/telemetry-service/internal/metric"
	"water360/backend/services/telemetry-service/internal/models"
	"water360/backend/services/telemetry-service/internal/repository"
)

const (
	defaultWindow      = 24 * time.Hour
	defaultRecentLimit = 5

	// MaxCompareLocations bounds one comparison request.
	MaxCompareLocations = 50
)

// ReadingStore is the persistence contract the service relies on.
type ReadingStore interface {
	Insert(ctx context.Context, reading *models.Reading) error
	Get(ctx context.Context, id int64) (*models.Reading, error)
	Query(ctx context.Context, filter models.ReadingFilter) ([]models.Reading, error)
	Latest(ctx context.Context, limit int) ([]models.Reading, error)
	Update(ctx context.Context, id int64, patch models.ReadingPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// Options tunes the service. Zero values select defaults.
type Options struct {
	Window      time.Duration
	RecentLimit int
	Now         func() time.Time
}

// ReadingService answers dashboard queries over the reading store.
// Each call samples the clock once so every aggregate it returns shares one window.
type ReadingService struct {
	store       ReadingStore
	window      time.Duration
	recentLimit int
	now         func() time.Time
	logger      *zap.Logger
}

// NewReadingService builds ReadingService.
func NewReadingService(store ReadingStore, opts Options, logger *zap.Logger) *ReadingService {
	if opts.Window <= 0 {
		opts.Window = defaultWindow
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = defaultRecentLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ReadingService{
		store:       store,
		window:      opts.Window,
		recentLimit: opts.RecentLimit,
		now:         opts.Now,
		logger:      logger,
	}
}

// DashboardStats summarises the rolling window.
func (s *ReadingService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.now().UTC()
	rows, err := s.windowRows(ctx, "dashboard_stats", now, models.ReadingFilter{})
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		TotalReadings24h: aggregate.Count(rows),
		HighestPH:        aggregate.Highest(metric.PH, rows),
		HighestTemp:      aggregate.Highest(metric.Temperature, rows),
		HighestTurbidity: aggregate.Highest(metric.Turbidity, rows),
		AvgPH:            aggregate.Average(metric.PH, rows),
		AvgTemp:          aggregate.Average(metric.Temperature, rows),
		AvgTurbidity:     aggregate.Average(metric.Turbidity, rows),
		WindowStart:      now.Add(-s.window),
		WindowEnd:        now,
	}, nil
}

// TimeSeries returns daily averages of one metric for one location.
func (s *ReadingService) TimeSeries(ctx context.Context, q SeriesQuery) ([]models.SeriesPoint, error) {
	kind, err := metric.Parse(q.Metric)
	if err != nil {
		return nil, err
	}
	location := strings.TrimSpace(q.Location)
	if location == "" {
		return nil, invalid("location", "is required")
	}
	from, to, err := dateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return []models.SeriesPoint{}, nil
	}

	rows, err := s.query(ctx, "time_series", models.ReadingFilter{Location: location, DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, err
	}
	return aggregate.Series(kind, rows), nil
}

// CompareSeries returns daily averages for each requested location. Every
// requested location is present in the result, with an empty series when it has no data.
func (s *ReadingService) CompareSeries(ctx context.Context, q CompareQuery) (map[string][]models.SeriesPoint, error) {
	kind, err := metric.Parse(q.Metric)
	if err != nil {
		return nil, err
	}
	locations := cleanLocations(q.Locations)
	if len(locations) == 0 {
		return nil, invalid("locations", "at least one location is required")
	}
	if len(locations) > MaxCompareLocations {
		return nil, invalid("locations", fmt.Sprintf("at most %d locations may be compared", MaxCompareLocations))
	}
	from, to, err := dateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return aggregate.MultiSeries(kind, locations, nil), nil
	}

	rows, err := s.query(ctx, "compare_series", models.ReadingFilter{Locations: locations, DateFrom: &from, DateTo: &to})
	if err != nil {
		return nil, err
	}
	return aggregate.MultiSeries(kind, locations, rows), nil
}

// HighestValues returns the all-time maximum of each metric, ignoring the rolling window.
func (s *ReadingService) HighestValues(ctx context.Context) (*models.HighestValues, error) {
	rows, err := s.query(ctx, "highest_values", models.ReadingFilter{})
	if err != nil {
		return nil, err
	}
	return &models.HighestValues{
		HighestPH:        aggregate.Highest(metric.PH, rows),
		HighestTemp:      aggregate.Highest(metric.Temperature, rows),
		HighestTurbidity: aggregate.Highest(metric.Turbidity, rows),
	}, nil
}

// Warnings evaluates the rolling window against the safe ranges.
func (s *ReadingService) Warnings(ctx context.Context) ([]models.Warning, error) {
	rows, err := s.windowRows(ctx, "warnings", s.now().UTC(), models.ReadingFilter{})
	if err != nil {
		return nil, err
	}
	warnings := aggregate.Evaluate(rows)
	for _, w := range warnings {
		metrics.WarningsEmitted.WithLabelValues(w.Metric).Inc()
	}
	return warnings, nil
}

// Correlation returns aligned metric arrays for one location over the rolling window.
func (s *ReadingService) Correlation(ctx context.Context, location string) (models.CorrelationData, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return models.CorrelationData{}, invalid("location", "is required")
	}
	rows, err := s.windowRows(ctx, "correlation", s.now().UTC(), models.ReadingFilter{Location: location})
	if err != nil {
		return models.CorrelationData{}, err
	}
	return aggregate.Correlate(rows), nil
}

// SummaryInsights lists every reading sharing each metric's extreme values in the rolling window.
func (s *ReadingService) SummaryInsights(ctx context.Context) (map[string]models.MetricInsight, error) {
	rows, err := s.windowRows(ctx, "summary_insights", s.now().UTC(), models.ReadingFilter{})
	if err != nil {
		return nil, err
	}
	return aggregate.Insights(rows), nil
}

// Recent returns the latest readings by insertion time.
func (s *ReadingService) Recent(ctx context.Context) ([]models.Reading, error) {
	rows, err := s.store.Latest(ctx, s.recentLimit)
	if err != nil {
		return nil, s.storeError("recent", err)
	}
	return rows, nil
}

// Last24Hours returns the rolling window newest first.
func (s *ReadingService) Last24Hours(ctx context.Context) ([]models.Reading, error) {
	rows, err := s.windowRows(ctx, "last_24_hours", s.now().UTC(), models.ReadingFilter{})
	if err != nil {
		return nil, err
	}
	return aggregate.NewestFirst(rows), nil
}

// LocationCounts returns readings per location in the rolling window.
func (s *ReadingService) LocationCounts(ctx context.Context) ([]models.LocationCount, error) {
	rows, err := s.windowRows(ctx, "location_counts", s.now().UTC(), models.ReadingFilter{})
	if err != nil {
		return nil, err
	}
	return aggregate.LocationCounts(rows), nil
}

// List returns readings filtered by location and date, newest id first.
func (s *ReadingService) List(ctx context.Context, q ListQuery) ([]models.Reading, error) {
	filter := models.ReadingFilter{Location: strings.TrimSpace(q.Location)}
	if strings.TrimSpace(q.Date) != "" {
		day, err := parseDate("date", q.Date)
		if err != nil {
			return nil, err
		}
		filter.DateFrom, filter.DateTo = &day, &day
	}
	rows, err := s.query(ctx, "list", filter)
	if err != nil {
		return nil, err
	}
	return aggregate.ByIDDesc(rows), nil
}

// Get returns one reading.
func (s *ReadingService) Get(ctx context.Context, id int64) (*models.Reading, error) {
	if id <= 0 {
		return nil, invalid("id", "must be a positive integer")
	}
	reading, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReadingNotFound) {
			return nil, ErrNotFound
		}
		return nil, s.storeError("get", err)
	}
	return reading, nil
}

// Create validates field presence and stores a new reading.
func (s *ReadingService) Create(ctx context.Context, in CreateReadingInput) (int64, error) {
	in.Location = strings.TrimSpace(in.Location)
	in.Date = strings.TrimSpace(in.Date)
	in.Time = normalizeTime(in.Time)
	if err := validation.Struct(in); err != nil {
		return 0, validationFailure(err)
	}

	reading := &models.Reading{
		PHValue:     *in.PHValue,
		Temperature: *in.Temperature,
		Turbidity:   *in.Turbidity,
		Location:    in.Location,
		Date:        in.Date,
		Time:        in.Time,
	}
	if err := s.store.Insert(ctx, reading); err != nil {
		return 0, s.storeError("insert", err)
	}

	metrics.ReadingsIngested.Inc()
	s.logger.Debug("reading stored", zap.Int64("reading_id", reading.ID), zap.String("location", reading.Location))
	return reading.ID, nil
}

// Update changes the given columns and returns the number of affected rows.
// An unknown id affects nothing and is not an error.
func (s *ReadingService) Update(ctx context.Context, id int64, in UpdateReadingInput) (int64, error) {
	if id <= 0 {
		return 0, invalid("id", "must be a positive integer")
	}
	if in.Location != nil {
		trimmed := strings.TrimSpace(*in.Location)
		in.Location = &trimmed
	}
	if in.Time != nil {
		normalized := normalizeTime(*in.Time)
		in.Time = &normalized
	}
	if err := validation.Struct(in); err != nil {
		return 0, validationFailure(err)
	}
	patch := in.patch()
	if patch.Empty() {
		return 0, invalid("", "at least one field is required")
	}

	affected, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return 0, s.storeError("update", err)
	}
	s.logger.Info("reading updated", zap.Int64("reading_id", id), zap.Int64("affected", affected))
	return affected, nil
}

// Delete removes a reading and returns the number of affected rows; repeating it yields 0.
func (s *ReadingService) Delete(ctx context.Context, id int64) (int64, error) {
	if id <= 0 {
		return 0, invalid("id", "must be a positive integer")
	}
	affected, err := s.store.Delete(ctx, id)
	if err != nil {
		return 0, s.storeError("delete", err)
	}
	s.logger.Info("reading deleted", zap.Int64("reading_id", id), zap.Int64("affected", affected))
	return affected, nil
}

func (s *ReadingService) windowRows(ctx context.Context, op string, now time.Time, filter models.ReadingFilter) ([]models.Reading, error) {
	start := now.Add(-s.window)
	filter.CreatedAfter = &start
	return s.query(ctx, op, filter)
}

func (s *ReadingService) query(ctx context.Context, op string, filter models.ReadingFilter) ([]models.Reading, error) {
	rows, err := s.store.Query(ctx, filter)
	if err != nil {
		return nil, s.storeError(op, err)
	}
	return rows, nil
}

func (s *ReadingService) storeError(op string, err error) error {
	metrics.StoreErrors.WithLabelValues(op).Inc()
	s.logger.Error("reading store failed", zap.String("op", op), zap.Error(err))
	return &StoreError{Op: op, Err: err}
}

func dateRange(start, end string) (time.Time, time.Time, error) {
	from, err := parseDate("start_date", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := parseDate("end_date", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
