package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"water360/backend/services/telemetry-service/internal/models"
)

const dateLayout = "2006-01-02"

var (
	// ErrReadingNotFound is returned by Get for an unknown id.
	ErrReadingNotFound = errors.New("reading not found")
	// ErrEmptyPatch is returned by Update when no column would change.
	ErrEmptyPatch = errors.New("reading patch is empty")
)

// ReadingRepository persists readings in Postgres.
type ReadingRepository struct {
	db *sqlx.DB
}

// NewReadingRepository returns repository.
func NewReadingRepository(db *sqlx.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Insert stores reading and fills its ID and CreatedAt.
func (r *ReadingRepository) Insert(ctx context.Context, reading *models.Reading) error {
	return r.db.QueryRowxContext(ctx, queryInsertReading,
		reading.PHValue,
		reading.Temperature,
		reading.Turbidity,
		reading.Location,
		reading.Date,
		reading.Time,
	).Scan(&reading.ID, &reading.CreatedAt)
}

// Get fetches one reading by id.
func (r *ReadingRepository) Get(ctx context.Context, id int64) (*models.Reading, error) {
	var reading models.Reading
	if err := r.db.GetContext(ctx, &reading, queryGetReading, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReadingNotFound
		}
		return nil, err
	}
	return &reading, nil
}

// Query returns readings matching filter ordered by id.
func (r *ReadingRepository) Query(ctx context.Context, filter models.ReadingFilter) ([]models.Reading, error) {
	query, args, err := buildSelect(filter)
	if err != nil {
		return nil, err
	}

	rows := []models.Reading{}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Latest returns the newest readings by insertion time.
func (r *ReadingRepository) Latest(ctx context.Context, limit int) ([]models.Reading, error) {
	rows := []models.Reading{}
	if err := r.db.SelectContext(ctx, &rows, queryLatestReadings, limit); err != nil {
		return nil, err
	}
	return rows, nil
}

// Update applies patch and returns the number of affected rows (0 for an unknown id).
func (r *ReadingRepository) Update(ctx context.Context, id int64, patch models.ReadingPatch) (int64, error) {
	sets, args := buildSet(patch)
	if len(sets) == 0 {
		return 0, ErrEmptyPatch
	}
	query := "UPDATE sensor_data SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes a reading and returns the number of affected rows (0 for an unknown id).
func (r *ReadingRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, queryDeleteReading, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func buildSelect(f models.ReadingFilter) (string, []interface{}, error) {
	var (
		where []string
		args  []interface{}
		in    bool
	)

	if loc := strings.TrimSpace(f.Location); loc != "" {
		where = append(where, whereLocation)
		args = append(args, loc)
	}
	if len(f.Locations) > 0 {
		trimmed := make([]string, 0, len(f.Locations))
		for _, loc := range f.Locations {
			trimmed = append(trimmed, strings.TrimSpace(loc))
		}
		where = append(where, whereLocationIn)
		args = append(args, trimmed)
		in = true
	}
	if f.DateFrom != nil {
		where = append(where, whereDateFrom)
		args = append(args, f.DateFrom.Format(dateLayout))
	}
	if f.DateTo != nil {
		where = append(where, whereDateTo)
		args = append(args, f.DateTo.Format(dateLayout))
	}
	if f.CreatedAfter != nil {
		where = append(where, whereCreatedAfter)
		args = append(args, *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		where = append(where, whereCreatedBefore)
		args = append(args, *f.CreatedBefore)
	}

	query := querySelectReadings
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	if !in {
		return query, args, nil
	}
	return sqlx.In(query, args...)
}

func buildSet(p models.ReadingPatch) ([]string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	if p.PHValue != nil {
		sets = append(sets, setPHValue)
		args = append(args, *p.PHValue)
	}
	if p.Temperature != nil {
		sets = append(sets, setTemperature)
		args = append(args, *p.Temperature)
	}
	if p.Turbidity != nil {
		sets = append(sets, setTurbidity)
		args = append(args, *p.Turbidity)
	}
	if p.Location != nil {
		sets = append(sets, setLocation)
		args = append(args, *p.Location)
	}
	if p.Date != nil {
		sets = append(sets, setDate)
		args = append(args, *p.Date)
	}
	if p.Time != nil {
		sets = append(sets, setTime)
		args = append(args, *p.Time)
	}
	return sets, args
}
