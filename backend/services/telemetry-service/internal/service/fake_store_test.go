package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"water360/backend/services/telemetry-service/internal/models"
	"water360/backend/services/telemetry-service/internal/repository"
)

// memStore is an in-memory ReadingStore honouring the same filter semantics as Postgres.
type memStore struct {
	mu      sync.Mutex
	rows    []models.Reading
	nextID  int64
	now     func() time.Time
	err     error
	queries []models.ReadingFilter
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{nextID: 1, now: now}
}

// seed stores a reading with an explicit creation time.
func (m *memStore) seed(r models.Reading, createdAt time.Time) models.Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = createdAt
	m.rows = append(m.rows, r)
	return r
}

func (m *memStore) Insert(_ context.Context, r *models.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r.ID = m.nextID
	m.nextID++
	r.CreatedAt = m.now()
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memStore) Get(_ context.Context, id int64) (*models.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rows {
		if r.ID == id {
			found := r
			return &found, nil
		}
	}
	return nil, repository.ErrReadingNotFound
}

func (m *memStore) Query(_ context.Context, f models.ReadingFilter) ([]models.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, f)
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Reading{}
	for _, r := range m.rows {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Latest(_ context.Context, limit int) ([]models.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Reading{}
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id int64, p models.ReadingPatch) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	for i := range m.rows {
		if m.rows[i].ID != id {
			continue
		}
		if p.PHValue != nil {
			m.rows[i].PHValue = *p.PHValue
		}
		if p.Temperature != nil {
			m.rows[i].Temperature = *p.Temperature
		}
		if p.Turbidity != nil {
			m.rows[i].Turbidity = *p.Turbidity
		}
		if p.Location != nil {
			m.rows[i].Location = *p.Location
		}
		if p.Date != nil {
			m.rows[i].Date = *p.Date
		}
		if p.Time != nil {
			m.rows[i].Time = *p.Time
		}
		return 1, nil
	}
	return 0, nil
}

func (m *memStore) Delete(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func matches(r models.Reading, f models.ReadingFilter) bool {
	if f.Location != "" && !strings.EqualFold(r.Location, strings.TrimSpace(f.Location)) {
		return false
	}
	if len(f.Locations) > 0 {
		found := false
		for _, loc := range f.Locations {
			if strings.EqualFold(r.Location, strings.TrimSpace(loc)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.DateFrom != nil && r.Date < f.DateFrom.Format("2006-01-02") {
		return false
	}
	if f.DateTo != nil && r.Date > f.DateTo.Format("2006-01-02") {
		return false
	}
	if f.CreatedAfter != nil && r.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	if f.CreatedBefore != nil && !r.CreatedAt.Before(*f.CreatedBefore) {
		return false
	}
	return true
}
