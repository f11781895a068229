package models

import "time"

// Reading is one sensor observation. Date and Time are caller supplied;
// CreatedAt is assigned by the store and drives window queries.
type Reading struct {
	ID          int64     `db:"id" json:"id"`
	PHValue     float64   `db:"ph_value" json:"ph_value"`
	Temperature float64   `db:"temperature" json:"temperature"`
	Turbidity   float64   `db:"turbidity" json:"turbidity"`
	Location    string    `db:"location" json:"location"`
	Date        string    `db:"date" json:"date"`
	Time        string    `db:"time" json:"time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Timestamp renders the caller supplied date and time as "YYYY-MM-DD HH:MM:SS".
func (r Reading) Timestamp() string {
	return r.Date + " " + r.Time
}

// ReadingFilter narrows a store query. Zero values mean "no constraint".
// Location and Locations match case-insensitively; date bounds apply to Date,
// created bounds to CreatedAt.
type ReadingFilter struct {
	Location      string
	Locations     []string
	DateFrom      *time.Time
	DateTo        *time.Time
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

// ReadingPatch lists the columns an update may touch. Nil fields are left as is.
type ReadingPatch struct {
	PHValue     *float64
	Temperature *float64
	Turbidity   *float64
	Location    *string
	Date        *string
	Time        *string
}

// Empty reports whether the patch changes nothing.
func (p ReadingPatch) Empty() bool {
	return p.PHValue == nil && p.Temperature == nil && p.Turbidity == nil &&
		p.Location == nil && p.Date == nil && p.Time == nil
}
