package repository

// SQL for the sensor_data table. Dynamic queries are assembled from these
// fragments only; caller input always travels as a bind parameter.
const (
	readingColumns = `id, ph_value, temperature, turbidity, location,
       to_char(date, 'YYYY-MM-DD') AS date,
       to_char(time, 'HH24:MI:SS') AS time,
       created_at`

	queryInsertReading = `
INSERT INTO sensor_data (ph_value, temperature, turbidity, location, date, time)
VALUES ($1, $2, $3, $4, $5::date, $6::time)
RETURNING id, created_at`

	queryGetReading = `SELECT ` + readingColumns + ` FROM sensor_data WHERE id = $1`

	queryLatestReadings = `SELECT ` + readingColumns + `
FROM sensor_data
ORDER BY created_at DESC, id DESC
LIMIT $1`

	querySelectReadings = `SELECT ` + readingColumns + ` FROM sensor_data`

	queryDeleteReading = `DELETE FROM sensor_data WHERE id = $1`

	// Filter predicates, written with ? placeholders and rebound per driver.
	// Location matches fold both sides in SQL.
	whereLocation      = `LOWER(location) = LOWER(?::text)`
	whereLocationIn    = `LOWER(location) IN (SELECT LOWER(loc) FROM unnest(ARRAY[?]::text[]) AS loc)`
	whereDateFrom      = `date >= ?::date`
	whereDateTo        = `date <= ?::date`
	whereCreatedAfter  = `created_at >= ?`
	whereCreatedBefore = `created_at < ?`

	// Updatable columns.
	setPHValue     = `ph_value = ?`
	setTemperature = `temperature = ?`
	setTurbidity   = `turbidity = ?`
	setLocation    = `location = ?`
	setDate        = `date = ?::date`
	setTime        = `time = ?::time`
)
