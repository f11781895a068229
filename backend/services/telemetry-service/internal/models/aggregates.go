package models

import "time"

// Extreme is the highest or lowest value of a metric together with where and when it was seen.
type Extreme struct {
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	Location  string  `json:"location"`
	Timestamp string  `json:"timestamp"`
	ReadingID int64   `json:"reading_id"`
}

// SeriesPoint is the mean of a metric over one calendar date.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Warning reports locations whose readings left a metric's safe range.
type Warning struct {
	Metric    string   `json:"metric"`
	Locations []string `json:"locations"`
	Message   string   `json:"message"`
}

// CorrelationData holds per-reading aligned metric values; index i of every slice is the same reading.
type CorrelationData struct {
	TemperatureValues []float64 `json:"temperature_values"`
	TurbidityValues   []float64 `json:"turbidity_values"`
	PHValues          []float64 `json:"ph_values"`
}

// LocationCount is the number of readings seen for one location.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// MetricInsight lists every reading sharing the highest and the lowest value of a metric.
type MetricInsight struct {
	Highest []Extreme `json:"highest"`
	Lowest  []Extreme `json:"lowest"`
}

// DashboardStats summarises the rolling window. Nil members mean the window was empty.
type DashboardStats struct {
	TotalReadings24h int       `json:"total_readings_24h"`
	HighestPH        *Extreme  `json:"highest_ph"`
	HighestTemp      *Extreme  `json:"highest_temp"`
	HighestTurbidity *Extreme  `json:"highest_turbidity"`
	AvgPH            *float64  `json:"avg_ph"`
	AvgTemp          *float64  `json:"avg_temp"`
	AvgTurbidity     *float64  `json:"avg_turbidity"`
	WindowStart      time.Time `json:"window_start"`
	WindowEnd        time.Time `json:"window_end"`
}

// HighestValues holds the all-time maximum of each metric. Nil members mean the store is empty.
type HighestValues struct {
	HighestPH        *Extreme `json:"highest_ph"`
	HighestTemp      *Extreme `json:"highest_temp"`
	HighestTurbidity *Extreme `json:"highest_turbidity"`
}
