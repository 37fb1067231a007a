package models

import "time"

// CalcRecord is one stored price estimate from the calculator tool.
// Records are kept in a bounded list, newest first.
type CalcRecord struct {
	Guests    int       `json:"guests"`
	Hours     int       `json:"hours"`
	Activity  string    `json:"activity"`
	PerGuest  float64   `json:"per_guest"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
