// Package model defines the records shared by the scoring, weighting and
// deduplication subsystems.
package model

import "time"

// Deal is an acquisition target being marketed to a buyer universe.
type Deal struct {
	ID            string    `json:"id"`
	TrackerID     string    `json:"tracker_id"`
	Title         string    `json:"title"`
	Geography     []string  `json:"geography"`
	LocationCount int       `json:"location_count"`
	Headquarters  string    `json:"headquarters"`
	Revenue       *float64  `json:"revenue,omitempty"`
	EBITDA        *float64  `json:"ebitda,omitempty"`
	ServiceMix    string    `json:"service_mix"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Locations returns the deal's location count, treating unset values as a
// single location.
func (d *Deal) Locations() int {
	if d.LocationCount < 1 {
		return 1
	}
	return d.LocationCount
}
