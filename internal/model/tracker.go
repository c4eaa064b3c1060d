package model

import "time"

// Tracker is a buyer universe: a named set of candidate acquirers scoped to
// one industry vertical, with the service criteria its deals are judged by.
type Tracker struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Industry        string          `json:"industry"`
	ServiceCriteria ServiceCriteria `json:"service_criteria"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ServiceCriteria lists the service keywords a tracker requires, prefers and
// excludes.
type ServiceCriteria struct {
	Required  []string `json:"required" yaml:"required"`
	Preferred []string `json:"preferred" yaml:"preferred"`
	Excluded  []string `json:"excluded" yaml:"excluded"`
}

// IsEmpty reports whether no criteria are set.
func (c ServiceCriteria) IsEmpty() bool {
	return len(c.Required) == 0 && len(c.Preferred) == 0 && len(c.Excluded) == 0
}
