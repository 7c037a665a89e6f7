package domain

import "time"

// CycleSummary is the result of one evaluation pass.
type CycleSummary struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Count       int       `json:"count"`
	Messages    []string  `json:"messages"`
	Dispatched  bool      `json:"dispatched"`
	DispatchErr string    `json:"dispatch_error,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	Duration    string    `json:"duration"`
}
