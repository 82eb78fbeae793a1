package jobs

import "time"

// Status is the lifecycle state of a run record.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusPublished Status = "published"
	StatusFailed    Status = "failed"
)

// Record is the queryable state of one composition run.
type Record struct {
	ID           string     `json:"id"`
	Status       Status     `json:"status"`
	Stage        string     `json:"stage,omitempty"`
	Percent      float64    `json:"percent"`
	Message      string     `json:"message,omitempty"`
	ErrorMessage string     `json:"error,omitempty"`
	ArtifactName string     `json:"artifact,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Terminal reports whether the record can no longer change.
func (r *Record) Terminal() bool {
	return r.Status == StatusPublished || r.Status == StatusFailed
}
