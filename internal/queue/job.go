package queue

import (
	"encoding/json"
	"time"
)

type JobType string

// JobType constants - different types of worker jobs
const (
	// JobTypeRefreshBugs rebuilds the default product bug snapshot
	JobTypeRefreshBugs = JobType("refresh_bugs")
	// JobTypeRefreshMultiArch rebuilds the multi-arch product bug snapshot
	JobTypeRefreshMultiArch = JobType("refresh_multi_arch")
)

// RefreshJobTypes lists the jobs a full snapshot refresh publishes
var RefreshJobTypes = []JobType{JobTypeRefreshBugs, JobTypeRefreshMultiArch}

// Job represents a unit of work
type Job struct {
	ID         string
	Type       JobType
	Payload    map[string]interface{}
	CreatedAt  time.Time
	Retries    int
	MaxRetries int
}

// CanRetry reports whether a failed job may be queued again
func (j *Job) CanRetry() bool {
	return j.Retries < j.MaxRetries
}

// ToJSON - Convert job to JSON string for Redis storage
func (j *Job) ToJSON() (string, error) {
	bytes, err := json.Marshal(j)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// FromJSON - Parse JSON string back to Job
func FromJSON(data string) (*Job, error) {
	var job Job
	err := json.Unmarshal([]byte(data), &job)
	if err != nil {
		return nil, err
	}
	return &job, nil
}
