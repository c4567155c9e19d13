package cron_feature

import (
	"time"
)

const InactivityJobName = "automation.inactivity"

// JobStatus is a snapshot of the scheduled inactivity pass.
type JobStatus struct {
	Name             string     `json:"name"`
	Schedule         string     `json:"schedule"`
	Enabled          bool       `json:"enabled"`
	Running          bool       `json:"running"`
	LastRun          *time.Time `json:"last_run,omitempty"`
	LastRunID        string     `json:"last_run_id,omitempty"`
	LastLeadsUpdated int        `json:"last_leads_updated"`
	LastError        string     `json:"last_error,omitempty"`
	NextRun          *time.Time `json:"next_run,omitempty"`
}
