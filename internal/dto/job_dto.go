package dto

import "time"

type JobDetail struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Company       string `json:"company"`
	Location      string `json:"location"`
	Salary        string `json:"salary"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	Qualification string `json:"qualification"`
	Experience    string `json:"experience"`
	DatePosted    string `json:"date_posted"`
	ApplyURL      string `json:"apply_url"`
}

type JobsStats struct {
	TotalJobs       int       `json:"total_jobs"`
	UniqueCompanies int       `json:"unique_companies"`
	UniqueLocations int       `json:"unique_locations"`
	LastUpdated     time.Time `json:"last_updated"`
}

type ReloadResult struct {
	JobsCount int `json:"jobs_count"`
}

type HealthStatus struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Database    string    `json:"database"`
	CorpusState string    `json:"corpus_state"`
	JobsLoaded  bool      `json:"jobs_loaded"`
	JobsCount   int       `json:"jobs_count"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
