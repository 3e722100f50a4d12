package dto

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// FlexString accepts a JSON string, number or null and keeps its text, so a
// salary can arrive as "80k-120k" or as 95000.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	switch r.Type {
	case gjson.Null:
		*f = ""
	case gjson.String:
		*f = FlexString(r.Str)
	case gjson.Number:
		*f = FlexString(r.Raw)
	default:
		return fmt.Errorf("expected string or number, got %s", r.Raw)
	}
	return nil
}

type MatchRequest struct {
	UserID          string     `json:"user_id"`
	Domain          string     `json:"domain"`
	Qualification   string     `json:"qualification"`
	Location        string     `json:"location"`
	SalaryRange     FlexString `json:"salaryRange"`
	JobType         []string   `json:"jobType"`
	ExperienceLevel string     `json:"experienceLevel"`
	Industry        []string   `json:"industry"`
	TopN            int        `json:"top_n"`
}

type MatchResult struct {
	JobID          int64   `json:"job_id"`
	JobTitle       string  `json:"job_title"`
	JobDescription string  `json:"job_description"`
	MatchScore     float64 `json:"match_score"`
	Salary         string  `json:"salary"`
	Location       string  `json:"location"`
	Experience     string  `json:"experience"`
	DatePosted     string  `json:"date_posted"`
	WorkType       string  `json:"work_type"`
	OrgName        string  `json:"org_name"`
	ApplyLink      string  `json:"apply_link"`
}
