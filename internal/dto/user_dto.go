package dto

import (
	"time"

	"github.com/fadilmartias/job-matcher/internal/profile"
)

type PreferencesRequest struct {
	UserID          string   `json:"user_id"`
	Keywords        []string `json:"keywords"`
	Location        string   `json:"location"`
	SalaryRange     string   `json:"salary_range"`
	JobTypes        []string `json:"job_types"`
	ExperienceLevel string   `json:"experience_level"`
	Industries      []string `json:"industries"`
}

type PreferencesResponse struct {
	Keywords        profile.TextBag `json:"keywords"`
	Location        string          `json:"location"`
	SalaryRange     string          `json:"salary_range"`
	JobTypes        profile.TextBag `json:"job_types"`
	ExperienceLevel string          `json:"experience_level"`
	Industries      profile.TextBag `json:"industries"`
}

type ProfileResponse struct {
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Location         string          `json:"location"`
	Education        profile.TextBag `json:"education"`
	Skills           profile.TextBag `json:"skills"`
	Experience       profile.TextBag `json:"experience"`
	Projects         profile.TextBag `json:"projects"`
	Achievements     profile.TextBag `json:"achievements"`
	Societies        profile.TextBag `json:"societies"`
	Links            profile.TextBag `json:"links"`
	ProfileCompleted bool            `json:"profile_completed"`
}

// ApplyRequest may arrive as a JSON body or as query parameters.
type ApplyRequest struct {
	UserID            string  `json:"user_id" query:"user_id"`
	JobID             int64   `json:"job_id" query:"job_id"`
	EnhancedResumeURL *string `json:"enhanced_resume_url" query:"enhanced_resume_url"`
	CoverLetterID     *int64  `json:"cover_letter_id" query:"cover_letter_id"`
}

type DashboardStats struct {
	TotalJobsShown             int64 `json:"totalJobsShown"`
	TotalJobsSelected          int64 `json:"totalJobsSelected"`
	TotalCoverLettersGenerated int64 `json:"totalCoverLettersGenerated"`
	TotalResumesGenerated      int64 `json:"totalResumesGenerated"`
	TotalApplications          int64 `json:"totalApplications"`
}

type Activity struct {
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
}
