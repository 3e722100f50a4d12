package model

import "time"

type Applicant struct {
	UserID  string `gorm:"primaryKey;type:varchar(128)" json:"user_id"`
	AppName string `json:"app_name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

func (a *Applicant) TableName() string {
	return "applicant"
}

type JobApplied struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	JobID             int64      `gorm:"uniqueIndex:idx_job_applicant;not null" json:"job_id"`
	ApplicantID       string     `gorm:"type:varchar(128);uniqueIndex:idx_job_applicant;not null" json:"applicant_id"`
	ApplicationDate   time.Time  `gorm:"type:date" json:"application_date"`
	SentAt            *time.Time `json:"sent_at"`
	EnhancedResumeURL *string    `json:"enhanced_resume_url"`
	CoverLetterID     *int64     `json:"cover_letter_id"`
	ApplicationStatus string     `gorm:"type:varchar(50)" json:"application_status"` // e.g. "applied"
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (j *JobApplied) TableName() string {
	return "jobs_applied"
}

type ServiceUsage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"type:varchar(128);index:idx_usage_user_service;not null" json:"user_id"`
	ServiceName string    `gorm:"type:varchar(100);index:idx_usage_user_service;not null" json:"service_name"`
	UsageCount  int       `gorm:"default:0" json:"usage_count"`
	LastUsed    time.Time `json:"last_used"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *ServiceUsage) TableName() string {
	return "service_usage"
}
