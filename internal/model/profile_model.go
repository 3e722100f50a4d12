package model

import "time"

// UserProfile is owned by the profile service. The list-like columns hold
// JSON text whose shape varies between users.
type UserProfile struct {
	UserID           string `gorm:"primaryKey;type:varchar(128)" json:"user_id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Location         string `json:"location"`
	Education        string `gorm:"type:text" json:"education"`
	Skills           string `gorm:"type:text" json:"skills"`
	Experience       string `gorm:"type:text" json:"experience"`
	Projects         string `gorm:"type:text" json:"projects"`
	Achievements     string `gorm:"type:text" json:"achievements"`
	Societies        string `gorm:"type:text" json:"societies"`
	Links            string `gorm:"type:text" json:"links"`
	ProfileCompleted bool   `json:"profile_completed"`
}

func (p *UserProfile) TableName() string {
	return "user_profiles"
}

type JobPreference struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          string    `gorm:"type:varchar(128);index;not null" json:"user_id"`
	Keywords        string    `gorm:"type:text" json:"keywords"`
	Location        string    `json:"location"`
	SalaryRange     string    `json:"salary_range"`
	JobTypes        string    `gorm:"type:text" json:"job_types"`
	ExperienceLevel string    `json:"experience_level"`
	Industries      string    `gorm:"type:text" json:"industries"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (p *JobPreference) TableName() string {
	return "job_preferences"
}
