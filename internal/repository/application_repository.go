package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ApplicationRow is one application joined with its posting and organisation.
// Posting columns are empty when the job no longer exists.
type ApplicationRow struct {
	ApplicationID     int64      `json:"application_id"`
	JobID             int64      `json:"job_id"`
	AppliedDate       *time.Time `json:"applied_date"`
	Status            string     `json:"status"`
	JobTitle          string     `json:"job_title"`
	JobDesc           string     `json:"job_desc"`
	Salary            string     `json:"salary"`
	JobLocation       string     `json:"job_location"`
	Experience        string     `json:"experience"`
	DatePosted        string     `json:"date_posted"`
	WorkType          string     `json:"work_type"`
	Qualification     string     `json:"qualification"`
	OrgName           string     `json:"org_name"`
	EnhancedResumeURL *string    `json:"enhanced_resume_url"`
	CoverLetterID     *int64     `json:"cover_letter_id"`
}

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

// AppliedJobIDs lists the jobs a user has already applied to.
func (r *ApplicationRepository) AppliedJobIDs(ctx context.Context, userID string) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT job_id FROM jobs_applied WHERE applicant_id = ?`, userID).
		Scan(&ids).Error
	return ids, err
}

// Apply records an application, creating the applicant row on first use.
// Re-applying to the same job refreshes the attachments and status.
func (r *ApplicationRepository) Apply(ctx context.Context, userID string, jobID int64, resumeURL *string, coverLetterID *int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(`
			INSERT INTO applicant (user_id, app_name, email, phone)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id) DO NOTHING
		`, userID, "Applicant", "", "").Error
		if err != nil {
			return err
		}

		return tx.Exec(`
			INSERT INTO jobs_applied (
				job_id, applicant_id, application_date, sent_at, enhanced_resume_url,
				cover_letter_id, application_status, created_at, updated_at
			)
			VALUES (?, ?, CURRENT_DATE, CURRENT_TIMESTAMP, ?, ?, 'applied', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			ON CONFLICT (job_id, applicant_id) DO UPDATE SET
				enhanced_resume_url = EXCLUDED.enhanced_resume_url,
				cover_letter_id = EXCLUDED.cover_letter_id,
				application_status = 'applied',
				updated_at = CURRENT_TIMESTAMP
		`, jobID, userID, resumeURL, coverLetterID).Error
	})
}

func (r *ApplicationRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM jobs_applied WHERE applicant_id = ?`, userID).
		Scan(&n).Error
	return n, err
}

// ListByUser returns a user's applications, newest first. A limit of 0 or
// less returns every row.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]ApplicationRow, error) {
	query := `
		SELECT
			ja.id AS application_id,
			ja.job_id,
			ja.sent_at AS applied_date,
			COALESCE(ja.application_status, '') AS status,
			COALESCE(oj.job_title, '') AS job_title,
			COALESCE(oj.job_desc, '') AS job_desc,
			COALESCE(oj.salary, '') AS salary,
			COALESCE(oj.job_location, '') AS job_location,
			COALESCE(oj.experience, '') AS experience,
			COALESCE(CAST(oj.date_posted AS TEXT), '') AS date_posted,
			COALESCE(oj.work_type, '') AS work_type,
			COALESCE(oj.qualification, '') AS qualification,
			COALESCE(o.Org_Name, '') AS org_name,
			ja.enhanced_resume_url,
			ja.cover_letter_id
		FROM jobs_applied ja
		LEFT JOIN org_jobs oj ON ja.job_id = oj.job_id
		LEFT JOIN Organisation o ON oj.Org_ID = o.Org_ID
		WHERE ja.applicant_id = ?
		ORDER BY ja.sent_at DESC NULLS LAST`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	var rows []ApplicationRow
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	return rows, err
}
