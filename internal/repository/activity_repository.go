package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ActivityRow is a dated entry for the recent-activity feed. Title and
// Subtitle are empty when the joined rows are missing.
type ActivityRow struct {
	Date     *time.Time
	Title    string
	Subtitle string
}

// ActivityRepository reads tables written by the resume and cover-letter
// services, alongside this service's own application rows.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db}
}

func (r *ActivityRepository) CountEnhancedResumes(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM enhanced_resumes WHERE user_id = ?`, userID).
		Scan(&n).Error
	return n, err
}

// CountCoverLetters fails when the cover_letters table has not been created yet.
func (r *ActivityRepository) CountCoverLetters(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM cover_letters WHERE user_id = ?`, userID).
		Scan(&n).Error
	return n, err
}

func (r *ActivityRepository) RecentApplications(ctx context.Context, userID string, limit int) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ja.sent_at AS date,
			COALESCE(oj.job_title, '') AS title,
			COALESCE(o.Org_Name, '') AS subtitle
		FROM jobs_applied ja
		LEFT JOIN org_jobs oj ON ja.job_id = oj.job_id
		LEFT JOIN Organisation o ON oj.Org_ID = o.Org_ID
		WHERE ja.applicant_id = ?
		ORDER BY ja.sent_at DESC NULLS LAST
		LIMIT ?
	`, userID, limit).Scan(&rows).Error
	return rows, err
}

func (r *ActivityRepository) RecentResumes(ctx context.Context, userID string, limit int) ([]ActivityRow, error) {
	var rows []ActivityRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			er.created_at AS date,
			COALESCE(er.job_preference, '') AS title
		FROM enhanced_resumes er
		WHERE er.user_id = ?
		ORDER BY er.created_at DESC
		LIMIT ?
	`, userID, limit).Scan(&rows).Error
	return rows, err
}
