package repository

import (
	"context"

	"gorm.io/gorm"
)

// jobSourceQuery resolves each posting's organisation name. Column names are
// left as the database reports them; the corpus loader normalises them.
const jobSourceQuery = `
	SELECT oj.*, o.Org_Name
	FROM org_jobs oj
	LEFT JOIN Organisation o ON oj.Org_ID = o.Org_ID
`

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// FetchJobRows returns every posting as a column -> value map.
func (r *JobRepository) FetchJobRows(ctx context.Context) ([]map[string]any, error) {
	var rows []map[string]any
	err := r.db.WithContext(ctx).Raw(jobSourceQuery).Scan(&rows).Error
	return rows, err
}

// Ping checks the underlying connection for the health endpoint.
func (r *JobRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
