package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type UsageRow struct {
	ServiceName string     `json:"service_name"`
	UsageCount  int64      `json:"usage_count"`
	LastUsed    *time.Time `json:"last_used"`
}

type UsageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) *UsageRepository {
	return &UsageRepository{db}
}

// Track bumps the usage counter for (userID, service), creating it on first use.
func (r *UsageRepository) Track(ctx context.Context, userID, service string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			UPDATE service_usage
			SET usage_count = usage_count + 1, last_used = CURRENT_TIMESTAMP
			WHERE user_id = ? AND service_name = ?
		`, userID, service)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Exec(`
			INSERT INTO service_usage (user_id, service_name, usage_count, last_used, created_at)
			VALUES (?, ?, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`, userID, service).Error
	})
}

// ByUser aggregates usage per service, most used first.
func (r *UsageRepository) ByUser(ctx context.Context, userID string) ([]UsageRow, error) {
	var rows []UsageRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			service_name,
			COALESCE(SUM(usage_count), 0) AS usage_count,
			MAX(last_used) AS last_used
		FROM service_usage
		WHERE user_id = ?
		GROUP BY service_name
		ORDER BY usage_count DESC
	`, userID).Scan(&rows).Error
	return rows, err
}

// CountForService sums usage across every service whose name contains service.
func (r *UsageRepository) CountForService(ctx context.Context, userID, service string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(usage_count), 0)
		FROM service_usage
		WHERE user_id = ? AND service_name LIKE ?
	`, userID, "%"+service+"%").Scan(&n).Error
	return n, err
}
