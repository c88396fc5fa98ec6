package database

import (
	"context"
	"fmt"
	"time"

	"wpconn-dashboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const copyBatchSize = 200

// CopySessions copies unexpired sessions from src into dst, for example
// when moving from the sqlite store to postgres. Rows already present in
// dst are overwritten.
func CopySessions(ctx context.Context, src, dst *gorm.DB, now time.Time) (int64, error) {
	var copied int64
	var batch []models.Session
	res := src.WithContext(ctx).
		Where("expires_at > ?", now).
		FindInBatches(&batch, copyBatchSize, func(tx *gorm.DB, _ int) error {
			err := dst.WithContext(ctx).Transaction(func(dtx *gorm.DB) error {
				return dtx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&batch).Error
			})
			if err != nil {
				return err
			}
			copied += int64(len(batch))
			return nil
		})
	if res.Error != nil {
		return copied, fmt.Errorf("copy sessions: %w", res.Error)
	}
	return copied, nil
}
