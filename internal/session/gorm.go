package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wpconn-dashboard/internal/database"
	"wpconn-dashboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists sessions in SQLite or PostgreSQL.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Save(ctx context.Context, s *Session) error {
	row := toRow(s)
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "email", "name", "role", "api_key", "tenant_scope", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (g *GormStore) Get(ctx context.Context, id string) (*Session, error) {
	var row models.Session
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return fromRow(row), nil
}

func (g *GormStore) Delete(ctx context.Context, id string) error {
	if err := g.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (g *GormStore) Prune(ctx context.Context, now time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (g *GormStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := g.db.WithContext(ctx).Model(&models.Session{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (g *GormStore) Close() error {
	return database.Close(g.db)
}

func toRow(s *Session) models.Session {
	return models.Session{
		ID:          s.ID,
		UserID:      s.UserID,
		Email:       s.Email,
		Name:        s.Name,
		Role:        s.Role,
		APIKey:      s.APIKey,
		TenantScope: s.TenantScope,
		ExpiresAt:   s.ExpiresAt.UTC(),
		CreatedAt:   s.CreatedAt.UTC(),
	}
}

func fromRow(row models.Session) *Session {
	return &Session{
		ID: row.ID,
		Identity: Identity{
			UserID: row.UserID,
			Email:  row.Email,
			Name:   row.Name,
			Role:   row.Role,
		},
		APIKey:      row.APIKey,
		TenantScope: row.TenantScope,
		CreatedAt:   row.CreatedAt,
		ExpiresAt:   row.ExpiresAt,
	}
}
