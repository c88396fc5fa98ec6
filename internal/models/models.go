package models

import (
	"time"
)

// Session represents a persisted operator session
type Session struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	UserID      string    `gorm:"type:varchar(64)" json:"user_id"`
	Email       string    `gorm:"type:varchar(255);index" json:"email"`
	Name        string    `gorm:"type:varchar(255)" json:"name"`
	Role        string    `gorm:"type:varchar(50)" json:"role"`
	APIKey      string    `gorm:"type:text" json:"-"`
	TenantScope string    `gorm:"type:varchar(64)" json:"tenant_scope"`
	ExpiresAt   time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Session) TableName() string {
	return "dashboard_sessions"
}
