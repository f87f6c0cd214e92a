package entities

import (
	"time"
)

// AuthSessionModel is the persisted snapshot of a registered session
type AuthSessionModel struct {
	ID            int64  `gorm:"primaryKey;autoIncrement:false"`
	Username      string `gorm:"size:255;not null;default:''"`
	Name          string `gorm:"size:255;not null;default:''"`
	Guest         bool   `gorm:"not null;default:false"`
	HasIssues     bool   `gorm:"not null;default:false"`
	Issues        []byte `gorm:"type:jsonb"`
	Active        bool   `gorm:"not null;default:true;index"`
	RemovedReason string `gorm:"size:64;not null;default:''"`
	LastLoginAt   time.Time
	RemovedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName specifies the table name for GORM
func (AuthSessionModel) TableName() string {
	return "auth_sessions"
}
