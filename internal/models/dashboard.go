package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DashboardScreen stores the tab layout served to a role's dashboard.
type DashboardScreen struct {
	ID            string         `gorm:"type:uuid;primaryKey"`
	Role          string         `gorm:"index:idx_dashboard_role,priority:1"`
	ScreenVersion int            `gorm:"index:idx_dashboard_role,priority:2;default:1"`
	Active        bool           `gorm:"default:true"`
	Payload       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s *DashboardScreen) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
