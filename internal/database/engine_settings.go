package database

import "time"

// EngineSettings controls alert lifecycle engine behavior
type EngineSettings struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	DedupWindowMinutes  int       `gorm:"default:5" json:"dedup_window_minutes"`
	RetentionDays       int       `gorm:"default:7" json:"retention_days"`
	SLACriticalHours    int       `gorm:"column:sla_critical_hours;default:4" json:"sla_critical_hours"`
	SLADefaultHours     int       `gorm:"column:sla_default_hours;default:24" json:"sla_default_hours"`
	TickIntervalSeconds int       `gorm:"default:60" json:"tick_interval_seconds"`
	SweepEnabled        bool      `gorm:"default:true" json:"sweep_enabled"`
	SeedDedupOnStart    bool      `gorm:"default:true" json:"seed_dedup_on_start"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (EngineSettings) TableName() string {
	return "engine_settings"
}

// NewDefaultEngineSettings returns settings with default values
func NewDefaultEngineSettings() *EngineSettings {
	return &EngineSettings{
		DedupWindowMinutes:  5,
		RetentionDays:       7,
		SLACriticalHours:    4,
		SLADefaultHours:     24,
		TickIntervalSeconds: 60,
		SweepEnabled:        true,
		SeedDedupOnStart:    true,
	}
}
