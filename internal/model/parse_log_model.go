package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ParseLog struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     string         `gorm:"type:varchar(64);index"`
	TextHash   string         `gorm:"type:char(64);not null;index"`
	InputChars int            `gorm:"not null"`
	Chunks     int            `gorm:"not null;default:1"`
	Action     string         `gorm:"type:varchar(32);not null;index"`
	Source     string         `gorm:"type:varchar(16);not null"`
	Degraded   bool           `gorm:"not null;default:false"`
	ElapsedMs  int64          `gorm:"not null"`
	Intent     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (ParseLog) TableName() string {
	return "parse_logs"
}
