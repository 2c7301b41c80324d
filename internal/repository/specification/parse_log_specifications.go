package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByAction filters parse logs by resolved action. Empty matches everything.
type ByAction struct {
	Action string
}

func (s ByAction) Apply(db *gorm.DB) *gorm.DB {
	if s.Action == "" {
		return db
	}
	return db.Where("action = ?", s.Action)
}

// ByUserID filters parse logs by the authenticated caller.
type ByUserID struct {
	UserID string
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// DegradedOnly keeps parses that needed the rule-based classifier.
type DegradedOnly struct{}

func (s DegradedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("degraded = ?", true)
}

// CreatedAfter keeps records newer than Since.
type CreatedAfter struct {
	Since time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.Since)
}
