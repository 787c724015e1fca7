// model/mentee.go
package model

import (
	"encoding/json"
	"time"
)

// Mentee is a client enrolled in the mentorship program.
//
// XP is monotonically non-decreasing and Level is always derived from XP
// (level = floor(sqrt(xp/100))); Level is never set independently.
// LinkedDealID is set once at conversion time and carries a unique index
// so a won deal can materialize at most one mentee.
type Mentee struct {
	ID            string  `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"not null"`
	Email         string  `json:"email"`
	Whatsapp      string  `json:"whatsapp"`
	Plan          string  `json:"plan"`
	XP            int     `json:"xp" gorm:"default:0"`
	Level         int     `json:"level" gorm:"default:0"`
	CurrentStage  string  `json:"current_stage" gorm:"default:onboarding"`
	StageProgress int     `json:"stage_progress" gorm:"default:0"` // 0-100
	LinkedDealID  *string `json:"linked_deal_id" gorm:"uniqueIndex"`
	LinkedUserID  string  `json:"linked_user_id"`
	Blocked       bool    `json:"blocked" gorm:"default:false"`
	Archived      bool    `json:"archived" gorm:"default:false"`

	// DeviceTokens is a JSON array of push tokens registered by the
	// mentee's mobile app.
	DeviceTokens json.RawMessage `json:"device_tokens" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MenteeBadge records a one-way badge unlock. The composite unique index
// makes re-granting the same badge a no-op at the store layer, which keeps
// unlocks idempotent under retries and concurrent writers.
type MenteeBadge struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	MenteeID   string    `json:"mentee_id" gorm:"not null;uniqueIndex:idx_mentee_badge"`
	BadgeID    string    `json:"badge_id" gorm:"not null;uniqueIndex:idx_mentee_badge"`
	UnlockedAt time.Time `json:"unlocked_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// User is an operator account (mentor/admin) mirrored from the identity
// provider. Only the fields this subsystem reads are modeled.
type User struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"unique;not null"`
	Email    string `json:"email" gorm:"unique"`
	Role     string `json:"role" gorm:"default:mentor"`

	DeviceTokens json.RawMessage `json:"device_tokens" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
