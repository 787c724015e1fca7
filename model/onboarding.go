// model/onboarding.go
package model

import (
	"encoding/json"
	"time"
)

// OnboardingStep is one entry of the immutable onboarding checklist.
// StepOrder is a unique total ordering; gating walks it in ascending order.
type OnboardingStep struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	StepOrder   int    `json:"order" gorm:"column:step_order;uniqueIndex;not null"`
	IsRequired  bool   `json:"is_required" gorm:"default:false"`
	XPReward    int    `json:"xp_reward" gorm:"default:0"`
	ContentType string `json:"content_type" gorm:"not null"` // video, pdf, link, form, action

	// AssetKey points at the step's media object (video/pdf) in object storage.
	AssetKey string `json:"asset_key"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OnboardingProgress is one mentee's walk through the step catalog.
// CompletedStepIDs and SkippedStepIDs are grow-only JSON string sets;
// step status is always recomputed from them, never stored.
type OnboardingProgress struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	MenteeID         string          `json:"mentee_id" gorm:"not null;uniqueIndex"`
	CompletedStepIDs json.RawMessage `json:"completed_step_ids" gorm:"type:text"`
	SkippedStepIDs   json.RawMessage `json:"skipped_step_ids" gorm:"type:text"`
	XPEarned         int             `json:"xp_earned" gorm:"default:0"`

	// StepData holds captured form answers keyed by step id.
	StepData json.RawMessage `json:"step_data" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
