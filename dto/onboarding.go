package dto

import "time"

type CreateStepRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"required,gte=0"`
	IsRequired  bool   `json:"is_required"`
	XPReward    int    `json:"xp_reward" validate:"gte=0"`
	ContentType string `json:"content_type" validate:"required,oneof=video pdf link form action"`
}

type StepResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsRequired  bool   `json:"is_required"`
	XPReward    int    `json:"xp_reward"`
	ContentType string `json:"content_type"`
	AssetKey    string `json:"asset_key,omitempty"`
}

// StepStatusResponse is one step of the catalog decorated with the status
// derived for a given mentee (done/skipped/locked/available).
type StepStatusResponse struct {
	StepResponse
	Status string `json:"status"`
}

type CompleteStepRequest struct {
	FormData map[string]interface{} `json:"form_data,omitempty"`
}

type OnboardingStateResponse struct {
	MenteeID       string               `json:"mentee_id"`
	CurrentStage   string               `json:"current_stage"`
	StageProgress  int                  `json:"stage_progress"`
	XPEarned       int                  `json:"xp_earned"`
	CompletedCount int                  `json:"completed_count"`
	TotalSteps     int                  `json:"total_steps"`
	StageAdvanced  bool                 `json:"stage_advanced,omitempty"`
	Steps          []StepStatusResponse `json:"steps"`
}

type StepAssetUploadResponse struct {
	AssetKey  string    `json:"asset_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StepAssetURLResponse struct {
	AssetKey  string    `json:"asset_key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
