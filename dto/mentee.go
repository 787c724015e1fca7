package dto

import "time"

type EnrollMenteeRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"omitempty,email"`
	Whatsapp string `json:"whatsapp"`
	Plan     string `json:"plan" validate:"omitempty,oneof=mentoria_3_meses mentoria_6_meses"`
}

type AddXPRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

type AddXPResponse struct {
	NewXP     int  `json:"new_xp"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

type UnlockBadgeRequest struct {
	BadgeID string `json:"badge_id" validate:"required"`
}

type BadgeResponse struct {
	BadgeID    string    `json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type MenteeProgressResponse struct {
	MenteeID        string          `json:"mentee_id"`
	Name            string          `json:"name"`
	XP              int             `json:"xp"`
	Level           int             `json:"level"`
	ProgressPercent int             `json:"progress_percent"`
	XPToNextLevel   int             `json:"xp_to_next_level"`
	CurrentStage    string          `json:"current_stage"`
	StageProgress   int             `json:"stage_progress"`
	Blocked         bool            `json:"blocked"`
	Badges          []BadgeResponse `json:"badges"`
}

type RegisterDeviceTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
