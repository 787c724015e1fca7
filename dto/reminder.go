package dto

import "time"

type CreateChipRequest struct {
	Label       string `json:"label" validate:"required"`
	PhoneNumber string `json:"phone_number"`
}

type ChipResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Label       string    `json:"label"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
	WarmupDay   int       `json:"warmup_day"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateTaskRequest struct {
	OwnerID     string    `json:"owner_id" validate:"required"`
	OwnerRole   string    `json:"owner_role" validate:"required,oneof=mentor mentee"`
	Title       string    `json:"title" validate:"required,min=2"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"due_at" validate:"required"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	OwnerRole   string     `json:"owner_role"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       time.Time  `json:"due_at"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
