// model/reminder.go
package model

import "time"

// Chip is a WhatsApp number going through the warmup routine. WarmupDay
// advances once per day; when it reaches the target day the owner is
// reminded that the chip is ready to go live.
type Chip struct {
	ID          string `json:"id" gorm:"primaryKey"`
	OwnerUserID string `json:"owner_user_id" gorm:"not null;index"`
	Label       string `json:"label"`
	PhoneNumber string `json:"phone_number"`
	Status      string `json:"status" gorm:"default:warming;index"`
	WarmupDay   int    `json:"warmup_day" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is a due-dated to-do owned by either a mentor (user id) or a
// mentee (mentee id); OwnerRole disambiguates the lookup.
type Task struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	OwnerID     string    `json:"owner_id" gorm:"not null;index"`
	OwnerRole   string    `json:"owner_role" gorm:"default:mentee"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	DueAt       time.Time `json:"due_at" gorm:"index"`
	Status      string    `json:"status" gorm:"default:open;index"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
