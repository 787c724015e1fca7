// model/deal.go
package model

import "time"

// Lead is a raw intake record before it becomes a deal.
type Lead struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	Whatsapp string `json:"whatsapp"`
	Email    string `json:"email"`
	Source   string `json:"source"`
	Notes    string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deal is a sales opportunity moving through the pipeline
// OPEN -> PITCH_SENT -> PAYMENT_SENT -> PAID, with LOST reachable from any
// pre-PAID stage. PAID and LOST are terminal. The PAID transition is
// refused while Email is empty.
type Deal struct {
	ID           string  `json:"id" gorm:"primaryKey"`
	LeadID       string  `json:"lead_id"`
	LeadName     string  `json:"lead_name" gorm:"not null"`
	LeadWhatsapp string  `json:"lead_whatsapp"`
	Email        string  `json:"email"`
	OfferName    string  `json:"offer_name"`
	PitchAmount  float64 `json:"pitch_amount"`
	Stage        string  `json:"stage" gorm:"default:OPEN"`

	ClosedAt  *time.Time `json:"closed_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
