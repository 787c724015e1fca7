package dto

import "time"

type CreateLeadRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Whatsapp string `json:"whatsapp"`
	Email    string `json:"email" validate:"omitempty,email"`
	Source   string `json:"source"`
	Notes    string `json:"notes"`
}

type CreateDealRequest struct {
	LeadID       string  `json:"lead_id"`
	LeadName     string  `json:"lead_name" validate:"required,min=2"`
	LeadWhatsapp string  `json:"lead_whatsapp"`
	Email        string  `json:"email" validate:"omitempty,email"`
	OfferName    string  `json:"offer_name"`
	PitchAmount  float64 `json:"pitch_amount" validate:"gt=0"`
}

type UpdateDealStageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=OPEN PITCH_SENT PAYMENT_SENT PAID LOST"`
}

type UpdateDealContactRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Whatsapp string `json:"whatsapp"`
}

type DealResponse struct {
	ID           string     `json:"id"`
	LeadID       string     `json:"lead_id,omitempty"`
	LeadName     string     `json:"lead_name"`
	LeadWhatsapp string     `json:"lead_whatsapp"`
	Email        string     `json:"email"`
	OfferName    string     `json:"offer_name"`
	PitchAmount  float64    `json:"pitch_amount"`
	Stage        string     `json:"stage"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`

	// MenteeID is set when a PAID transition materialized a client record.
	MenteeID string `json:"mentee_id,omitempty"`
}

type LeadResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Whatsapp  string    `json:"whatsapp"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}
