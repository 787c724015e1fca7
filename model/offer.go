// model/offer.go
package model

import "time"

// Offer is a marketing asset whose performance is tracked day by day.
// Lifetime aggregates are derived from OfferDailyStat rows, never stored.
type Offer struct {
	ID       string `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	IsActive bool   `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OfferDailyStat is one calendar day of spend/revenue for an offer.
// The composite unique index on (offer_id, stat_date) guarantees at most
// one row per day and lets measurements merge per date instead of
// rewriting the whole history.
type OfferDailyStat struct {
	ID       string  `json:"id" gorm:"primaryKey"`
	OfferID  string  `json:"offer_id" gorm:"not null;uniqueIndex:idx_offer_stat_date"`
	StatDate string  `json:"date" gorm:"not null;uniqueIndex:idx_offer_stat_date"` // ISO date, 2006-01-02
	Spend    float64 `json:"spend"`
	Revenue  float64 `json:"revenue"`
	Profit   float64 `json:"profit"`
	ROI      float64 `json:"roi"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
