package dto

type CreateOfferRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

type RecordDailyStatRequest struct {
	Date    string  `json:"date" validate:"required,datetime=2006-01-02"`
	Spend   float64 `json:"spend" validate:"gte=0"`
	Revenue float64 `json:"revenue" validate:"gte=0"`
}

type DailyStatResponse struct {
	Date    string  `json:"date"`
	Spend   float64 `json:"spend"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
	ROI     float64 `json:"roi"`
}

// OfferLedgerResponse carries the per-day history plus lifetime aggregates
// recomputed from it on every read.
type OfferLedgerResponse struct {
	OfferID      string              `json:"offer_id"`
	Name         string              `json:"name"`
	DailyStats   []DailyStatResponse `json:"daily_stats"`
	TotalSpend   float64             `json:"total_spend"`
	TotalRevenue float64             `json:"total_revenue"`
	TotalProfit  float64             `json:"total_profit"`
	TotalROI     float64             `json:"total_roi"`
}
