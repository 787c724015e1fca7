// services/offer.go
package services

import (
	gocontext "context"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

// OfferService keeps the per-offer daily performance ledger. Each
// calendar day holds at most one row; re-recording a day merges into the
// existing row instead of appending, and lifetime totals are recomputed
// from the rows on every read.
type OfferService struct {
	context.DefaultService

	sqlSvc   *SqlService
	cacheSvc *RedisService
}

const OFFER_SVC = "offer_svc"

const (
	statDateLayout      = "2006-01-02"
	offerLedgerCacheTTL = 2 * time.Minute
)

func (svc OfferService) Id() string {
	return OFFER_SVC
}

func (svc *OfferService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *OfferService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	if cache, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.cacheSvc = cache
	}
	return nil
}

func (svc *OfferService) CreateOffer(req dto.CreateOfferRequest) (*model.Offer, error) {
	return svc.sqlSvc.CreateOffer(&model.Offer{
		Name:     req.Name,
		IsActive: true,
	})
}

// RecordDailyMeasurement upserts one day of spend/revenue for an offer.
// Profit and ROI are derived here so a stored row is always internally
// consistent; ROI is 0 when there was no spend.
func (svc *OfferService) RecordDailyMeasurement(offerID string, req dto.RecordDailyStatRequest) (*dto.DailyStatResponse, error) {
	if _, err := svc.sqlSvc.GetOffer(offerID); err != nil {
		return nil, shared.NewNotFoundError(err, "Offer not found")
	}

	statDate, err := time.Parse(statDateLayout, req.Date)
	if err != nil {
		return nil, shared.NewBadRequestError(err, "Date must be formatted YYYY-MM-DD")
	}

	profit := req.Revenue - req.Spend
	roi := 0.0
	if req.Spend > 0 {
		roi = profit / req.Spend * 100
	}

	stat := model.OfferDailyStat{
		ID:       newID(),
		OfferID:  offerID,
		StatDate: statDate.Format(statDateLayout),
		Spend:    req.Spend,
		Revenue:  req.Revenue,
		Profit:   profit,
		ROI:      roi,
	}

	err = svc.sqlSvc.Db().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "offer_id"}, {Name: "stat_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"spend", "revenue", "profit", "roi", "updated_at"}),
	}).Create(&stat).Error
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	svc.invalidateLedger(offerID)
	RecordDailyStatUpsert()

	log.WithFields(log.Fields{
		"offer_id": offerID,
		"date":     stat.StatDate,
		"spend":    stat.Spend,
		"revenue":  stat.Revenue,
	}).Info("Offer daily stat recorded")

	return &dto.DailyStatResponse{
		Date:    stat.StatDate,
		Spend:   stat.Spend,
		Revenue: stat.Revenue,
		Profit:  stat.Profit,
		ROI:     stat.ROI,
	}, nil
}

// GetLedger returns the offer's full daily history plus lifetime totals.
func (svc *OfferService) GetLedger(offerID string) (*dto.OfferLedgerResponse, error) {
	cacheKey := offerLedgerCacheKey(offerID)
	if svc.cacheSvc != nil {
		var cached dto.OfferLedgerResponse
		if err := svc.cacheSvc.GetJSON(gocontext.Background(), cacheKey, &cached); err == nil && cached.OfferID != "" {
			return &cached, nil
		}
	}

	offer, err := svc.sqlSvc.GetOffer(offerID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Offer not found")
	}

	stats, err := svc.sqlSvc.GetOfferDailyStats(offerID)
	if err != nil {
		return nil, err
	}

	resp := &dto.OfferLedgerResponse{
		OfferID:    offer.ID,
		Name:       offer.Name,
		DailyStats: make([]dto.DailyStatResponse, len(stats)),
	}

	for i, stat := range stats {
		resp.DailyStats[i] = dto.DailyStatResponse{
			Date:    stat.StatDate,
			Spend:   stat.Spend,
			Revenue: stat.Revenue,
			Profit:  stat.Profit,
			ROI:     stat.ROI,
		}
		resp.TotalSpend += stat.Spend
		resp.TotalRevenue += stat.Revenue
	}

	resp.TotalProfit = resp.TotalRevenue - resp.TotalSpend
	if resp.TotalSpend > 0 {
		resp.TotalROI = resp.TotalProfit / resp.TotalSpend * 100
	}

	if svc.cacheSvc != nil {
		if err := svc.cacheSvc.Set(gocontext.Background(), cacheKey, resp, offerLedgerCacheTTL); err != nil {
			log.WithError(err).Debug("Failed to cache offer ledger")
		}
	}

	return resp, nil
}

func (svc *OfferService) invalidateLedger(offerID string) {
	if svc.cacheSvc == nil {
		return
	}
	if err := svc.cacheSvc.Delete(gocontext.Background(), offerLedgerCacheKey(offerID)); err != nil {
		log.WithError(err).Debug("Failed to invalidate offer ledger cache")
	}
}

func offerLedgerCacheKey(offerID string) string {
	return fmt.Sprintf("offer:ledger:%s", offerID)
}
