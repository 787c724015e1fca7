package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
)

func newTestOfferService(t *testing.T, sqlSvc *SqlService) *OfferService {
	t.Helper()
	return &OfferService{sqlSvc: sqlSvc}
}

func TestRecordDailyMeasurementDerivesProfitAndROI(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOfferService(t, sqlSvc)

	offer, err := svc.CreateOffer(dto.CreateOfferRequest{Name: "Mentoria 3 meses"})
	require.NoError(t, err)

	stat, err := svc.RecordDailyMeasurement(offer.ID, dto.RecordDailyStatRequest{
		Date:    "2026-08-01",
		Spend:   100,
		Revenue: 250,
	})
	require.NoError(t, err)
	assert.Equal(t, 150.0, stat.Profit)
	assert.Equal(t, 150.0, stat.ROI)

	// Zero spend reports zero ROI instead of dividing by zero.
	stat, err = svc.RecordDailyMeasurement(offer.ID, dto.RecordDailyStatRequest{
		Date:    "2026-08-02",
		Spend:   0,
		Revenue: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, 80.0, stat.Profit)
	assert.Equal(t, 0.0, stat.ROI)
}

func TestRecordDailyMeasurementMergesPerDate(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOfferService(t, sqlSvc)

	offer, err := svc.CreateOffer(dto.CreateOfferRequest{Name: "Mentoria 3 meses"})
	require.NoError(t, err)

	_, err = svc.RecordDailyMeasurement(offer.ID, dto.RecordDailyStatRequest{
		Date: "2026-08-01", Spend: 100, Revenue: 250,
	})
	require.NoError(t, err)

	stat, err := svc.RecordDailyMeasurement(offer.ID, dto.RecordDailyStatRequest{
		Date: "2026-08-01", Spend: 120, Revenue: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, 120.0, stat.Spend)
	assert.Equal(t, 180.0, stat.Profit)

	var count int64
	require.NoError(t, sqlSvc.Db().Model(&model.OfferDailyStat{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetLedgerRecomputesTotals(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOfferService(t, sqlSvc)

	offer, err := svc.CreateOffer(dto.CreateOfferRequest{Name: "Mentoria 6 meses"})
	require.NoError(t, err)

	days := []dto.RecordDailyStatRequest{
		{Date: "2026-08-01", Spend: 100, Revenue: 250},
		{Date: "2026-08-02", Spend: 50, Revenue: 50},
		{Date: "2026-08-03", Spend: 200, Revenue: 150},
	}
	for _, day := range days {
		_, err := svc.RecordDailyMeasurement(offer.ID, day)
		require.NoError(t, err)
	}

	ledger, err := svc.GetLedger(offer.ID)
	require.NoError(t, err)
	require.Len(t, ledger.DailyStats, 3)
	assert.Equal(t, 350.0, ledger.TotalSpend)
	assert.Equal(t, 450.0, ledger.TotalRevenue)
	assert.Equal(t, 100.0, ledger.TotalProfit)
	assert.InDelta(t, 100.0/350.0*100, ledger.TotalROI, 0.0001)

	// History comes back in date order.
	assert.Equal(t, "2026-08-01", ledger.DailyStats[0].Date)
	assert.Equal(t, "2026-08-03", ledger.DailyStats[2].Date)
}

func TestGetLedgerZeroSpendZeroROI(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOfferService(t, sqlSvc)

	offer, err := svc.CreateOffer(dto.CreateOfferRequest{Name: "Organic"})
	require.NoError(t, err)

	_, err = svc.RecordDailyMeasurement(offer.ID, dto.RecordDailyStatRequest{
		Date: "2026-08-01", Spend: 0, Revenue: 500,
	})
	require.NoError(t, err)

	ledger, err := svc.GetLedger(offer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ledger.TotalROI)
}

func TestRecordDailyMeasurementRejectsBadInput(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOfferService(t, sqlSvc)

	offer, err := svc.CreateOffer(dto.CreateOfferRequest{Name: "Mentoria 3 meses"})
	require.NoError(t, err)

	_, err = svc.RecordDailyMeasurement(offer.ID, dto.RecordDailyStatRequest{
		Date: "01/08/2026", Spend: 100, Revenue: 250,
	})
	require.Error(t, err)

	_, err = svc.RecordDailyMeasurement("missing-offer", dto.RecordDailyStatRequest{
		Date: "2026-08-01", Spend: 100, Revenue: 250,
	})
	require.Error(t, err)
}
