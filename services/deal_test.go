package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

func newTestDealService(t *testing.T, sqlSvc *SqlService) *DealService {
	t.Helper()
	return &DealService{
		sqlSvc:         sqlSvc,
		progressionSvc: newTestProgressionService(t, sqlSvc),
	}
}

func createTestDeal(t *testing.T, sqlSvc *SqlService, email, offerName string) *model.Deal {
	t.Helper()

	deal, err := sqlSvc.CreateDeal(&model.Deal{
		LeadName:    "João",
		Email:       email,
		OfferName:   offerName,
		PitchAmount: 2500,
		Stage:       shared.DealStageOpen,
	})
	require.NoError(t, err)
	return deal
}

func TestDealPipelineHappyPath(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestDealService(t, sqlSvc)
	deal := createTestDeal(t, sqlSvc, "joao@example.com", "Mentoria 3 meses")

	resp, err := svc.TransitionStage(deal.ID, shared.DealStagePitchSent)
	require.NoError(t, err)
	assert.Equal(t, shared.DealStagePitchSent, resp.Stage)

	resp, err = svc.TransitionStage(deal.ID, shared.DealStagePaymentSent)
	require.NoError(t, err)
	assert.Equal(t, shared.DealStagePaymentSent, resp.Stage)

	resp, err = svc.TransitionStage(deal.ID, shared.DealStagePaid)
	require.NoError(t, err)
	assert.Equal(t, shared.DealStagePaid, resp.Stage)
	assert.NotNil(t, resp.ClosedAt)
	assert.NotEmpty(t, resp.MenteeID)
}

func TestDealIllegalTransitionsRefused(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestDealService(t, sqlSvc)
	deal := createTestDeal(t, sqlSvc, "joao@example.com", "Mentoria 3 meses")

	// Skipping stages is not allowed.
	_, err := svc.TransitionStage(deal.ID, shared.DealStagePaid)
	require.Error(t, err)

	stored, err := sqlSvc.GetDeal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.DealStageOpen, stored.Stage)

	// Terminal stages accept no further moves.
	_, err = svc.TransitionStage(deal.ID, shared.DealStageLost)
	require.NoError(t, err)
	_, err = svc.TransitionStage(deal.ID, shared.DealStageOpen)
	require.Error(t, err)
}

func TestPaidRefusedWithoutEmail(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestDealService(t, sqlSvc)
	deal := createTestDeal(t, sqlSvc, "", "Mentoria 3 meses")

	_, err := svc.TransitionStage(deal.ID, shared.DealStagePitchSent)
	require.NoError(t, err)
	_, err = svc.TransitionStage(deal.ID, shared.DealStagePaymentSent)
	require.NoError(t, err)

	_, err = svc.TransitionStage(deal.ID, shared.DealStagePaid)
	require.Error(t, err)

	stored, err := sqlSvc.GetDeal(deal.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.DealStagePaymentSent, stored.Stage)
	assert.Nil(t, stored.ClosedAt)

	// Filling in the email unblocks the transition.
	_, err = svc.UpdateContact(deal.ID, dto.UpdateDealContactRequest{Email: "joao@example.com"})
	require.NoError(t, err)

	resp, err := svc.TransitionStage(deal.ID, shared.DealStagePaid)
	require.NoError(t, err)
	assert.Equal(t, shared.DealStagePaid, resp.Stage)
}

func TestConversionCreatesMenteeOnce(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestDealService(t, sqlSvc)
	deal := createTestDeal(t, sqlSvc, "joao@example.com", "Mentoria 6 meses")

	first, err := svc.EnsureClientExists(deal)
	require.NoError(t, err)
	second, err := svc.EnsureClientExists(deal)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, sqlSvc.Db().Model(&model.Mentee{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The winning insert seeds the mentee from the deal and grants the
	// signing bonus and starter badge exactly once.
	mentee, err := sqlSvc.GetMentee(first.ID)
	require.NoError(t, err)
	assert.Equal(t, deal.LeadName, mentee.Name)
	assert.Equal(t, shared.PlanSixMonths, mentee.Plan)
	assert.Equal(t, shared.StageOnboarding, mentee.CurrentStage)
	assert.Equal(t, shared.SigningBonusXP, mentee.XP)

	badges, err := sqlSvc.GetMenteeBadges(mentee.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, shared.BadgeJourneyStarted, badges[0].BadgeID)
}

func TestPlanInferredFromOfferName(t *testing.T) {
	assert.Equal(t, shared.PlanSixMonths, planFromOffer("Mentoria 6 Meses Premium"))
	assert.Equal(t, shared.PlanThreeMonths, planFromOffer("Mentoria 3 meses"))
	assert.Equal(t, shared.PlanThreeMonths, planFromOffer(""))
}
