// services/deal.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/clause"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

// DealService runs the sales pipeline and converts won deals into
// enrolled mentees. Conversion is keyed on the deal id, so retrying a
// PAID transition can never enroll the same client twice.
type DealService struct {
	context.DefaultService

	sqlSvc         *SqlService
	progressionSvc *ProgressionService
}

const DEAL_SVC = "deal_svc"

// legalDealTransitions maps each stage to the stages it may move to.
// PAID and LOST are terminal.
var legalDealTransitions = map[string][]string{
	shared.DealStageOpen:        {shared.DealStagePitchSent, shared.DealStageLost},
	shared.DealStagePitchSent:   {shared.DealStagePaymentSent, shared.DealStageLost},
	shared.DealStagePaymentSent: {shared.DealStagePaid, shared.DealStageLost},
	shared.DealStagePaid:        {},
	shared.DealStageLost:        {},
}

func (svc DealService) Id() string {
	return DEAL_SVC
}

func (svc *DealService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *DealService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	return nil
}

// ==================== LEADS ====================

func (svc *DealService) CreateLead(req dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := svc.sqlSvc.CreateLead(&model.Lead{
		Name:     req.Name,
		Whatsapp: req.Whatsapp,
		Email:    req.Email,
		Source:   req.Source,
		Notes:    req.Notes,
	})
	if err != nil {
		return nil, err
	}

	resp := mapLeadToResponse(lead)
	return &resp, nil
}

func (svc *DealService) ListLeads(limit int) ([]dto.LeadResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	leads, err := svc.sqlSvc.GetLeads(limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LeadResponse, len(leads))
	for i, lead := range leads {
		responses[i] = mapLeadToResponse(&lead)
	}
	return responses, nil
}

// ==================== DEALS ====================

func (svc *DealService) CreateDeal(req dto.CreateDealRequest) (*dto.DealResponse, error) {
	deal, err := svc.sqlSvc.CreateDeal(&model.Deal{
		LeadID:       req.LeadID,
		LeadName:     req.LeadName,
		LeadWhatsapp: req.LeadWhatsapp,
		Email:        req.Email,
		OfferName:    req.OfferName,
		PitchAmount:  req.PitchAmount,
		Stage:        shared.DealStageOpen,
	})
	if err != nil {
		return nil, err
	}

	resp := mapDealToResponse(deal, "")
	return &resp, nil
}

func (svc *DealService) GetDeal(dealID string) (*dto.DealResponse, error) {
	deal, err := svc.sqlSvc.GetDeal(dealID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Deal not found")
	}

	menteeID := ""
	if deal.Stage == shared.DealStagePaid {
		if mentee, err := svc.sqlSvc.GetMenteeByLinkedDeal(deal.ID); err == nil {
			menteeID = mentee.ID
		}
	}

	resp := mapDealToResponse(deal, menteeID)
	return &resp, nil
}

func (svc *DealService) ListDeals(stage string, limit int) ([]dto.DealResponse, error) {
	if stage != "" && !validDealStage(stage) {
		return nil, shared.NewBadRequestError(fmt.Errorf("stage %s", stage), "Invalid deal stage")
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	deals, err := svc.sqlSvc.GetDealsByStage(stage, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.DealResponse, len(deals))
	for i, deal := range deals {
		responses[i] = mapDealToResponse(&deal, "")
	}
	return responses, nil
}

// UpdateContact patches the deal's contact fields. Filling in the email
// is the usual unblock before a PAID transition.
func (svc *DealService) UpdateContact(dealID string, req dto.UpdateDealContactRequest) (*dto.DealResponse, error) {
	deal, err := svc.sqlSvc.GetDeal(dealID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Deal not found")
	}

	if req.Email != "" {
		deal.Email = req.Email
	}
	if req.Whatsapp != "" {
		deal.LeadWhatsapp = req.Whatsapp
	}

	if err := svc.sqlSvc.UpdateDeal(deal); err != nil {
		return nil, err
	}

	resp := mapDealToResponse(deal, "")
	return &resp, nil
}

// TransitionStage moves a deal along the pipeline. Illegal moves and
// PAID-without-email are refused with the deal left untouched. A
// successful PAID transition also materializes the client record.
func (svc *DealService) TransitionStage(dealID, target string) (*dto.DealResponse, error) {
	deal, err := svc.sqlSvc.GetDeal(dealID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Deal not found")
	}

	if !validDealStage(target) {
		return nil, shared.NewBadRequestError(fmt.Errorf("stage %s", target), "Invalid deal stage")
	}
	if !transitionAllowed(deal.Stage, target) {
		return nil, shared.NewBadRequestError(
			fmt.Errorf("transition %s -> %s", deal.Stage, target),
			fmt.Sprintf("Cannot move deal from %s to %s", deal.Stage, target))
	}
	if target == shared.DealStagePaid && strings.TrimSpace(deal.Email) == "" {
		return nil, shared.NewBadRequestError(fmt.Errorf("deal %s has no email", dealID), "Deal needs a contact email before it can be marked paid")
	}

	deal.Stage = target
	if target == shared.DealStagePaid || target == shared.DealStageLost {
		now := time.Now()
		deal.ClosedAt = &now
	}

	if err := svc.sqlSvc.UpdateDeal(deal); err != nil {
		return nil, err
	}

	menteeID := ""
	if target == shared.DealStagePaid {
		mentee, err := svc.EnsureClientExists(deal)
		if err != nil {
			// The deal is PAID regardless; conversion gets retried on the
			// next read or manual trigger.
			log.WithError(err).WithField("deal_id", deal.ID).Error("Failed to materialize client for paid deal")
		} else {
			menteeID = mentee.ID
		}
	}

	log.WithFields(log.Fields{
		"deal_id": deal.ID,
		"stage":   target,
	}).Info("Deal stage changed")

	resp := mapDealToResponse(deal, menteeID)
	return &resp, nil
}

// EnsureClientExists returns the mentee linked to the deal, creating one
// on first call. The unique index on linked_deal_id arbitrates races: the
// losing insert is a no-op and both callers read back the same row. The
// signing bonus and starter badge are only granted by the winning insert.
func (svc *DealService) EnsureClientExists(deal *model.Deal) (*model.Mentee, error) {
	if existing, err := svc.sqlSvc.GetMenteeByLinkedDeal(deal.ID); err == nil {
		return existing, nil
	}

	dealID := deal.ID
	mentee := model.Mentee{
		ID:           newID(),
		Name:         deal.LeadName,
		Email:        deal.Email,
		Whatsapp:     deal.LeadWhatsapp,
		Plan:         planFromOffer(deal.OfferName),
		CurrentStage: shared.StageOnboarding,
		LinkedDealID: &dealID,
	}

	res := svc.sqlSvc.Db().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "linked_deal_id"}},
		DoNothing: true,
	}).Create(&mentee)
	if res.Error != nil {
		return nil, svc.sqlSvc.HandleError(res.Error)
	}

	if res.RowsAffected == 0 {
		// Lost the race; the winner already enrolled the client.
		return svc.sqlSvc.GetMenteeByLinkedDeal(deal.ID)
	}

	if _, err := svc.progressionSvc.AddXP(mentee.ID, shared.SigningBonusXP); err != nil {
		log.WithError(err).WithField("mentee_id", mentee.ID).Error("Failed to grant signing bonus")
	}
	if err := svc.progressionSvc.UnlockBadge(mentee.ID, shared.BadgeJourneyStarted); err != nil {
		log.WithError(err).WithField("mentee_id", mentee.ID).Error("Failed to grant starter badge")
	}

	RecordDealConversion()
	log.WithFields(log.Fields{
		"deal_id":   deal.ID,
		"mentee_id": mentee.ID,
		"plan":      mentee.Plan,
	}).Info("Paid deal converted into mentee")

	return &mentee, nil
}

// planFromOffer infers the subscription plan from the offer's name; the
// six month package mentions its duration, everything else defaults to
// the three month plan.
func planFromOffer(offerName string) string {
	if strings.Contains(strings.ToLower(offerName), "6 meses") {
		return shared.PlanSixMonths
	}
	return shared.PlanThreeMonths
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range legalDealTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func validDealStage(stage string) bool {
	_, ok := legalDealTransitions[stage]
	return ok
}

func mapDealToResponse(deal *model.Deal, menteeID string) dto.DealResponse {
	return dto.DealResponse{
		ID:           deal.ID,
		LeadID:       deal.LeadID,
		LeadName:     deal.LeadName,
		LeadWhatsapp: deal.LeadWhatsapp,
		Email:        deal.Email,
		OfferName:    deal.OfferName,
		PitchAmount:  deal.PitchAmount,
		Stage:        deal.Stage,
		ClosedAt:     deal.ClosedAt,
		CreatedAt:    deal.CreatedAt,
		MenteeID:     menteeID,
	}
}

func mapLeadToResponse(lead *model.Lead) dto.LeadResponse {
	return dto.LeadResponse{
		ID:        lead.ID,
		Name:      lead.Name,
		Whatsapp:  lead.Whatsapp,
		Email:     lead.Email,
		Source:    lead.Source,
		Notes:     lead.Notes,
		CreatedAt: lead.CreatedAt,
	}
}
