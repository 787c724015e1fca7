// services/onboarding.go
package services

import (
	"encoding/json"
	"fmt"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

// OnboardingService walks mentees through the ordered step catalog.
// Step status is never stored; it is recomputed from the completed and
// skipped sets on every read so there is a single source of truth.
type OnboardingService struct {
	context.DefaultService

	sqlSvc         *SqlService
	progressionSvc *ProgressionService
}

const ONBOARDING_SVC = "onboarding_svc"

func (svc OnboardingService) Id() string {
	return ONBOARDING_SVC
}

func (svc *OnboardingService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *OnboardingService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	return nil
}

// ComputeStepStatus derives the status of catalog[idx] for one mentee.
// A step is locked while any earlier-ordered required step is not
// completed — a skipped required step does not unlock anything.
func ComputeStepStatus(catalog []model.OnboardingStep, idx int, completed, skipped map[string]bool) string {
	step := catalog[idx]
	if completed[step.ID] {
		return shared.StepStatusDone
	}
	if skipped[step.ID] {
		return shared.StepStatusSkipped
	}
	for _, earlier := range catalog[:idx] {
		if earlier.IsRequired && !completed[earlier.ID] {
			return shared.StepStatusLocked
		}
	}
	return shared.StepStatusAvailable
}

// GetState returns the full derived onboarding state for a mentee.
func (svc *OnboardingService) GetState(menteeID string) (*dto.OnboardingStateResponse, error) {
	mentee, err := svc.sqlSvc.GetMentee(menteeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Mentee not found")
	}

	catalog, err := svc.sqlSvc.GetOnboardingSteps()
	if err != nil {
		return nil, err
	}

	progress, err := svc.getOrCreateProgress(menteeID)
	if err != nil {
		return nil, err
	}

	completed := decodeIDSet(progress.CompletedStepIDs)
	skipped := decodeIDSet(progress.SkippedStepIDs)

	return svc.buildState(mentee, catalog, progress, completed, skipped, false), nil
}

// CompleteStep marks a step done, captures any form answers, awards the
// step's XP, and advances the mentee's program stage once every catalog
// step (optional ones included) is completed while still onboarding.
func (svc *OnboardingService) CompleteStep(menteeID, stepID string, formData map[string]interface{}) (*dto.OnboardingStateResponse, error) {
	mentee, err := svc.sqlSvc.GetMentee(menteeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Mentee not found")
	}

	catalog, err := svc.sqlSvc.GetOnboardingSteps()
	if err != nil {
		return nil, err
	}

	idx := stepIndex(catalog, stepID)
	if idx < 0 {
		return nil, shared.NewNotFoundError(fmt.Errorf("step %s", stepID), "Onboarding step not found")
	}
	step := catalog[idx]

	progress, err := svc.getOrCreateProgress(menteeID)
	if err != nil {
		return nil, err
	}

	completed := decodeIDSet(progress.CompletedStepIDs)
	skipped := decodeIDSet(progress.SkippedStepIDs)

	switch ComputeStepStatus(catalog, idx, completed, skipped) {
	case shared.StepStatusDone:
		// Completing twice is a no-op; the XP was already granted.
		return svc.buildState(mentee, catalog, progress, completed, skipped, false), nil
	case shared.StepStatusLocked:
		return nil, shared.NewBadRequestError(fmt.Errorf("step %s locked", stepID), "Step is locked by an earlier required step")
	}

	if err := svc.validateCompletionInput(step, formData); err != nil {
		return nil, err
	}

	completed[step.ID] = true
	progress.CompletedStepIDs = encodeIDSet(completed)
	progress.XPEarned += step.XPReward

	if len(formData) > 0 {
		stepData := map[string]map[string]interface{}{}
		if progress.StepData != nil {
			if err := json.Unmarshal(progress.StepData, &stepData); err != nil {
				stepData = map[string]map[string]interface{}{}
			}
		}
		stepData[step.ID] = formData
		if raw, err := json.Marshal(stepData); err == nil {
			progress.StepData = raw
		}
	}

	if err := svc.sqlSvc.UpdateOnboardingProgress(progress); err != nil {
		return nil, err
	}

	if step.XPReward > 0 {
		if _, err := svc.progressionSvc.AddXP(menteeID, step.XPReward); err != nil {
			log.WithError(err).WithField("mentee_id", menteeID).Error("Failed to award step XP")
		}
	}

	stageAdvanced := false
	if mentee.CurrentStage == shared.StageOnboarding && len(completed) == len(catalog) {
		if next, ok := shared.NextStage(mentee.CurrentStage); ok {
			if err := svc.sqlSvc.UpdateMenteeColumns(menteeID, map[string]interface{}{
				"current_stage":  next,
				"stage_progress": 0,
			}); err != nil {
				return nil, err
			}
			mentee.CurrentStage = next
			mentee.StageProgress = 0
			stageAdvanced = true
			log.WithFields(log.Fields{
				"mentee_id": menteeID,
				"stage":     next,
			}).Info("Mentee finished onboarding, stage advanced")
		}
	}

	return svc.buildState(mentee, catalog, progress, completed, skipped, stageAdvanced), nil
}

// SkipStep records a step as skipped. Required steps cannot be skipped:
// downstream steps only unlock on completion, so allowing it would
// dead-end the rest of the catalog.
func (svc *OnboardingService) SkipStep(menteeID, stepID string) (*dto.OnboardingStateResponse, error) {
	mentee, err := svc.sqlSvc.GetMentee(menteeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Mentee not found")
	}

	catalog, err := svc.sqlSvc.GetOnboardingSteps()
	if err != nil {
		return nil, err
	}

	idx := stepIndex(catalog, stepID)
	if idx < 0 {
		return nil, shared.NewNotFoundError(fmt.Errorf("step %s", stepID), "Onboarding step not found")
	}
	step := catalog[idx]

	if step.IsRequired {
		return nil, shared.NewBadRequestError(fmt.Errorf("step %s required", stepID), "Required steps cannot be skipped")
	}

	progress, err := svc.getOrCreateProgress(menteeID)
	if err != nil {
		return nil, err
	}

	completed := decodeIDSet(progress.CompletedStepIDs)
	skipped := decodeIDSet(progress.SkippedStepIDs)

	switch ComputeStepStatus(catalog, idx, completed, skipped) {
	case shared.StepStatusDone:
		return nil, shared.NewBadRequestError(fmt.Errorf("step %s done", stepID), "Completed steps cannot be skipped")
	case shared.StepStatusLocked:
		return nil, shared.NewBadRequestError(fmt.Errorf("step %s locked", stepID), "Step is locked by an earlier required step")
	case shared.StepStatusSkipped:
		return svc.buildState(mentee, catalog, progress, completed, skipped, false), nil
	}

	skipped[step.ID] = true
	progress.SkippedStepIDs = encodeIDSet(skipped)

	if err := svc.sqlSvc.UpdateOnboardingProgress(progress); err != nil {
		return nil, err
	}

	return svc.buildState(mentee, catalog, progress, completed, skipped, false), nil
}

// CreateStep registers a new catalog entry (admin surface).
func (svc *OnboardingService) CreateStep(req dto.CreateStepRequest) (*dto.StepResponse, error) {
	if !shared.ValidContentType(req.ContentType) {
		return nil, shared.NewBadRequestError(fmt.Errorf("content type %s", req.ContentType), "Invalid content type")
	}

	step := &model.OnboardingStep{
		Title:       req.Title,
		Description: req.Description,
		StepOrder:   req.Order,
		IsRequired:  req.IsRequired,
		XPReward:    req.XPReward,
		ContentType: req.ContentType,
		IsActive:    true,
	}

	created, err := svc.sqlSvc.CreateOnboardingStep(step)
	if err != nil {
		return nil, err
	}

	resp := mapStepToResponse(created)
	return &resp, nil
}

// ListSteps returns the active catalog in gate order.
func (svc *OnboardingService) ListSteps() ([]dto.StepResponse, error) {
	catalog, err := svc.sqlSvc.GetOnboardingSteps()
	if err != nil {
		return nil, err
	}

	responses := make([]dto.StepResponse, len(catalog))
	for i, step := range catalog {
		responses[i] = mapStepToResponse(&step)
	}
	return responses, nil
}

// validateCompletionInput is the per-content-type completion hook. The
// switch is exhaustive over the closed content-type set.
func (svc *OnboardingService) validateCompletionInput(step model.OnboardingStep, formData map[string]interface{}) error {
	switch step.ContentType {
	case shared.ContentTypeForm:
		if len(formData) == 0 {
			return shared.NewBadRequestError(fmt.Errorf("step %s", step.ID), "Form steps require form answers")
		}
		return nil
	case shared.ContentTypeVideo, shared.ContentTypePdf, shared.ContentTypeLink, shared.ContentTypeAction:
		return nil
	default:
		return shared.NewInternalError(fmt.Errorf("content type %s", step.ContentType), "Unknown step content type")
	}
}

func (svc *OnboardingService) getOrCreateProgress(menteeID string) (*model.OnboardingProgress, error) {
	progress, err := svc.sqlSvc.GetOnboardingProgress(menteeID)
	if err == nil {
		return progress, nil
	}

	progress = &model.OnboardingProgress{
		MenteeID:         menteeID,
		CompletedStepIDs: json.RawMessage("[]"),
		SkippedStepIDs:   json.RawMessage("[]"),
		StepData:         json.RawMessage("{}"),
	}
	return svc.sqlSvc.CreateOnboardingProgress(progress)
}

func (svc *OnboardingService) buildState(mentee *model.Mentee, catalog []model.OnboardingStep, progress *model.OnboardingProgress, completed, skipped map[string]bool, stageAdvanced bool) *dto.OnboardingStateResponse {
	steps := make([]dto.StepStatusResponse, len(catalog))
	for i, step := range catalog {
		steps[i] = dto.StepStatusResponse{
			StepResponse: mapStepToResponse(&step),
			Status:       ComputeStepStatus(catalog, i, completed, skipped),
		}
	}

	return &dto.OnboardingStateResponse{
		MenteeID:       mentee.ID,
		CurrentStage:   mentee.CurrentStage,
		StageProgress:  mentee.StageProgress,
		XPEarned:       progress.XPEarned,
		CompletedCount: len(completed),
		TotalSteps:     len(catalog),
		StageAdvanced:  stageAdvanced,
		Steps:          steps,
	}
}

func mapStepToResponse(step *model.OnboardingStep) dto.StepResponse {
	return dto.StepResponse{
		ID:          step.ID,
		Title:       step.Title,
		Description: step.Description,
		Order:       step.StepOrder,
		IsRequired:  step.IsRequired,
		XPReward:    step.XPReward,
		ContentType: step.ContentType,
		AssetKey:    step.AssetKey,
	}
}

func stepIndex(catalog []model.OnboardingStep, stepID string) int {
	for i, step := range catalog {
		if step.ID == stepID {
			return i
		}
	}
	return -1
}

func decodeIDSet(raw json.RawMessage) map[string]bool {
	set := map[string]bool{}
	if raw == nil {
		return set
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func encodeIDSet(set map[string]bool) json.RawMessage {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return json.RawMessage("[]")
	}
	return raw
}
