package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

func newTestOnboardingService(t *testing.T, sqlSvc *SqlService) *OnboardingService {
	t.Helper()
	return &OnboardingService{
		sqlSvc:         sqlSvc,
		progressionSvc: newTestProgressionService(t, sqlSvc),
	}
}

func seedTestCatalog(t *testing.T, sqlSvc *SqlService) []model.OnboardingStep {
	t.Helper()

	specs := []struct {
		title    string
		required bool
		xp       int
		ct       string
	}{
		{"Welcome video", true, 50, shared.ContentTypeVideo},
		{"Profile form", false, 25, shared.ContentTypeForm},
		{"Join the group", true, 50, shared.ContentTypeLink},
	}

	steps := make([]model.OnboardingStep, len(specs))
	for i, spec := range specs {
		step, err := sqlSvc.CreateOnboardingStep(&model.OnboardingStep{
			Title:       spec.title,
			StepOrder:   i + 1,
			IsRequired:  spec.required,
			XPReward:    spec.xp,
			ContentType: spec.ct,
			IsActive:    true,
		})
		require.NoError(t, err)
		steps[i] = *step
	}
	return steps
}

func TestComputeStepStatusLocking(t *testing.T) {
	catalog := []model.OnboardingStep{
		{ID: "a", StepOrder: 1, IsRequired: true},
		{ID: "b", StepOrder: 2, IsRequired: false},
		{ID: "c", StepOrder: 3, IsRequired: true},
	}

	none := map[string]bool{}

	// Everything after an incomplete required step is locked.
	assert.Equal(t, shared.StepStatusAvailable, ComputeStepStatus(catalog, 0, none, none))
	assert.Equal(t, shared.StepStatusLocked, ComputeStepStatus(catalog, 1, none, none))
	assert.Equal(t, shared.StepStatusLocked, ComputeStepStatus(catalog, 2, none, none))

	// Completing the gate opens the rest; an incomplete optional step
	// locks nothing.
	aDone := map[string]bool{"a": true}
	assert.Equal(t, shared.StepStatusDone, ComputeStepStatus(catalog, 0, aDone, none))
	assert.Equal(t, shared.StepStatusAvailable, ComputeStepStatus(catalog, 1, aDone, none))
	assert.Equal(t, shared.StepStatusAvailable, ComputeStepStatus(catalog, 2, aDone, none))

	// A skipped required step is not a completed one: everything after it
	// stays locked. Only completion unlocks.
	aSkipped := map[string]bool{"a": true}
	assert.Equal(t, shared.StepStatusSkipped, ComputeStepStatus(catalog, 0, none, aSkipped))
	assert.Equal(t, shared.StepStatusLocked, ComputeStepStatus(catalog, 1, none, aSkipped))
	assert.Equal(t, shared.StepStatusLocked, ComputeStepStatus(catalog, 2, none, aSkipped))
}

func TestCompleteStepAwardsXPAndIsIdempotent(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOnboardingService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")
	steps := seedTestCatalog(t, sqlSvc)

	state, err := svc.CompleteStep(mentee.ID, steps[0].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, state.XPEarned)
	assert.Equal(t, 1, state.CompletedCount)

	stored, err := sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.XP)

	// Completing the same step again changes nothing.
	state, err = svc.CompleteStep(mentee.ID, steps[0].ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 50, state.XPEarned)
	assert.Equal(t, 1, state.CompletedCount)

	stored, err = sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.XP)
}

func TestCompleteStepRefusedWhileLocked(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOnboardingService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")
	steps := seedTestCatalog(t, sqlSvc)

	_, err := svc.CompleteStep(mentee.ID, steps[2].ID, nil)
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestFormStepRequiresAnswers(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOnboardingService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")
	steps := seedTestCatalog(t, sqlSvc)

	_, err := svc.CompleteStep(mentee.ID, steps[0].ID, nil)
	require.NoError(t, err)

	_, err = svc.CompleteStep(mentee.ID, steps[1].ID, nil)
	require.Error(t, err)

	state, err := svc.CompleteStep(mentee.ID, steps[1].ID, map[string]interface{}{"goal": "10k/month"})
	require.NoError(t, err)
	assert.Equal(t, 2, state.CompletedCount)
}

func TestSkipStepRules(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOnboardingService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")
	steps := seedTestCatalog(t, sqlSvc)

	// Required steps cannot be skipped.
	_, err := svc.SkipStep(mentee.ID, steps[0].ID)
	require.Error(t, err)

	_, err = svc.CompleteStep(mentee.ID, steps[0].ID, nil)
	require.NoError(t, err)

	state, err := svc.SkipStep(mentee.ID, steps[1].ID)
	require.NoError(t, err)
	assert.Equal(t, shared.StepStatusSkipped, state.Steps[1].Status)
	assert.Equal(t, 1, state.CompletedCount)

	// A skipped step grants no XP.
	stored, err := sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.XP)
}

func TestStageAdvancesWhenAllStepsCompleted(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOnboardingService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")
	steps := seedTestCatalog(t, sqlSvc)

	_, err := svc.CompleteStep(mentee.ID, steps[0].ID, nil)
	require.NoError(t, err)
	_, err = svc.CompleteStep(mentee.ID, steps[1].ID, map[string]interface{}{"goal": "scale"})
	require.NoError(t, err)

	state, err := svc.CompleteStep(mentee.ID, steps[2].ID, nil)
	require.NoError(t, err)
	assert.True(t, state.StageAdvanced)
	assert.Equal(t, shared.StageMining, state.CurrentStage)
	assert.Equal(t, 0, state.StageProgress)

	stored, err := sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.StageMining, stored.CurrentStage)
}

func TestSkippedStepDoesNotAdvanceStage(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestOnboardingService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")
	steps := seedTestCatalog(t, sqlSvc)

	_, err := svc.CompleteStep(mentee.ID, steps[0].ID, nil)
	require.NoError(t, err)
	_, err = svc.SkipStep(mentee.ID, steps[1].ID)
	require.NoError(t, err)

	state, err := svc.CompleteStep(mentee.ID, steps[2].ID, nil)
	require.NoError(t, err)
	assert.False(t, state.StageAdvanced)
	assert.Equal(t, shared.StageOnboarding, state.CurrentStage)
}
