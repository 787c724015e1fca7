package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

func newTestReminderService(t *testing.T, sqlSvc *SqlService, sender PushSender) *ReminderService {
	t.Helper()
	return &ReminderService{
		sqlSvc: sqlSvc,
		push:   sender,
	}
}

func createTestUser(t *testing.T, sqlSvc *SqlService, username string, tokens []string) *model.User {
	t.Helper()

	user, err := sqlSvc.CreateUser(&model.User{
		Username:     username,
		Email:        username + "@example.com",
		Role:         shared.RoleMentor,
		DeviceTokens: encodeTokenSet(tokens),
	})
	require.NoError(t, err)
	return user
}

func TestDueTaskCheckMatchesWindow(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	sender := &fakePushSender{}
	svc := newTestReminderService(t, sqlSvc, sender)
	user := createTestUser(t, sqlSvc, "mentor1", []string{"tok-1"})

	now := time.Now()
	window := 15 * time.Minute

	inWindow, err := sqlSvc.CreateTask(&model.Task{
		OwnerID: user.ID, OwnerRole: shared.RoleMentor,
		Title: "Call João", DueAt: now.Add(-5 * time.Minute), Status: shared.TaskStatusOpen,
	})
	require.NoError(t, err)

	_, err = sqlSvc.CreateTask(&model.Task{
		OwnerID: user.ID, OwnerRole: shared.RoleMentor,
		Title: "Too old", DueAt: now.Add(-window - time.Minute), Status: shared.TaskStatusOpen,
	})
	require.NoError(t, err)

	_, err = sqlSvc.CreateTask(&model.Task{
		OwnerID: user.ID, OwnerRole: shared.RoleMentor,
		Title: "Not due yet", DueAt: now.Add(10 * time.Minute), Status: shared.TaskStatusOpen,
	})
	require.NoError(t, err)

	done, err := sqlSvc.CreateTask(&model.Task{
		OwnerID: user.ID, OwnerRole: shared.RoleMentor,
		Title: "Already done", DueAt: now.Add(-5 * time.Minute), Status: shared.TaskStatusDone,
	})
	require.NoError(t, err)
	_ = done

	svc.RunDueTaskCheck(now, window)

	require.Len(t, sender.calls, 1)
	assert.Equal(t, []string{"tok-1"}, sender.calls[0].tokens)
	assert.Equal(t, inWindow.ID, sender.calls[0].data["task_id"])
}

func TestDueTaskCheckTokenFallbackChain(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	sender := &fakePushSender{}
	svc := newTestReminderService(t, sqlSvc, sender)

	now := time.Now()
	window := 15 * time.Minute

	// Mentee with own device tokens gets notified directly.
	menteeWithTokens := createTestMentee(t, sqlSvc, "Ana")
	menteeWithTokens.DeviceTokens = encodeTokenSet([]string{"mentee-tok"})
	require.NoError(t, sqlSvc.UpdateMentee(menteeWithTokens))

	// Mentee without tokens falls back to the linked operator account.
	linkedUser := createTestUser(t, sqlSvc, "mentor2", []string{"linked-tok"})
	menteeLinked := createTestMentee(t, sqlSvc, "Bia")
	menteeLinked.LinkedUserID = linkedUser.ID
	require.NoError(t, sqlSvc.UpdateMentee(menteeLinked))

	// Mentee with no tokens and no link is skipped silently.
	menteeUnreachable := createTestMentee(t, sqlSvc, "Caio")

	for _, ownerID := range []string{menteeWithTokens.ID, menteeLinked.ID, menteeUnreachable.ID} {
		_, err := sqlSvc.CreateTask(&model.Task{
			OwnerID: ownerID, OwnerRole: shared.RoleMentee,
			Title: "Homework", DueAt: now.Add(-time.Minute), Status: shared.TaskStatusOpen,
		})
		require.NoError(t, err)
	}

	svc.RunDueTaskCheck(now, window)

	require.Len(t, sender.calls, 2)
	var tokens []string
	for _, call := range sender.calls {
		tokens = append(tokens, call.tokens...)
	}
	assert.ElementsMatch(t, []string{"mentee-tok", "linked-tok"}, tokens)
}

func TestChipWarmupCheckNotifiesAtTargetDay(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	sender := &fakePushSender{}
	svc := newTestReminderService(t, sqlSvc, sender)
	user := createTestUser(t, sqlSvc, "mentor3", []string{"tok-1"})

	ready, err := sqlSvc.CreateChip(&model.Chip{
		OwnerUserID: user.ID, Label: "Chip A",
		Status: shared.ChipStatusWarming, WarmupDay: shared.ChipWarmupTargetDay,
	})
	require.NoError(t, err)

	_, err = sqlSvc.CreateChip(&model.Chip{
		OwnerUserID: user.ID, Label: "Chip B",
		Status: shared.ChipStatusWarming, WarmupDay: shared.ChipWarmupTargetDay - 1,
	})
	require.NoError(t, err)

	_, err = sqlSvc.CreateChip(&model.Chip{
		OwnerUserID: user.ID, Label: "Chip C",
		Status: shared.ChipStatusReady, WarmupDay: shared.ChipWarmupTargetDay,
	})
	require.NoError(t, err)

	svc.RunChipWarmupCheck(time.Now())

	require.Len(t, sender.calls, 1)
	assert.Equal(t, ready.ID, sender.calls[0].data["chip_id"])
}

func TestAdvanceChipOnlyWhileWarming(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestReminderService(t, sqlSvc, &fakePushSender{})
	user := createTestUser(t, sqlSvc, "mentor4", nil)

	chip, err := svc.CreateChip(user.ID, dto.CreateChipRequest{Label: "Chip A"})
	require.NoError(t, err)
	assert.Equal(t, 0, chip.WarmupDay)

	chip, err = svc.AdvanceChip(chip.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, chip.WarmupDay)

	chip, err = svc.MarkChipReady(chip.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.ChipStatusReady, chip.Status)

	_, err = svc.AdvanceChip(chip.ID)
	require.Error(t, err)
}

func TestCompleteTaskRemovesFromSweep(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	sender := &fakePushSender{}
	svc := newTestReminderService(t, sqlSvc, sender)
	user := createTestUser(t, sqlSvc, "mentor5", []string{"tok-1"})

	now := time.Now()
	task, err := svc.CreateTask(dto.CreateTaskRequest{
		OwnerID:   user.ID,
		OwnerRole: shared.RoleMentor,
		Title:     "Follow up",
		DueAt:     now.Add(-time.Minute),
	})
	require.NoError(t, err)

	completed, err := svc.CompleteTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, shared.TaskStatusDone, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	svc.RunDueTaskCheck(now, 15*time.Minute)
	assert.Empty(t, sender.calls)
}

func TestRegisterUserDeviceTokenDeduplicates(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestReminderService(t, sqlSvc, &fakePushSender{})
	user := createTestUser(t, sqlSvc, "mentor6", nil)

	require.NoError(t, svc.RegisterUserDeviceToken(user.ID, "tok-1"))
	require.NoError(t, svc.RegisterUserDeviceToken(user.ID, "tok-1"))

	stored, err := sqlSvc.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, decodeTokenSet(stored.DeviceTokens))
}
