package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apex-mentoria/apex_api/shared"
)

func TestAddXPAccumulatesAndLevels(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")

	result, err := svc.AddXP(mentee.ID, 60)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 60, result.NewXP)
	assert.Equal(t, 0, result.NewLevel)
	assert.False(t, result.LeveledUp)

	result, err = svc.AddXP(mentee.ID, 60)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 120, result.NewXP)
	assert.Equal(t, 1, result.NewLevel)
	assert.True(t, result.LeveledUp)

	stored, err := sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, stored.XP)
	assert.Equal(t, 1, stored.Level)
}

func TestAddXPConcurrentAwardsKeepLevelConsistent(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")

	// One connection serializes the sqlite writers while still letting
	// goroutines interleave between statements.
	sqlDB, err := sqlSvc.Db().DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	const workers = 10
	const perWorker = 3
	const amount = 20

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := svc.AddXP(mentee.ID, amount)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	stored, err := sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker*amount, stored.XP)
	assert.Equal(t, CalculateLevel(stored.XP), stored.Level)
}

func TestAddXPRejectsNonPositiveAmount(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")

	_, err := svc.AddXP(mentee.ID, 0)
	assert.Error(t, err)

	_, err = svc.AddXP(mentee.ID, -10)
	assert.Error(t, err)

	stored, err := sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.XP)
}

func TestAddXPUnknownMenteeIsDropped(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)

	result, err := svc.AddXP("missing-id", 50)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestUnlockBadgeIsIdempotent(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")

	require.NoError(t, svc.UnlockBadge(mentee.ID, shared.BadgeJourneyStarted))
	require.NoError(t, svc.UnlockBadge(mentee.ID, shared.BadgeJourneyStarted))

	badges, err := sqlSvc.GetMenteeBadges(mentee.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, shared.BadgeJourneyStarted, badges[0].BadgeID)
}

func TestUnlockBadgeUnknownMenteeIsDropped(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)

	require.NoError(t, svc.UnlockBadge("missing-id", shared.BadgeJourneyStarted))
}

func TestGetMenteeProgressDerivesFromXP(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")

	_, err := svc.AddXP(mentee.ID, 250)
	require.NoError(t, err)
	require.NoError(t, svc.UnlockBadge(mentee.ID, shared.BadgeJourneyStarted))

	progress, err := svc.GetMenteeProgress(mentee.ID)
	require.NoError(t, err)

	assert.Equal(t, 250, progress.XP)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 50, progress.ProgressPercent)
	assert.Equal(t, 150, progress.XPToNextLevel)
	assert.Equal(t, shared.StageOnboarding, progress.CurrentStage)
	require.Len(t, progress.Badges, 1)
}

func TestRegisterDeviceTokenDeduplicates(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	svc := newTestProgressionService(t, sqlSvc)
	mentee := createTestMentee(t, sqlSvc, "Ana")

	require.NoError(t, svc.RegisterDeviceToken(mentee.ID, "tok-1"))
	require.NoError(t, svc.RegisterDeviceToken(mentee.ID, "tok-1"))
	require.NoError(t, svc.RegisterDeviceToken(mentee.ID, "tok-2"))

	stored, err := sqlSvc.GetMentee(mentee.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, decodeTokenSet(stored.DeviceTokens))
}
