// services/progression.go
package services

import (
	gocontext "context"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

// ProgressionService is the XP and badge ledger writer. XP awards are a
// single atomic increment at the store layer with the level re-derived
// from the post-increment value, so concurrent awards never lose XP and
// level can never drift from xp.
type ProgressionService struct {
	context.DefaultService

	sqlSvc   *SqlService
	cacheSvc *RedisService
}

const PROGRESSION_SVC = "progression_svc"

const menteeProgressCacheTTL = 5 * time.Minute

func (svc ProgressionService) Id() string {
	return PROGRESSION_SVC
}

func (svc *ProgressionService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ProgressionService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	if cache, ok := svc.Service(REDIS_SVC).(*RedisService); ok {
		svc.cacheSvc = cache
	}
	return nil
}

// EnrollMentee creates a mentee directly, outside the deal pipeline.
func (svc *ProgressionService) EnrollMentee(req dto.EnrollMenteeRequest) (*model.Mentee, error) {
	plan := req.Plan
	if plan == "" {
		plan = shared.PlanThreeMonths
	}

	return svc.sqlSvc.CreateMentee(&model.Mentee{
		Name:         req.Name,
		Email:        req.Email,
		Whatsapp:     req.Whatsapp,
		Plan:         plan,
		CurrentStage: shared.StageOnboarding,
	})
}

// AddXP applies an XP delta and returns the resulting ledger state.
// A missing mentee is not an error for callers: the award is logged and
// dropped, and the result is nil.
func (svc *ProgressionService) AddXP(menteeID string, amount int) (*dto.AddXPResponse, error) {
	if amount <= 0 {
		return nil, shared.NewBadRequestError(fmt.Errorf("amount %d", amount), "XP amount must be positive")
	}

	var mentee model.Mentee
	found := false
	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&mentee).
			Clauses(clause.Returning{}).
			Where("id = ?", menteeID).
			UpdateColumns(map[string]interface{}{
				"xp":         gorm.Expr("xp + ?", amount),
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		found = true

		// Level is derived from the post-increment XP inside the same
		// transaction as the increment, so a concurrent award cannot land a
		// stale level between the two statements.
		if newLevel := CalculateLevel(mentee.XP); newLevel != mentee.Level {
			return tx.Model(&model.Mentee{}).
				Where("id = ?", menteeID).
				UpdateColumn("level", newLevel).Error
		}
		return nil
	})
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}
	if !found {
		log.WithField("mentee_id", menteeID).Warn("XP award for unknown mentee dropped")
		return nil, nil
	}

	newXP := mentee.XP
	oldLevel := mentee.Level
	newLevel := CalculateLevel(newXP)

	if newLevel > oldLevel {
		log.WithFields(log.Fields{
			"mentee_id": menteeID,
			"level":     newLevel,
		}).Info("Mentee leveled up")
	}

	svc.invalidateProgress(menteeID)
	RecordXPAward(amount)

	return &dto.AddXPResponse{
		NewXP:     newXP,
		NewLevel:  newLevel,
		LeveledUp: newLevel > oldLevel,
	}, nil
}

// UnlockBadge grants a badge. Granting an already-held badge is a no-op;
// the composite unique index on (mentee_id, badge_id) makes the write
// idempotent under retries and concurrent callers.
func (svc *ProgressionService) UnlockBadge(menteeID, badgeID string) error {
	if _, err := svc.sqlSvc.GetMentee(menteeID); err != nil {
		log.WithFields(log.Fields{
			"mentee_id": menteeID,
			"badge_id":  badgeID,
		}).Warn("Badge unlock for unknown mentee dropped")
		return nil
	}

	badge := model.MenteeBadge{
		ID:         newID(),
		MenteeID:   menteeID,
		BadgeID:    badgeID,
		UnlockedAt: time.Now(),
		CreatedAt:  time.Now(),
	}

	err := svc.sqlSvc.Db().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "mentee_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&badge).Error
	if err != nil {
		return svc.sqlSvc.HandleError(err)
	}

	svc.invalidateProgress(menteeID)
	return nil
}

// GetMenteeProgress builds the read model for a mentee's progression,
// served from cache when fresh.
func (svc *ProgressionService) GetMenteeProgress(menteeID string) (*dto.MenteeProgressResponse, error) {
	cacheKey := menteeProgressCacheKey(menteeID)
	if svc.cacheSvc != nil {
		var cached dto.MenteeProgressResponse
		if err := svc.cacheSvc.GetJSON(gocontext.Background(), cacheKey, &cached); err == nil && cached.MenteeID != "" {
			return &cached, nil
		}
	}

	mentee, err := svc.sqlSvc.GetMentee(menteeID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Mentee not found")
	}

	badges, err := svc.sqlSvc.GetMenteeBadges(menteeID)
	if err != nil {
		log.WithError(err).WithField("mentee_id", menteeID).Error("Failed to load mentee badges")
		badges = []model.MenteeBadge{}
	}

	badgeResponses := make([]dto.BadgeResponse, len(badges))
	for i, b := range badges {
		badgeResponses[i] = dto.BadgeResponse{
			BadgeID:    b.BadgeID,
			UnlockedAt: b.UnlockedAt,
		}
	}

	level := CalculateLevel(mentee.XP)
	resp := &dto.MenteeProgressResponse{
		MenteeID:        mentee.ID,
		Name:            mentee.Name,
		XP:              mentee.XP,
		Level:           level,
		ProgressPercent: ProgressPercent(mentee.XP, level),
		XPToNextLevel:   XPCeiling(level) - mentee.XP,
		CurrentStage:    mentee.CurrentStage,
		StageProgress:   mentee.StageProgress,
		Blocked:         mentee.Blocked,
		Badges:          badgeResponses,
	}

	if svc.cacheSvc != nil {
		if err := svc.cacheSvc.Set(gocontext.Background(), cacheKey, resp, menteeProgressCacheTTL); err != nil {
			log.WithError(err).Debug("Failed to cache mentee progress")
		}
	}

	return resp, nil
}

// RegisterDeviceToken adds a push token to the mentee's token set.
func (svc *ProgressionService) RegisterDeviceToken(menteeID, token string) error {
	mentee, err := svc.sqlSvc.GetMentee(menteeID)
	if err != nil {
		return shared.NewNotFoundError(err, "Mentee not found")
	}

	tokens := decodeTokenSet(mentee.DeviceTokens)
	for _, t := range tokens {
		if t == token {
			return nil
		}
	}
	tokens = append(tokens, token)

	mentee.DeviceTokens = encodeTokenSet(tokens)
	return svc.sqlSvc.UpdateMentee(mentee)
}

func (svc *ProgressionService) invalidateProgress(menteeID string) {
	if svc.cacheSvc == nil {
		return
	}
	if err := svc.cacheSvc.Delete(gocontext.Background(), menteeProgressCacheKey(menteeID)); err != nil {
		log.WithError(err).Debug("Failed to invalidate mentee progress cache")
	}
}

func menteeProgressCacheKey(menteeID string) string {
	return "mentee:progress:" + menteeID
}
