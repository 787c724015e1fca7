// services/sql.go
package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

// SqlService owns the gorm connection and every typed accessor used by the
// domain services. DB_DRIVER selects postgres (default) or sqlite for
// local runs.
type SqlService struct {
	context.DefaultService
	db *gorm.DB

	driver   string
	database string
}

const SQL_SVC = "sql_svc"

func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw gorm db
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "postgres"
	}

	if ds.driver == "sqlite" {
		ds.database = os.Getenv("DB_DATABASE")
		if ds.database == "" {
			ds.database = "apex.db"
		}
		return ds.DefaultService.Configure(ctx)
	}

	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := envOr("DB_PASSWORD", "postgres")
		dbname := envOr("DB_NAME", "apex_api")
		sslmode := envOr("DB_SSLMODE", "disable")
		timezone := envOr("DB_TIMEZONE", "UTC")

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (ds *SqlService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = ds.open()
		if err == nil {
			break
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	return ds.migrate()
}

func (ds *SqlService) open() error {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	}

	var err error
	if ds.driver == "sqlite" {
		ds.db, err = gorm.Open(sqlite.Open(ds.database), cfg)
	} else {
		ds.db, err = gorm.Open(postgres.Open(ds.database), cfg)
	}
	if err != nil {
		return err
	}

	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (ds *SqlService) migrate() error {
	models := []interface{}{
		&model.User{},
		&model.Mentee{},
		&model.MenteeBadge{},
		&model.OnboardingStep{},
		&model.OnboardingProgress{},
		&model.Lead{},
		&model.Deal{},
		&model.Offer{},
		&model.OfferDailyStat{},
		&model.Chip{},
		&model.Task{},
	}

	if err := ds.db.AutoMigrate(models...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (ds *SqlService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
			strings.Contains(err.Error(), "duplicate key value") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}

func newID() string {
	id, _ := uuid.NewV7()
	return id.String()
}

// ==================== MENTEE METHODS ====================

func (ds *SqlService) CreateMentee(mentee *model.Mentee) (*model.Mentee, error) {
	if mentee.ID == "" {
		mentee.ID = newID()
	}
	if err := ds.db.Create(mentee).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return mentee, nil
}

func (ds *SqlService) GetMentee(id string) (*model.Mentee, error) {
	var mentee model.Mentee
	if err := ds.db.Where("id = ?", id).First(&mentee).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &mentee, nil
}

func (ds *SqlService) GetMenteeByLinkedDeal(dealID string) (*model.Mentee, error) {
	var mentee model.Mentee
	if err := ds.db.Where("linked_deal_id = ?", dealID).First(&mentee).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &mentee, nil
}

func (ds *SqlService) UpdateMentee(mentee *model.Mentee) error {
	mentee.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(mentee).Error)
}

func (ds *SqlService) UpdateMenteeColumns(menteeID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return ds.HandleError(ds.db.Model(&model.Mentee{}).Where("id = ?", menteeID).Updates(updates).Error)
}

func (ds *SqlService) GetMenteeBadges(menteeID string) ([]model.MenteeBadge, error) {
	var badges []model.MenteeBadge
	if err := ds.db.Where("mentee_id = ?", menteeID).Order("unlocked_at ASC").Find(&badges).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return badges, nil
}

// ==================== ONBOARDING METHODS ====================

func (ds *SqlService) CreateOnboardingStep(step *model.OnboardingStep) (*model.OnboardingStep, error) {
	if step.ID == "" {
		step.ID = newID()
	}
	if err := ds.db.Create(step).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return step, nil
}

func (ds *SqlService) GetOnboardingStep(id string) (*model.OnboardingStep, error) {
	var step model.OnboardingStep
	if err := ds.db.Where("id = ?", id).First(&step).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &step, nil
}

// GetOnboardingSteps returns the active step catalog in gate order.
func (ds *SqlService) GetOnboardingSteps() ([]model.OnboardingStep, error) {
	var steps []model.OnboardingStep
	if err := ds.db.Where("is_active = ?", true).Order("step_order ASC").Find(&steps).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return steps, nil
}

func (ds *SqlService) UpdateOnboardingStep(step *model.OnboardingStep) error {
	step.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(step).Error)
}

func (ds *SqlService) GetOnboardingProgress(menteeID string) (*model.OnboardingProgress, error) {
	var progress model.OnboardingProgress
	if err := ds.db.Where("mentee_id = ?", menteeID).First(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

func (ds *SqlService) CreateOnboardingProgress(progress *model.OnboardingProgress) (*model.OnboardingProgress, error) {
	if progress.ID == "" {
		progress.ID = newID()
	}
	if err := ds.db.Create(progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return progress, nil
}

func (ds *SqlService) UpdateOnboardingProgress(progress *model.OnboardingProgress) error {
	progress.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(progress).Error)
}

// ==================== LEAD / DEAL METHODS ====================

func (ds *SqlService) CreateLead(lead *model.Lead) (*model.Lead, error) {
	if lead.ID == "" {
		lead.ID = newID()
	}
	if err := ds.db.Create(lead).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lead, nil
}

func (ds *SqlService) GetLeads(limit int) ([]model.Lead, error) {
	var leads []model.Lead
	if err := ds.db.Order("created_at DESC").Limit(limit).Find(&leads).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return leads, nil
}

func (ds *SqlService) CreateDeal(deal *model.Deal) (*model.Deal, error) {
	if deal.ID == "" {
		deal.ID = newID()
	}
	if err := ds.db.Create(deal).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return deal, nil
}

func (ds *SqlService) GetDeal(id string) (*model.Deal, error) {
	var deal model.Deal
	if err := ds.db.Where("id = ?", id).First(&deal).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &deal, nil
}

func (ds *SqlService) GetDealsByStage(stage string, limit int) ([]model.Deal, error) {
	var deals []model.Deal
	query := ds.db.Order("created_at DESC").Limit(limit)
	if stage != "" {
		query = query.Where("stage = ?", stage)
	}
	if err := query.Find(&deals).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return deals, nil
}

func (ds *SqlService) UpdateDeal(deal *model.Deal) error {
	deal.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(deal).Error)
}

// ==================== OFFER METHODS ====================

func (ds *SqlService) CreateOffer(offer *model.Offer) (*model.Offer, error) {
	if offer.ID == "" {
		offer.ID = newID()
	}
	if err := ds.db.Create(offer).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return offer, nil
}

func (ds *SqlService) GetOffer(id string) (*model.Offer, error) {
	var offer model.Offer
	if err := ds.db.Where("id = ?", id).First(&offer).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &offer, nil
}

func (ds *SqlService) GetOfferDailyStats(offerID string) ([]model.OfferDailyStat, error) {
	var stats []model.OfferDailyStat
	if err := ds.db.Where("offer_id = ?", offerID).Order("stat_date ASC").Find(&stats).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return stats, nil
}

// ==================== CHIP / TASK METHODS ====================

func (ds *SqlService) CreateChip(chip *model.Chip) (*model.Chip, error) {
	if chip.ID == "" {
		chip.ID = newID()
	}
	if err := ds.db.Create(chip).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return chip, nil
}

func (ds *SqlService) GetChip(id string) (*model.Chip, error) {
	var chip model.Chip
	if err := ds.db.Where("id = ?", id).First(&chip).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &chip, nil
}

func (ds *SqlService) GetChipsByOwner(ownerUserID string) ([]model.Chip, error) {
	var chips []model.Chip
	if err := ds.db.Where("owner_user_id = ?", ownerUserID).Order("created_at DESC").Find(&chips).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return chips, nil
}

// GetWarmingChipsAtDay returns chips still warming whose counter sits
// exactly at the given day.
func (ds *SqlService) GetWarmingChipsAtDay(day int) ([]model.Chip, error) {
	var chips []model.Chip
	if err := ds.db.Where("status = ? AND warmup_day = ?", shared.ChipStatusWarming, day).Find(&chips).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return chips, nil
}

func (ds *SqlService) UpdateChip(chip *model.Chip) error {
	chip.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(chip).Error)
}

func (ds *SqlService) CreateTask(task *model.Task) (*model.Task, error) {
	if task.ID == "" {
		task.ID = newID()
	}
	if err := ds.db.Create(task).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return task, nil
}

func (ds *SqlService) GetTask(id string) (*model.Task, error) {
	var task model.Task
	if err := ds.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &task, nil
}

func (ds *SqlService) GetTasksByOwner(ownerID string, limit int) ([]model.Task, error) {
	var tasks []model.Task
	if err := ds.db.Where("owner_id = ?", ownerID).Order("due_at ASC").Limit(limit).Find(&tasks).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return tasks, nil
}

// GetTasksDueInWindow returns not-done tasks whose due timestamp falls in
// (from, to]. The window is half-open so back-to-back runs never match the
// same instant twice.
func (ds *SqlService) GetTasksDueInWindow(from, to time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := ds.db.Where("due_at > ? AND due_at <= ? AND status <> ?", from, to, shared.TaskStatusDone).Find(&tasks).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return tasks, nil
}

func (ds *SqlService) UpdateTask(task *model.Task) error {
	task.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(task).Error)
}

// ==================== USER METHODS ====================

func (ds *SqlService) CreateUser(user *model.User) (*model.User, error) {
	if user.ID == "" {
		user.ID = newID()
	}
	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *SqlService) GetUser(id string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *SqlService) UpdateUser(user *model.User) error {
	user.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(user).Error)
}
