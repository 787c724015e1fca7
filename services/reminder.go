// services/reminder.go
package services

import (
	gocontext "context"
	"fmt"
	"os"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/model"
	"github.com/apex-mentoria/apex_api/shared"
)

// ReminderService owns chips and tasks and runs the two background
// matchers: a daily sweep for chips that finished warming and a
// fifteen minute sweep for tasks that just came due. Notifications are
// at-least-once; a crash between send and the next tick can repeat one.
type ReminderService struct {
	context.DefaultService

	sqlSvc *SqlService
	push   PushSender

	chipInterval time.Duration
	taskInterval time.Duration

	stopCh chan struct{}
}

const REMINDER_SVC = "reminder_svc"

func (svc ReminderService) Id() string {
	return REMINDER_SVC
}

func (svc *ReminderService) Configure(ctx *context.Context) error {
	svc.chipInterval = durationEnv("CHIP_CHECK_INTERVAL", 24*time.Hour)
	svc.taskInterval = durationEnv("TASK_CHECK_INTERVAL", 15*time.Minute)
	svc.stopCh = make(chan struct{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *ReminderService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	if sender, ok := svc.Service(PUSH_SVC).(PushSender); ok {
		svc.push = sender
	}

	go svc.runLoop("chip_warmup", svc.chipInterval, func(now time.Time) {
		svc.RunChipWarmupCheck(now)
	})
	go svc.runLoop("due_tasks", svc.taskInterval, func(now time.Time) {
		svc.RunDueTaskCheck(now, svc.taskInterval)
	})

	return nil
}

func (svc *ReminderService) Shutdown() {
	close(svc.stopCh)
}

func (svc *ReminderService) runLoop(name string, interval time.Duration, run func(now time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-svc.stopCh:
			return
		case now := <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(log.Fields{
							"loop":  name,
							"panic": r,
						}).Error("Reminder loop run panicked")
					}
				}()
				run(now)
			}()
		}
	}
}

// ==================== MATCHERS ====================

// RunChipWarmupCheck notifies owners of chips that are still warming and
// have reached the target warmup day.
func (svc *ReminderService) RunChipWarmupCheck(now time.Time) {
	chips, err := svc.sqlSvc.GetWarmingChipsAtDay(shared.ChipWarmupTargetDay)
	if err != nil {
		log.WithError(err).Error("Chip warmup sweep failed")
		return
	}

	for _, chip := range chips {
		tokens := svc.resolveUserTokens(chip.OwnerUserID)
		if len(tokens) == 0 {
			RecordReminderSkipped()
			continue
		}

		err := svc.send(tokens,
			"Chip pronto",
			fmt.Sprintf("O chip %s terminou o aquecimento e está pronto para uso.", chip.Label),
			map[string]string{"chip_id": chip.ID})
		if err != nil {
			log.WithError(err).WithField("chip_id", chip.ID).Error("Failed to send chip warmup reminder")
			continue
		}
		RecordReminderSent()
	}

	log.WithFields(log.Fields{
		"chips": len(chips),
		"at":    now.Format(time.RFC3339),
	}).Debug("Chip warmup sweep finished")
}

// RunDueTaskCheck notifies owners of tasks whose due time fell inside the
// window (now-window, now]. Owners with no reachable device are skipped
// silently.
func (svc *ReminderService) RunDueTaskCheck(now time.Time, window time.Duration) {
	tasks, err := svc.sqlSvc.GetTasksDueInWindow(now.Add(-window), now)
	if err != nil {
		log.WithError(err).Error("Due task sweep failed")
		return
	}

	for _, task := range tasks {
		tokens := svc.resolveTaskTokens(&task)
		if len(tokens) == 0 {
			RecordReminderSkipped()
			continue
		}

		err := svc.send(tokens,
			"Tarefa vencendo",
			fmt.Sprintf("A tarefa \"%s\" venceu agora.", task.Title),
			map[string]string{"task_id": task.ID})
		if err != nil {
			log.WithError(err).WithField("task_id", task.ID).Error("Failed to send due task reminder")
			continue
		}
		RecordReminderSent()
	}

	log.WithFields(log.Fields{
		"tasks": len(tasks),
		"at":    now.Format(time.RFC3339),
	}).Debug("Due task sweep finished")
}

func (svc *ReminderService) send(tokens []string, title, body string, data map[string]string) error {
	if svc.push == nil {
		return fmt.Errorf("push sender not configured")
	}
	ctx, cancel := gocontext.WithTimeout(gocontext.Background(), 10*time.Second)
	defer cancel()
	return svc.push.Send(ctx, tokens, title, body, data)
}

// resolveUserTokens returns the push tokens registered by an operator
// account. Chips belong to operators, so there is no mentee fallback.
func (svc *ReminderService) resolveUserTokens(userID string) []string {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil
	}
	return decodeTokenSet(user.DeviceTokens)
}

// resolveTaskTokens walks the owner's token chain; the first non-empty
// token list wins. Mentor tasks resolve against the user record only.
// Other owners try a user record under the owner id, then the mentee
// record, then the mentee's linked operator account.
func (svc *ReminderService) resolveTaskTokens(task *model.Task) []string {
	if task.OwnerRole == shared.RoleMentor {
		return svc.resolveUserTokens(task.OwnerID)
	}

	if tokens := svc.resolveUserTokens(task.OwnerID); len(tokens) > 0 {
		return tokens
	}

	mentee, err := svc.sqlSvc.GetMentee(task.OwnerID)
	if err != nil {
		return nil
	}

	if tokens := decodeTokenSet(mentee.DeviceTokens); len(tokens) > 0 {
		return tokens
	}
	if mentee.LinkedUserID != "" {
		return svc.resolveUserTokens(mentee.LinkedUserID)
	}
	return nil
}

// ==================== CHIPS ====================

func (svc *ReminderService) CreateChip(ownerUserID string, req dto.CreateChipRequest) (*dto.ChipResponse, error) {
	chip, err := svc.sqlSvc.CreateChip(&model.Chip{
		OwnerUserID: ownerUserID,
		Label:       req.Label,
		PhoneNumber: req.PhoneNumber,
		Status:      shared.ChipStatusWarming,
		WarmupDay:   0,
	})
	if err != nil {
		return nil, err
	}

	resp := mapChipToResponse(chip)
	return &resp, nil
}

func (svc *ReminderService) ListChips(ownerUserID string) ([]dto.ChipResponse, error) {
	chips, err := svc.sqlSvc.GetChipsByOwner(ownerUserID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChipResponse, len(chips))
	for i, chip := range chips {
		responses[i] = mapChipToResponse(&chip)
	}
	return responses, nil
}

// AdvanceChip bumps the warmup counter by one day. Ready chips no longer
// advance.
func (svc *ReminderService) AdvanceChip(chipID string) (*dto.ChipResponse, error) {
	chip, err := svc.sqlSvc.GetChip(chipID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Chip not found")
	}
	if chip.Status != shared.ChipStatusWarming {
		return nil, shared.NewBadRequestError(fmt.Errorf("chip %s is %s", chipID, chip.Status), "Only warming chips can advance")
	}

	chip.WarmupDay++
	if err := svc.sqlSvc.UpdateChip(chip); err != nil {
		return nil, err
	}

	resp := mapChipToResponse(chip)
	return &resp, nil
}

// MarkChipReady ends the warmup routine for a chip.
func (svc *ReminderService) MarkChipReady(chipID string) (*dto.ChipResponse, error) {
	chip, err := svc.sqlSvc.GetChip(chipID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Chip not found")
	}

	chip.Status = shared.ChipStatusReady
	if err := svc.sqlSvc.UpdateChip(chip); err != nil {
		return nil, err
	}

	resp := mapChipToResponse(chip)
	return &resp, nil
}

// ==================== TASKS ====================

func (svc *ReminderService) CreateTask(req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task, err := svc.sqlSvc.CreateTask(&model.Task{
		OwnerID:     req.OwnerID,
		OwnerRole:   req.OwnerRole,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		Status:      shared.TaskStatusOpen,
	})
	if err != nil {
		return nil, err
	}

	resp := mapTaskToResponse(task)
	return &resp, nil
}

func (svc *ReminderService) ListTasks(ownerID string, limit int) ([]dto.TaskResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	tasks, err := svc.sqlSvc.GetTasksByOwner(ownerID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TaskResponse, len(tasks))
	for i, task := range tasks {
		responses[i] = mapTaskToResponse(&task)
	}
	return responses, nil
}

// CompleteTask marks a task done, which also removes it from future due
// sweeps.
func (svc *ReminderService) CompleteTask(taskID string) (*dto.TaskResponse, error) {
	task, err := svc.sqlSvc.GetTask(taskID)
	if err != nil {
		return nil, shared.NewNotFoundError(err, "Task not found")
	}

	if task.Status != shared.TaskStatusDone {
		now := time.Now()
		task.Status = shared.TaskStatusDone
		task.CompletedAt = &now
		if err := svc.sqlSvc.UpdateTask(task); err != nil {
			return nil, err
		}
	}

	resp := mapTaskToResponse(task)
	return &resp, nil
}

// RegisterUserDeviceToken adds a push token to an operator account.
func (svc *ReminderService) RegisterUserDeviceToken(userID, token string) error {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return shared.NewNotFoundError(err, "User not found")
	}

	tokens := decodeTokenSet(user.DeviceTokens)
	for _, t := range tokens {
		if t == token {
			return nil
		}
	}
	tokens = append(tokens, token)

	user.DeviceTokens = encodeTokenSet(tokens)
	return svc.sqlSvc.UpdateUser(user)
}

func mapChipToResponse(chip *model.Chip) dto.ChipResponse {
	return dto.ChipResponse{
		ID:          chip.ID,
		OwnerUserID: chip.OwnerUserID,
		Label:       chip.Label,
		PhoneNumber: chip.PhoneNumber,
		Status:      chip.Status,
		WarmupDay:   chip.WarmupDay,
		CreatedAt:   chip.CreatedAt,
	}
}

func mapTaskToResponse(task *model.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          task.ID,
		OwnerID:     task.OwnerID,
		OwnerRole:   task.OwnerRole,
		Title:       task.Title,
		Description: task.Description,
		DueAt:       task.DueAt,
		Status:      task.Status,
		CompletedAt: task.CompletedAt,
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("Invalid duration env, using default")
		return fallback
	}
	return d
}
