package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/shared"
)

type ReminderHandler struct {
	reminderSvc ReminderServiceInterface
}

func NewReminderHandler(reminderSvc ReminderServiceInterface) *ReminderHandler {
	return &ReminderHandler{reminderSvc: reminderSvc}
}

// @Summary Create chip
// @Description Register a WhatsApp chip for warmup, owned by the caller
// @Tags reminder
// @Accept json
// @Produce json
// @Security Bearer
// @Param chipRequest body dto.CreateChipRequest true "Chip"
// @Success 201 {object} shared.Response{data=dto.ChipResponse}
// @Router /api/v1/chips [post]
func (h *ReminderHandler) CreateChip(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateChipRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	chip, err := h.reminderSvc.CreateChip(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", chip)
}

// @Summary List chips
// @Description List the caller's chips
// @Tags reminder
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.ChipResponse}
// @Router /api/v1/chips [get]
func (h *ReminderHandler) ListChips(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	chips, err := h.reminderSvc.ListChips(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", chips)
}

// @Summary Advance chip warmup
// @Description Bump a warming chip's warmup day by one
// @Tags reminder
// @Produce json
// @Security Bearer
// @Param id path string true "Chip ID"
// @Success 200 {object} shared.Response{data=dto.ChipResponse}
// @Router /api/v1/chips/{id}/advance [post]
func (h *ReminderHandler) AdvanceChip(c *fiber.Ctx) error {
	chip, err := h.reminderSvc.AdvanceChip(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", chip)
}

// @Summary Mark chip ready
// @Description End the warmup routine for a chip
// @Tags reminder
// @Produce json
// @Security Bearer
// @Param id path string true "Chip ID"
// @Success 200 {object} shared.Response{data=dto.ChipResponse}
// @Router /api/v1/chips/{id}/ready [post]
func (h *ReminderHandler) MarkChipReady(c *fiber.Ctx) error {
	chip, err := h.reminderSvc.MarkChipReady(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", chip)
}

// @Summary Create task
// @Description Create a due-dated task for a mentor or mentee
// @Tags reminder
// @Accept json
// @Produce json
// @Security Bearer
// @Param taskRequest body dto.CreateTaskRequest true "Task"
// @Success 201 {object} shared.Response{data=dto.TaskResponse}
// @Router /api/v1/tasks [post]
func (h *ReminderHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	task, err := h.reminderSvc.CreateTask(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", task)
}

// @Summary List tasks
// @Description List tasks for an owner
// @Tags reminder
// @Produce json
// @Security Bearer
// @Param owner_id query string true "Owner ID"
// @Param limit query int false "Max rows"
// @Success 200 {object} shared.Response{data=[]dto.TaskResponse}
// @Router /api/v1/tasks [get]
func (h *ReminderHandler) ListTasks(c *fiber.Ctx) error {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		ownerID = c.Locals(shared.UserID).(string)
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	tasks, err := h.reminderSvc.ListTasks(ownerID, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", tasks)
}

// @Summary Complete task
// @Description Mark a task done
// @Tags reminder
// @Produce json
// @Security Bearer
// @Param id path string true "Task ID"
// @Success 200 {object} shared.Response{data=dto.TaskResponse}
// @Router /api/v1/tasks/{id}/complete [post]
func (h *ReminderHandler) CompleteTask(c *fiber.Ctx) error {
	task, err := h.reminderSvc.CompleteTask(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", task)
}

// @Summary Register user device token
// @Description Register a push token for the caller's device
// @Tags reminder
// @Accept json
// @Produce json
// @Security Bearer
// @Param tokenRequest body dto.RegisterDeviceTokenRequest true "Token"
// @Success 200 {object} shared.Response
// @Router /api/v1/users/device-tokens [post]
func (h *ReminderHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.RegisterDeviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	if err := h.reminderSvc.RegisterUserDeviceToken(userID, req.Token); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
