package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/shared"
)

type MenteeHandler struct {
	progressionSvc ProgressionServiceInterface
}

func NewMenteeHandler(progressionSvc ProgressionServiceInterface) *MenteeHandler {
	return &MenteeHandler{progressionSvc: progressionSvc}
}

// @Summary Enroll mentee
// @Description Enroll a mentee directly, outside the deal pipeline
// @Tags mentee
// @Accept json
// @Produce json
// @Security Bearer
// @Param enrollRequest body dto.EnrollMenteeRequest true "Mentee"
// @Success 201 {object} shared.Response{data=model.Mentee}
// @Router /api/v1/mentees [post]
func (h *MenteeHandler) EnrollMentee(c *fiber.Ctx) error {
	var req dto.EnrollMenteeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	mentee, err := h.progressionSvc.EnrollMentee(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", mentee)
}

// @Summary Get mentee progress
// @Description Get a mentee's XP, level, stage and badges
// @Tags mentee
// @Produce json
// @Security Bearer
// @Param id path string true "Mentee ID"
// @Success 200 {object} shared.Response{data=dto.MenteeProgressResponse}
// @Router /api/v1/mentees/{id}/progress [get]
func (h *MenteeHandler) GetProgress(c *fiber.Ctx) error {
	menteeID := c.Params("id")

	progress, err := h.progressionSvc.GetMenteeProgress(menteeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Add XP
// @Description Grant XP to a mentee
// @Tags mentee
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mentee ID"
// @Param xpRequest body dto.AddXPRequest true "XP amount"
// @Success 200 {object} shared.Response{data=dto.AddXPResponse}
// @Router /api/v1/mentees/{id}/xp [post]
func (h *MenteeHandler) AddXP(c *fiber.Ctx) error {
	menteeID := c.Params("id")

	var req dto.AddXPRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	result, err := h.progressionSvc.AddXP(menteeID, req.Amount)
	if err != nil {
		return err
	}
	if result == nil {
		return shared.ResponseNotFound(c)
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Unlock badge
// @Description Grant a badge to a mentee (idempotent)
// @Tags mentee
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mentee ID"
// @Param badgeRequest body dto.UnlockBadgeRequest true "Badge"
// @Success 200 {object} shared.Response
// @Router /api/v1/mentees/{id}/badges [post]
func (h *MenteeHandler) UnlockBadge(c *fiber.Ctx) error {
	menteeID := c.Params("id")

	var req dto.UnlockBadgeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	if err := h.progressionSvc.UnlockBadge(menteeID, req.BadgeID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Register mentee device token
// @Description Register a push token for the mentee's device
// @Tags mentee
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mentee ID"
// @Param tokenRequest body dto.RegisterDeviceTokenRequest true "Token"
// @Success 200 {object} shared.Response
// @Router /api/v1/mentees/{id}/device-tokens [post]
func (h *MenteeHandler) RegisterDeviceToken(c *fiber.Ctx) error {
	menteeID := c.Params("id")

	var req dto.RegisterDeviceTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	if err := h.progressionSvc.RegisterDeviceToken(menteeID, req.Token); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
