package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/shared"
)

type OnboardingHandler struct {
	onboardingSvc OnboardingServiceInterface
}

func NewOnboardingHandler(onboardingSvc OnboardingServiceInterface) *OnboardingHandler {
	return &OnboardingHandler{onboardingSvc: onboardingSvc}
}

// @Summary List onboarding steps
// @Description List the active step catalog in order
// @Tags onboarding
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=[]dto.StepResponse}
// @Router /api/v1/onboarding/steps [get]
func (h *OnboardingHandler) ListSteps(c *fiber.Ctx) error {
	steps, err := h.onboardingSvc.ListSteps()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", steps)
}

// @Summary Create onboarding step
// @Description Add a step to the catalog
// @Tags onboarding
// @Accept json
// @Produce json
// @Security Bearer
// @Param stepRequest body dto.CreateStepRequest true "Step"
// @Success 201 {object} shared.Response{data=dto.StepResponse}
// @Router /api/v1/onboarding/steps [post]
func (h *OnboardingHandler) CreateStep(c *fiber.Ctx) error {
	var req dto.CreateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	step, err := h.onboardingSvc.CreateStep(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", step)
}

// @Summary Get onboarding state
// @Description Get a mentee's derived onboarding state
// @Tags onboarding
// @Produce json
// @Security Bearer
// @Param id path string true "Mentee ID"
// @Success 200 {object} shared.Response{data=dto.OnboardingStateResponse}
// @Router /api/v1/mentees/{id}/onboarding [get]
func (h *OnboardingHandler) GetState(c *fiber.Ctx) error {
	menteeID := c.Params("id")

	state, err := h.onboardingSvc.GetState(menteeID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Complete onboarding step
// @Description Mark a step done for a mentee, optionally with form answers
// @Tags onboarding
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Mentee ID"
// @Param stepId path string true "Step ID"
// @Param completeRequest body dto.CompleteStepRequest false "Form answers"
// @Success 200 {object} shared.Response{data=dto.OnboardingStateResponse}
// @Router /api/v1/mentees/{id}/onboarding/{stepId}/complete [post]
func (h *OnboardingHandler) CompleteStep(c *fiber.Ctx) error {
	menteeID := c.Params("id")
	stepID := c.Params("stepId")

	var req dto.CompleteStepRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return shared.NewBadRequestError(err, "Invalid request")
		}
	}

	state, err := h.onboardingSvc.CompleteStep(menteeID, stepID, req.FormData)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Skip onboarding step
// @Description Skip an optional step for a mentee
// @Tags onboarding
// @Produce json
// @Security Bearer
// @Param id path string true "Mentee ID"
// @Param stepId path string true "Step ID"
// @Success 200 {object} shared.Response{data=dto.OnboardingStateResponse}
// @Router /api/v1/mentees/{id}/onboarding/{stepId}/skip [post]
func (h *OnboardingHandler) SkipStep(c *fiber.Ctx) error {
	menteeID := c.Params("id")
	stepID := c.Params("stepId")

	state, err := h.onboardingSvc.SkipStep(menteeID, stepID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}
