package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/shared"
)

type DealHandler struct {
	dealSvc DealServiceInterface
}

func NewDealHandler(dealSvc DealServiceInterface) *DealHandler {
	return &DealHandler{dealSvc: dealSvc}
}

// @Summary Create lead
// @Description Record a raw lead
// @Tags deal
// @Accept json
// @Produce json
// @Security Bearer
// @Param leadRequest body dto.CreateLeadRequest true "Lead"
// @Success 201 {object} shared.Response{data=dto.LeadResponse}
// @Router /api/v1/leads [post]
func (h *DealHandler) CreateLead(c *fiber.Ctx) error {
	var req dto.CreateLeadRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	lead, err := h.dealSvc.CreateLead(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", lead)
}

// @Summary List leads
// @Description List recent leads
// @Tags deal
// @Produce json
// @Security Bearer
// @Param limit query int false "Max rows"
// @Success 200 {object} shared.Response{data=[]dto.LeadResponse}
// @Router /api/v1/leads [get]
func (h *DealHandler) ListLeads(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	leads, err := h.dealSvc.ListLeads(limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leads)
}

// @Summary Create deal
// @Description Open a deal in the pipeline
// @Tags deal
// @Accept json
// @Produce json
// @Security Bearer
// @Param dealRequest body dto.CreateDealRequest true "Deal"
// @Success 201 {object} shared.Response{data=dto.DealResponse}
// @Router /api/v1/deals [post]
func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	var req dto.CreateDealRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	deal, err := h.dealSvc.CreateDeal(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", deal)
}

// @Summary Get deal
// @Description Get one deal, including its mentee when already converted
// @Tags deal
// @Produce json
// @Security Bearer
// @Param id path string true "Deal ID"
// @Success 200 {object} shared.Response{data=dto.DealResponse}
// @Router /api/v1/deals/{id} [get]
func (h *DealHandler) GetDeal(c *fiber.Ctx) error {
	deal, err := h.dealSvc.GetDeal(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", deal)
}

// @Summary List deals
// @Description List deals, optionally filtered by stage
// @Tags deal
// @Produce json
// @Security Bearer
// @Param stage query string false "Pipeline stage"
// @Param limit query int false "Max rows"
// @Success 200 {object} shared.Response{data=[]dto.DealResponse}
// @Router /api/v1/deals [get]
func (h *DealHandler) ListDeals(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	deals, err := h.dealSvc.ListDeals(c.Query("stage"), limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", deals)
}

// @Summary Update deal contact
// @Description Patch a deal's email or whatsapp
// @Tags deal
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Deal ID"
// @Param contactRequest body dto.UpdateDealContactRequest true "Contact"
// @Success 200 {object} shared.Response{data=dto.DealResponse}
// @Router /api/v1/deals/{id}/contact [put]
func (h *DealHandler) UpdateContact(c *fiber.Ctx) error {
	var req dto.UpdateDealContactRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	deal, err := h.dealSvc.UpdateContact(c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", deal)
}

// @Summary Transition deal stage
// @Description Move a deal along the pipeline; PAID converts it into a mentee
// @Tags deal
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Deal ID"
// @Param stageRequest body dto.UpdateDealStageRequest true "Target stage"
// @Success 200 {object} shared.Response{data=dto.DealResponse}
// @Router /api/v1/deals/{id}/stage [post]
func (h *DealHandler) TransitionStage(c *fiber.Ctx) error {
	var req dto.UpdateDealStageRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	deal, err := h.dealSvc.TransitionStage(c.Params("id"), req.Stage)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", deal)
}
