package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/shared"
)

type OfferHandler struct {
	offerSvc OfferServiceInterface
}

func NewOfferHandler(offerSvc OfferServiceInterface) *OfferHandler {
	return &OfferHandler{offerSvc: offerSvc}
}

// @Summary Create offer
// @Description Register a marketing offer
// @Tags offer
// @Accept json
// @Produce json
// @Security Bearer
// @Param offerRequest body dto.CreateOfferRequest true "Offer"
// @Success 201 {object} shared.Response{data=model.Offer}
// @Router /api/v1/offers [post]
func (h *OfferHandler) CreateOffer(c *fiber.Ctx) error {
	var req dto.CreateOfferRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	offer, err := h.offerSvc.CreateOffer(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Created", offer)
}

// @Summary Record daily stat
// @Description Record one day of spend/revenue for an offer; re-recording a day merges
// @Tags offer
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Offer ID"
// @Param statRequest body dto.RecordDailyStatRequest true "Daily measurement"
// @Success 200 {object} shared.Response{data=dto.DailyStatResponse}
// @Router /api/v1/offers/{id}/stats [post]
func (h *OfferHandler) RecordDailyStat(c *fiber.Ctx) error {
	var req dto.RecordDailyStatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	stat, err := h.offerSvc.RecordDailyMeasurement(c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stat)
}

// @Summary Get offer ledger
// @Description Get the daily history and lifetime totals for an offer
// @Tags offer
// @Produce json
// @Security Bearer
// @Param id path string true "Offer ID"
// @Success 200 {object} shared.Response{data=dto.OfferLedgerResponse}
// @Router /api/v1/offers/{id}/ledger [get]
func (h *OfferHandler) GetLedger(c *fiber.Ctx) error {
	ledger, err := h.offerSvc.GetLedger(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", ledger)
}
