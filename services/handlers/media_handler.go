package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/apex-mentoria/apex_api/shared"
)

type MediaHandler struct {
	mediaSvc MediaServiceInterface
}

func NewMediaHandler(mediaSvc MediaServiceInterface) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

// @Summary Issue step asset upload
// @Description Issue a presigned upload URL for a step's content file
// @Tags media
// @Produce json
// @Security Bearer
// @Param id path string true "Step ID"
// @Param filename query string true "File name"
// @Success 200 {object} shared.Response{data=dto.StepAssetUploadResponse}
// @Router /api/v1/onboarding/steps/{id}/asset-upload [post]
func (h *MediaHandler) CreateStepAssetUpload(c *fiber.Ctx) error {
	filename := c.Query("filename")
	if filename == "" {
		return shared.NewBadRequestError(nil, "filename query parameter is required")
	}

	upload, err := h.mediaSvc.CreateStepAssetUpload(c.Params("id"), filename)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", upload)
}

// @Summary Get step asset URL
// @Description Get a short lived download URL for a step's asset
// @Tags media
// @Produce json
// @Security Bearer
// @Param id path string true "Step ID"
// @Success 200 {object} shared.Response{data=dto.StepAssetURLResponse}
// @Router /api/v1/onboarding/steps/{id}/asset-url [get]
func (h *MediaHandler) GetStepAssetURL(c *fiber.Ctx) error {
	asset, err := h.mediaSvc.GetStepAssetURL(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", asset)
}
