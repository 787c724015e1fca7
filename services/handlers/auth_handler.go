package handlers

import (
	"crypto/subtle"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/apex-mentoria/apex_api/dto"
	"github.com/apex-mentoria/apex_api/shared"
)

// AuthHandler mints API tokens for operator accounts. Identity lives in
// the main platform; this subsystem only needs a shared-secret gate to
// bootstrap tokens for its own endpoints.
type AuthHandler struct {
	jwtSvc JWTServiceInterface
}

func NewAuthHandler(jwtSvc JWTServiceInterface) *AuthHandler {
	return &AuthHandler{jwtSvc: jwtSvc}
}

// @Summary Issue token
// @Description Mint a bearer token for a user; requires the X-Api-Secret header
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Api-Secret header string true "Shared API secret"
// @Param tokenRequest body dto.IssueTokenRequest true "User"
// @Success 200 {object} shared.Response{data=dto.TokenPair}
// @Router /api/v1/auth/token [post]
func (h *AuthHandler) IssueToken(c *fiber.Ctx) error {
	secret := os.Getenv("API_SECRET")
	provided := c.Get("X-Api-Secret")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(provided)) != 1 {
		return shared.ResponseUnauthorized(c)
	}

	var req dto.IssueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.CreateValidationErrorResponse(err))
	}

	pair, err := h.jwtSvc.GenerateTokenPair(req.UserID, req.Role)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", pair)
}
