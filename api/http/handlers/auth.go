package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biat-it/testmanager/api/http/presenter"
	"github.com/biat-it/testmanager/pkg/accounts"
	"github.com/biat-it/testmanager/pkg/auth"
)

type AuthHandler struct {
	useCase auth.UseCase
}

func NewAuthHandler(useCase auth.UseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

type loginRequest struct {
	Matricule string `json:"matricule"`
	Password  string `json:"password"`
}

type loginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    auth.Profile `json:"user"`
}

// Login authenticates by matricule and password and returns a token pair.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} loginResponse
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} map[string]string
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if strings.TrimSpace(req.Matricule) == "" || req.Password == "" {
		return presenter.Error(c, http.StatusBadRequest, "matricule and password are required")
	}

	result, err := h.useCase.Login(c.Context(), req.Matricule, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Single generic body for every verification failure.
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to login")
	}

	return presenter.JSON(c, http.StatusOK, loginResponse{
		Access:  result.Tokens.Access,
		Refresh: result.Tokens.Refresh,
		User:    result.Profile,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh exchanges a valid refresh token for a new access token.
// @Summary Refresh access token
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body refreshRequest true "refresh payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}
	if req.Refresh == "" {
		return presenter.Error(c, http.StatusBadRequest, "refresh token is required")
	}

	access, err := h.useCase.Refresh(c.Context(), req.Refresh)
	if err != nil {
		return presenter.Error(c, http.StatusUnauthorized, "invalid or expired token")
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"access": access})
}

// Me returns the profile of the authenticated principal.
// @Summary Current user
// @Tags    auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Profile
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(string)
	if userID == "" {
		return presenter.Error(c, http.StatusUnauthorized, "not authenticated")
	}

	profile, err := h.useCase.CurrentUser(c.Context(), userID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return presenter.Error(c, http.StatusNotFound, "account no longer exists")
		}
		return presenter.Error(c, http.StatusInternalServerError, "failed to load profile")
	}
	return presenter.JSON(c, http.StatusOK, profile)
}
