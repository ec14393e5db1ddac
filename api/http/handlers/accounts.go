package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/biat-it/testmanager/api/http/presenter"
	"github.com/biat-it/testmanager/pkg/accounts"
	"github.com/biat-it/testmanager/pkg/auth"
)

// AccountHandler exposes the admin account-management surface.
type AccountHandler struct {
	useCase accounts.UseCase
}

func NewAccountHandler(useCase accounts.UseCase) *AccountHandler {
	return &AccountHandler{useCase: useCase}
}

type createAccountRequest struct {
	Matricule  string `json:"matricule"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type updateAccountRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Role       *string `json:"role"`
	Department *string `json:"department"`
}

// Create registers a new account; email is derived, never accepted.
// @Summary Create account
// @Tags    accounts
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   input body createAccountRequest true "account payload"
// @Success 201 {object} auth.Profile
// @Failure 400 {object} presenter.FieldErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /accounts [post]
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	a, err := h.useCase.Create(c.Context(), accounts.CreateInput{
		Matricule:  req.Matricule,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Password:   req.Password,
		Role:       accounts.Role(req.Role),
		Department: req.Department,
	})
	if err != nil {
		return accountError(c, err)
	}
	return presenter.JSON(c, http.StatusCreated, auth.NewProfile(a))
}

// List returns accounts ordered by matricule.
// @Summary List accounts
// @Tags    accounts
// @Produce json
// @Security BearerAuth
// @Param   limit  query int false "page size (max 200)"
// @Param   offset query int false "page offset"
// @Success 200 {array} auth.Profile
// @Router  /accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	limit, offset := parseLimitOffset(c, 50)

	list, err := h.useCase.List(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list accounts")
	}
	out := make([]auth.Profile, 0, len(list))
	for _, a := range list {
		out = append(out, auth.NewProfile(a))
	}
	return presenter.JSON(c, http.StatusOK, out)
}

// Get returns one account by matricule.
// @Summary Get account
// @Tags    accounts
// @Produce json
// @Security BearerAuth
// @Param   matricule path string true "4-digit matricule"
// @Success 200 {object} auth.Profile
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /accounts/{matricule} [get]
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	a, err := h.useCase.GetByMatricule(c.Context(), c.Params("matricule"))
	if err != nil {
		return accountError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, auth.NewProfile(a))
}

// Update mutates profile fields; renaming re-derives the email.
// @Summary Update account
// @Tags    accounts
// @Accept  json
// @Produce json
// @Security BearerAuth
// @Param   matricule path string true "4-digit matricule"
// @Param   input body updateAccountRequest true "fields to change"
// @Success 200 {object} auth.Profile
// @Failure 400 {object} presenter.FieldErrorResponse
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /accounts/{matricule} [patch]
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	var req updateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON payload")
	}

	var role *accounts.Role
	if req.Role != nil {
		r := accounts.Role(*req.Role)
		role = &r
	}
	a, err := h.useCase.Update(c.Context(), c.Params("matricule"), accounts.UpdateInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       role,
		Department: req.Department,
	})
	if err != nil {
		return accountError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, auth.NewProfile(a))
}

// accountError maps domain errors onto the HTTP taxonomy.
func accountError(c *fiber.Ctx, err error) error {
	var verr *accounts.ValidationError
	switch {
	case errors.As(err, &verr):
		return presenter.FieldError(c, http.StatusBadRequest, verr.Field, verr.Message)
	case errors.Is(err, accounts.ErrDuplicateMatricule):
		return presenter.Error(c, http.StatusConflict, "matricule already in use")
	case errors.Is(err, accounts.ErrDuplicateEmail):
		return presenter.Error(c, http.StatusConflict, "email already in use")
	case errors.Is(err, accounts.ErrNotFound):
		return presenter.Error(c, http.StatusNotFound, "account not found")
	default:
		return presenter.Error(c, http.StatusInternalServerError, "unexpected storage error")
	}
}
