package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/challengehub/challenge-api/internal/api/metrics"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

type ChallengeHandler struct {
	service ports.ChallengeService
}

func NewChallengeHandler(service ports.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{service: service}
}

// Create handles POST /api/challenges.
//
// @Summary      Create a challenge
// @Tags         challenges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createChallengeRequest  true  "Challenge details"
// @Success      201   {object}  domain.Challenge
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/challenges [post]
func (h *ChallengeHandler) Create(c echo.Context) error {
	var req createChallengeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	challenge, err := h.service.Create(c.Request().Context(), ports.CreateChallengeInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Difficulty:  req.Difficulty,
		MaxScore:    req.MaxScore,
		TimeLimit:   req.TimeLimit,
		Tags:        req.Tags,
		Inactive:    req.IsActive != nil && !*req.IsActive,
	})
	if err != nil {
		return err
	}

	metrics.ChallengesCreatedTotal.WithLabelValues(string(challenge.Type)).Inc()
	return c.JSON(http.StatusCreated, challenge)
}

// List handles GET /api/challenges.
//
// @Summary      List challenges
// @Tags         challenges
// @Produce      json
// @Success      200  {array}  domain.Challenge
// @Router       /api/challenges [get]
func (h *ChallengeHandler) List(c echo.Context) error {
	challenges, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, challenges)
}

// Get handles GET /api/challenges/:id.
//
// @Summary      Get a challenge
// @Tags         challenges
// @Produce      json
// @Param        id   path      string  true  "Challenge id"
// @Success      200  {object}  domain.Challenge
// @Failure      404  {object}  map[string]string
// @Router       /api/challenges/{id} [get]
func (h *ChallengeHandler) Get(c echo.Context) error {
	challenge, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, challenge)
}

// ListByType handles GET /api/challenges/type/:type.
//
// @Summary      List challenges of one type
// @Tags         challenges
// @Produce      json
// @Param        type  path      string  true  "WRITING, SPEAKING or LOGICAL"
// @Success      200   {array}   domain.Challenge
// @Failure      400   {object}  map[string]string
// @Router       /api/challenges/type/{type} [get]
func (h *ChallengeHandler) ListByType(c echo.Context) error {
	challenges, err := h.service.ListByType(c.Request().Context(), c.Param("type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, challenges)
}

// Delete handles DELETE /api/challenges/:id.
//
// @Summary      Delete a challenge
// @Tags         challenges
// @Security     BearerAuth
// @Param        id  path  string  true  "Challenge id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/challenges/{id} [delete]
func (h *ChallengeHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
