package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/challengehub/challenge-api/internal/api/metrics"
	"github.com/challengehub/challenge-api/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

type SubmissionHandler struct {
	service ports.SubmissionService
}

func NewSubmissionHandler(service ports.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Submit handles POST /api/submissions. The submitting user comes from the token.
//
// @Summary      Submit a response to a challenge
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string         false  "Replays the earlier submission made with the same key"
// @Param        body             body      submitRequest  true   "Submission"
// @Success      201              {object}  domain.Submission
// @Success      200              {object}  domain.Submission  "Replayed submission"
// @Failure      400              {object}  map[string]string
// @Failure      401              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Router       /api/submissions [post]
func (h *SubmissionHandler) Submit(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req submitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.service.Submit(c.Request().Context(), ports.SubmitInput{
		UserID:         userID,
		ChallengeID:    req.ChallengeID,
		Text:           req.Text,
		TimeSpent:      req.TimeSpent,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	metrics.SubmissionsTotal.WithLabelValues(strconv.FormatBool(res.Replayed)).Inc()
	if res.Replayed {
		c.Response().Header().Set(headerReplayed, "true")
		return c.JSON(http.StatusOK, res.Submission)
	}
	return c.JSON(http.StatusCreated, res.Submission)
}

// List handles GET /api/submissions.
//
// @Summary      List all submissions
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Submission
// @Failure      403  {object}  map[string]string
// @Router       /api/submissions [get]
func (h *SubmissionHandler) List(c echo.Context) error {
	subs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subs)
}

// ListByUser handles GET /api/submissions/user/:userId. Non-admins may only
// list their own submissions.
//
// @Summary      List a user's submissions
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {array}   domain.Submission
// @Failure      403     {object}  map[string]string
// @Failure      404     {object}  map[string]string
// @Router       /api/submissions/user/{userId} [get]
func (h *SubmissionHandler) ListByUser(c echo.Context) error {
	userID := c.Param("userId")
	if err := requireSelfOrAdmin(c, userID); err != nil {
		return err
	}

	subs, err := h.service.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subs)
}

// ListByChallenge handles GET /api/submissions/challenge/:challengeId.
//
// @Summary      List a challenge's submissions
// @Tags         submissions
// @Produce      json
// @Security     BearerAuth
// @Param        challengeId  path      string  true  "Challenge id"
// @Success      200          {array}   domain.Submission
// @Failure      404          {object}  map[string]string
// @Router       /api/submissions/challenge/{challengeId} [get]
func (h *SubmissionHandler) ListByChallenge(c echo.Context) error {
	subs, err := h.service.ListByChallenge(c.Request().Context(), c.Param("challengeId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, subs)
}

// Grade handles PUT /api/submissions/:id/grade.
//
// @Summary      Grade a submission
// @Tags         submissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Submission id"
// @Param        body  body      gradeRequest  true  "Score and feedback"
// @Success      200   {object}  domain.Submission
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/submissions/{id}/grade [put]
func (h *SubmissionHandler) Grade(c echo.Context) error {
	var req gradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	sub, err := h.service.Grade(c.Request().Context(), ports.GradeInput{
		SubmissionID: c.Param("id"),
		Score:        *req.Score,
		Feedback:     req.Feedback,
	})
	if err != nil {
		return err
	}

	metrics.SubmissionsGradedTotal.Inc()
	return c.JSON(http.StatusOK, sub)
}
