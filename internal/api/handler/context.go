package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/challengehub/challenge-api/internal/api/middleware"
	"github.com/challengehub/challenge-api/internal/core/domain"
)

// ctxIdentity extracts the claims injected by the Auth middleware. A missing
// user id or role means the route was mounted without Auth.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}

// requireSelfOrAdmin allows admins through and everyone else only for their
// own user id.
func requireSelfOrAdmin(c echo.Context, ownerID string) error {
	userID, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin && userID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
