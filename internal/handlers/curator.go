package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/streamcurator/beatmap-curator/internal/models"
)

// PromoteToCurator grants the target account the curator role.
func (h *Handlers) PromoteToCurator(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return handleError(c, models.ErrBadRequest)
	}
	if err := h.curator.PromoteToCurator(c.Request().Context(), userID); err != nil {
		return handleError(c, err)
	}
	return noContent(c)
}

// DemoteFromCurator revokes the target account's curator role.
func (h *Handlers) DemoteFromCurator(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return handleError(c, models.ErrBadRequest)
	}
	if err := h.curator.DemoteFromCurator(c.Request().Context(), userID); err != nil {
		return handleError(c, err)
	}
	return noContent(c)
}

// GetUserRoles lists the Cognito groups the target account belongs to.
func (h *Handlers) GetUserRoles(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return handleError(c, models.ErrBadRequest)
	}
	roles, err := h.curator.ListRoles(c.Request().Context(), userID)
	if err != nil {
		return handleError(c, err)
	}
	return successList(c, roles)
}

// SuspendUser disables the target account, preventing it from signing in.
func (h *Handlers) SuspendUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return handleError(c, models.ErrBadRequest)
	}
	if err := h.curator.SuspendUser(c.Request().Context(), userID); err != nil {
		return handleError(c, err)
	}
	return noContent(c)
}

// ReinstateUser re-enables a previously suspended account.
func (h *Handlers) ReinstateUser(c echo.Context) error {
	userID := c.Param("id")
	if userID == "" {
		return handleError(c, models.ErrBadRequest)
	}
	if err := h.curator.ReinstateUser(c.Request().Context(), userID); err != nil {
		return handleError(c, err)
	}
	return noContent(c)
}
