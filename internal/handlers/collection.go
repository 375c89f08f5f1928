package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/streamcurator/beatmap-curator/internal/handlers/middleware"
	"github.com/streamcurator/beatmap-curator/internal/models"
	"github.com/streamcurator/beatmap-curator/internal/repository"
	"github.com/streamcurator/beatmap-curator/internal/validation"
)

// CreateGroupRequest is the body of POST /groups.
type CreateGroupRequest struct {
	Name string `json:"name" validate:"required"`
	Mode int    `json:"mode"`
}

// MembersRequest is the body of the group-members add/remove endpoints.
type MembersRequest struct {
	Checksums []string `json:"checksums" validate:"required"`
}

// CreateGroup creates a new named group owned by the calling curator.
func (h *Handlers) CreateGroup(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	var req CreateGroupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleError(c, err)
	}
	if err := validation.ValidateGroupName(req.Name); err != nil {
		return handleError(c, models.NewValidationError(err.Error()))
	}

	group, err := h.collection.CreateGroup(c.Request().Context(), ownerID, req.Name, models.GroupingMode(req.Mode))
	if err != nil {
		return handleError(c, err)
	}
	return created(c, group)
}

// GetGroup returns one of the caller's groups by name.
func (h *Handlers) GetGroup(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	group, err := h.collection.GetGroup(c.Request().Context(), ownerID, c.Param("name"))
	if err != nil {
		if err == repository.ErrNotFound {
			return handleError(c, models.ErrNotFound)
		}
		return handleError(c, err)
	}
	return success(c, group)
}

// ListGroups returns every group the caller owns.
func (h *Handlers) ListGroups(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	groups, err := h.collection.ListGroups(c.Request().Context(), ownerID)
	if err != nil {
		return handleError(c, err)
	}
	return successList(c, groups)
}

// DeleteGroup removes one of the caller's groups.
func (h *Handlers) DeleteGroup(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	if err := h.collection.DeleteGroup(c.Request().Context(), ownerID, c.Param("name")); err != nil {
		if err == repository.ErrNotFound {
			return handleError(c, models.ErrNotFound)
		}
		return handleError(c, err)
	}
	return noContent(c)
}

// AddGroupMembers appends beatmap checksums to a group.
func (h *Handlers) AddGroupMembers(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	var req MembersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleError(c, err)
	}

	group, err := h.collection.AddMembers(c.Request().Context(), ownerID, c.Param("name"), req.Checksums)
	if err != nil {
		if err == repository.ErrNotFound {
			return handleError(c, models.ErrNotFound)
		}
		return handleError(c, err)
	}
	return success(c, group)
}

// RemoveGroupMembers removes beatmap checksums from a group.
func (h *Handlers) RemoveGroupMembers(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	var req MembersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleError(c, err)
	}

	group, err := h.collection.RemoveMembers(c.Request().Context(), ownerID, c.Param("name"), req.Checksums)
	if err != nil {
		if err == repository.ErrNotFound {
			return handleError(c, models.ErrNotFound)
		}
		return handleError(c, err)
	}
	return success(c, group)
}

// ExportResponse carries a presigned download link for a rendered collection file.
type ExportResponse struct {
	URL string `json:"url"`
}

// ExportCollection renders a group into a .db or .osdb file (selected via
// the "format" query parameter, defaulting to db) and returns a presigned
// download URL.
func (h *Handlers) ExportCollection(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	format := models.FormatDB
	if c.QueryParam("format") == "osdb" {
		format = models.FormatOSDB
	}

	url, err := h.collection.ExportCollection(c.Request().Context(), ownerID, c.Param("name"), format)
	if err != nil {
		if err == repository.ErrNotFound {
			return handleError(c, models.ErrNotFound)
		}
		return handleError(c, err)
	}
	return success(c, ExportResponse{URL: url})
}

// RebuildResponse carries the started execution's identifier.
type RebuildResponse struct {
	ExecutionArn string `json:"executionArn"`
}

// TriggerRebuild kicks off an asynchronous re-export of every group the
// caller owns.
func (h *Handlers) TriggerRebuild(c echo.Context) error {
	ownerID := middleware.GetUserID(c)
	if ownerID == "" {
		return handleError(c, models.ErrUnauthorized)
	}

	arn, err := h.collection.TriggerRebuild(c.Request().Context(), ownerID)
	if err != nil {
		return handleError(c, err)
	}
	return success(c, RebuildResponse{ExecutionArn: arn})
}
