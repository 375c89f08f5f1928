package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamcurator/beatmap-curator/internal/handlers/middleware"
	"github.com/streamcurator/beatmap-curator/internal/models"
)

// Handlers holds the HTTP handlers for every registered route.
type Handlers struct {
	analysis   AnalysisServiceInterface
	collection CollectionServiceInterface
	curator    CuratorServiceInterface
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(analysisSvc AnalysisServiceInterface, collectionSvc CollectionServiceInterface, curatorSvc CuratorServiceInterface) *Handlers {
	return &Handlers{analysis: analysisSvc, collection: collectionSvc, curator: curatorSvc}
}

// RegisterRoutes registers all routes with the Echo instance.
func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	// Beatmap analysis routes. Analyzing an already-uploaded beatmap needs
	// no authentication: anonymous callers may call analyze and read
	// results back.
	api.POST("/beatmaps/analyze", h.AnalyzeBeatmap)
	api.GET("/beatmaps", h.ListAnalyses)
	api.GET("/beatmaps/:checksum", h.GetAnalysis)

	// Group routes
	groups := api.Group("/groups", middleware.RequireAuth())
	groups.POST("", h.CreateGroup, middleware.RequirePermission(models.PermissionManageGroups))
	groups.GET("", h.ListGroups)
	groups.GET("/:name", h.GetGroup)
	groups.DELETE("/:name", h.DeleteGroup, middleware.RequirePermission(models.PermissionManageGroups))
	groups.POST("/:name/members", h.AddGroupMembers, middleware.RequirePermission(models.PermissionManageGroups))
	groups.DELETE("/:name/members", h.RemoveGroupMembers, middleware.RequirePermission(models.PermissionManageGroups))
	groups.POST("/:name/export", h.ExportCollection, middleware.RequirePermission(models.PermissionExportCollection))

	// Collection rebuild
	api.POST("/collection/rebuild", h.TriggerRebuild, middleware.RequirePermission(models.PermissionTriggerRebuild))

	// Curator administration: promoting/demoting accounts and suspending
	// misbehaving curators is admin-only.
	users := api.Group("/admin/users", middleware.RequirePermission(models.PermissionManageCurators))
	users.POST("/:id/curator", h.PromoteToCurator)
	users.DELETE("/:id/curator", h.DemoteFromCurator)
	users.GET("/:id/roles", h.GetUserRoles)
	users.POST("/:id/suspend", h.SuspendUser)
	users.POST("/:id/reinstate", h.ReinstateUser)
}

// handleError converts errors to appropriate HTTP responses.
func handleError(c echo.Context, err error) error {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(apiErr.StatusCode, models.NewErrorResponse(apiErr))
	}
	return c.JSON(http.StatusInternalServerError, models.NewErrorResponse(models.ErrInternalServer))
}

// bindAndValidate binds the request body and validates it.
func bindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return models.ErrBadRequest
	}
	if err := c.Validate(v); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

// success returns a JSON success response.
func success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// ListResponse wraps a slice in a list response with an items array.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// successList returns a JSON success response for list endpoints.
func successList[T any](c echo.Context, items []T) error {
	return c.JSON(http.StatusOK, ListResponse[T]{
		Items: items,
		Total: len(items),
	})
}

// created returns a JSON response with 201 status.
func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// noContent returns a 204 No Content response.
func noContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
