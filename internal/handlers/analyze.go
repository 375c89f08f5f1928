package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streamcurator/beatmap-curator/internal/models"
	"github.com/streamcurator/beatmap-curator/internal/osufile"
	"github.com/streamcurator/beatmap-curator/internal/repository"
	"github.com/streamcurator/beatmap-curator/internal/validation"
)

// AnalyzeRequest is the body of POST /beatmaps/analyze: the beatmap's
// osu! identifiers plus its raw .osu file contents, base64-encoded.
type AnalyzeRequest struct {
	BeatmapID    int32  `json:"beatmapId" validate:"required"`
	BeatmapsetID int32  `json:"beatmapsetId" validate:"required"`
	Checksum     string `json:"checksum" validate:"required"`
	FileContent  string `json:"fileContent" validate:"required"`
}

// AnalyzeBeatmap parses and analyzes a beatmap, persisting the result
// under its checksum. Re-submitting an already-analyzed checksum returns
// the existing record rather than re-running the analyzer.
func (h *Handlers) AnalyzeBeatmap(c echo.Context) error {
	var req AnalyzeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return handleError(c, err)
	}
	if err := validation.ValidateChecksum(req.Checksum); err != nil {
		return handleError(c, models.NewValidationError(err.Error()))
	}

	fileBytes, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		return handleError(c, models.NewValidationError("fileContent must be valid base64"))
	}
	if int64(len(fileBytes)) > validation.MaxFileSizeBytes {
		return handleError(c, models.ErrPayloadTooLarge)
	}

	record, err := h.analysis.AnalyzeBeatmap(c.Request().Context(), osufile.NewParser(), req.BeatmapID, req.BeatmapsetID, req.Checksum, fileBytes)
	if err != nil {
		return handleError(c, err)
	}
	return created(c, record)
}

// GetAnalysis returns a previously computed analysis by checksum.
func (h *Handlers) GetAnalysis(c echo.Context) error {
	checksum := c.Param("checksum")
	if err := validation.ValidateChecksum(checksum); err != nil {
		return handleError(c, models.NewValidationError(err.Error()))
	}

	record, err := h.analysis.GetAnalysis(c.Request().Context(), checksum)
	if err != nil {
		if err == repository.ErrNotFound {
			return handleError(c, models.ErrNotFound)
		}
		return handleError(c, err)
	}
	return success(c, record)
}

// ListAnalyses returns a page of analyses, optionally filtered by status.
func (h *Handlers) ListAnalyses(c echo.Context) error {
	filter := repository.AnalysisFilter{
		Status: models.AnalysisStatus(c.QueryParam("status")),
		Cursor: c.QueryParam("cursor"),
	}

	result, err := h.analysis.ListAnalyses(c.Request().Context(), filter)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
