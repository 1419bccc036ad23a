package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// DirectoryHandler serves directory snapshot search and sync.
type DirectoryHandler struct {
	directory   ports.DirectoryRepository
	syncService ports.DirectorySyncService
}

func NewDirectoryHandler(directory ports.DirectoryRepository, syncService ports.DirectorySyncService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, syncService: syncService}
}

// Search looks up people in the directory snapshot by name prefix.
//
// @Summary      Directory search
// @Tags         directory
// @Produce      json
// @Param        q  query     string  true  "Name, username or mail prefix"
// @Success      200  {object}  searchResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/directory/search [get]
func (h *DirectoryHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}

	results, err := h.directory.Search(c.Request().Context(), q, 20)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, searchResponse{Results: results})
}

// Sync refreshes the directory snapshot from the live directory.
//
// @Summary      Directory sync
// @Tags         directory
// @Produce      json
// @Success      200  {object}  ports.SyncResult
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/directory/sync [post]
func (h *DirectoryHandler) Sync(c echo.Context) error {
	result, err := h.syncService.Sync(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
