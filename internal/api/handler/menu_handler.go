package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// MenuHandler serves the role-filtered navigation tree.
type MenuHandler struct {
	menuService ports.MenuService
}

func NewMenuHandler(menuService ports.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// Menu returns the sections visible to the caller's role.
//
// @Summary      Navigation menu
// @Tags         menu
// @Produce      json
// @Success      200  {object}  menuResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/menu [get]
func (h *MenuHandler) Menu(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, menuResponse{Sections: h.menuService.Build(sess.Role)})
}
