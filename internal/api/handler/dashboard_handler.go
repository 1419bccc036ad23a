package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/feas-hq/allocation-system/internal/core/ports"
)

// DashboardHandler serves the role-scoped dashboard data endpoints.
type DashboardHandler struct {
	dashboardService ports.DashboardService
}

func NewDashboardHandler(dashboardService ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary returns the caller's dashboard aggregate. Team and program
// sections are present only for roles entitled to them.
//
// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Param        year   query     int     false  "Year (defaults to current)"
// @Param        month  query     string  false  "Month as YYYY-MM (defaults to current)"
// @Success      200    {object}  ports.DashboardSummary
// @Failure      401    {object}  errorResponse
// @Router       /v1/dashboard/summary [get]
func (h *DashboardHandler) Summary(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	year, err := intQuery(c, "year")
	if err != nil {
		return err
	}

	summary, err := h.dashboardService.Summary(c.Request().Context(), sess, year, c.QueryParam("month"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}

// HoursSeries returns the monthly consumed-vs-estimated series for records
// created by the caller.
//
// @Summary      Monthly hours series
// @Tags         dashboard
// @Produce      json
// @Param        year  query     int  false  "Year (defaults to current)"
// @Success      200   {object}  domain.HoursSeries
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/dashboard/hours-series [get]
func (h *DashboardHandler) HoursSeries(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	year, err := intQuery(c, "year")
	if err != nil {
		return err
	}

	series, err := h.dashboardService.HoursSeries(c.Request().Context(), sess, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, series)
}

// ProgramBreakdown returns per-program aggregates for the caller's records.
//
// @Summary      Program breakdown
// @Tags         dashboard
// @Produce      json
// @Param        year   query     int     false  "Year (defaults to current)"
// @Param        month  query     int     false  "Month 1-12 (omit for year-to-date)"
// @Param        dept   query     string  false  "Department filter"
// @Success      200    {array}   domain.ProgramBreakdown
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /v1/dashboard/program-breakdown [get]
func (h *DashboardHandler) ProgramBreakdown(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	year, err := intQuery(c, "year")
	if err != nil {
		return err
	}
	month, err := intQuery(c, "month")
	if err != nil {
		return err
	}
	if month < 0 || month > 12 {
		return echo.NewHTTPError(http.StatusBadRequest, "month must be between 1 and 12")
	}

	filter := ports.BreakdownFilter{Year: year, Month: month, Department: c.QueryParam("dept")}
	items, err := h.dashboardService.ProgramBreakdown(c.Request().Context(), sess, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Reportees returns the caller's direct reports.
//
// @Summary      Direct reportees
// @Tags         dashboard
// @Produce      json
// @Success      200  {array}   domain.Reportee
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/reportees [get]
func (h *DashboardHandler) Reportees(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	reportees, err := h.dashboardService.Reportees(c.Request().Context(), sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reportees)
}

// intQuery parses an optional integer query parameter; absent means zero.
func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return v, nil
}
