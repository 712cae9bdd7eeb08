package adminapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockledger/internal/report"
	"github.com/talkincode/stockledger/internal/webserver"
	"github.com/talkincode/stockledger/pkg/metrics"
)

// metricNames are the series that may be queried through the API.
var metricNames = map[string]bool{
	"system_cpuuse":             true,
	"system_memuse":             true,
	"app_cpuuse":                true,
	"app_memuse":                true,
	"checkout_drafts_open":      true,
	"sale_completed_total":      true,
	"sale_partial_commit_total": true,
	"sale_revenue_cents":        true,
}

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/stats", dashboardStats)
	webserver.ApiGET("/metrics/:name", queryMetric)
}

// dashboardStats returns the dashboard counters
// @Summary get dashboard statistics
// @Tags Dashboard
// @Success 200 {object} Response
// @Router /api/v1/dashboard/stats [get]
func dashboardStats(c echo.Context) error {
	appCtx := GetAppContext(c)
	stats, err := report.Dashboard(c.Request().Context(), appCtx.Catalog(), appCtx.Ledger())
	if err != nil {
		return failErr(c, err, "Failed to load dashboard")
	}
	return ok(c, stats)
}

// queryMetric returns the samples of the last ?hours= hours (default 24, max 168).
//
// @Summary query metric samples
// @Tags Dashboard
// @Param name path string true "Metric name"
// @Param hours query int false "Hours to look back"
// @Success 200 {object} Response
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/metrics/{name} [get]
func queryMetric(c echo.Context) error {
	name := c.Param("name")
	if !metricNames[name] {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unknown metric", name)
	}
	hours := 24
	if h, err := strconv.Atoi(c.QueryParam("hours")); err == nil && h > 0 && h <= 168 {
		hours = h
	}
	end := time.Now()
	points, err := metrics.Query(name, end.Add(-time.Duration(hours)*time.Hour), end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, points)
}
