package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/toughstock/internal/permission"
	"github.com/talkincode/toughstock/internal/webserver"
	"github.com/talkincode/toughstock/pkg/metrics"
)

type jobView struct {
	ID   int       `json:"id"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

// registerSchedulerRoutes registers background job and metrics routes
func registerSchedulerRoutes() {
	webserver.ApiGET("/system/jobs", ListJobs)
	webserver.ApiPOST("/system/jobs/export/run", TriggerExport, requirePermission(permission.ActionEdit))
	webserver.ApiPOST("/system/reseed", Reseed, requirePermission(permission.ActionDelete))
	webserver.ApiGET("/system/metrics", ListMetrics)
	webserver.ApiGET("/system/metrics/:name", QueryMetric)
}

// ListJobs returns the scheduled cron entries
func ListJobs(c echo.Context) error {
	sched := GetAppContext(c).Scheduler()
	if sched == nil {
		return ok(c, []jobView{})
	}
	entries := sched.Entries()
	out := make([]jobView, 0, len(entries))
	for _, e := range entries {
		out = append(out, jobView{ID: int(e.ID), Next: e.Next, Prev: e.Prev})
	}
	return ok(c, out)
}

// TriggerExport writes the report files immediately
func TriggerExport(c echo.Context) error {
	res, err := GetAppContext(c).RunExportNow(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "RUN_FAILED", "Failed to export reports", err.Error())
	}
	return ok(c, res)
}

// Reseed replaces the inventory with the sample data
func Reseed(c echo.Context) error {
	appCtx := GetAppContext(c)
	if err := appCtx.InitDb(c.Request().Context()); err != nil {
		return handleStoreError(c, err, nil)
	}
	return ok(c, appCtx.Store().Snapshot().Categories)
}

// ListMetrics returns the last value of every gauge
func ListMetrics(c echo.Context) error {
	return ok(c, metrics.Snapshot())
}

// QueryMetric returns the samples of one gauge, the last hour by default
func QueryMetric(c echo.Context) error {
	end := time.Now()
	start := end.Add(-time.Hour)
	if v := cast.ToInt64(c.QueryParam("start")); v > 0 {
		start = time.Unix(v, 0)
	}
	if v := cast.ToInt64(c.QueryParam("end")); v > 0 {
		end = time.Unix(v, 0)
	}
	points, err := metrics.Query(c.Param("name"), start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, points)
}
