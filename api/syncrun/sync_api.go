package syncrun

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"stocksync.GO/api"
	"stocksync.GO/service/stock"
)

func init() {
	api.RegisterModule(RegisterSyncRoutes)
}

// RegisterSyncRoutes wires the pull sync trigger and the cycle history.
func RegisterSyncRoutes(apiGroup *echo.Group, deps *api.Deps) {
	g := apiGroup.Group("/sync")

	// POST /api/sync/run – trigger one pull cycle (serialized by the run lock)
	g.POST("/run", func(c echo.Context) error {
		ctx := c.Request().Context()

		release, err := deps.Lock.Acquire(ctx)
		if errors.Is(err, stock.ErrLockHeld) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sync already running"})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		defer release()

		report, err := deps.Runner.RunOnce(ctx)
		if err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"run_id":           report.RunID,
			"received":         report.Received,
			"pushed":           report.Pushed,
			"skipped":          report.Skipped,
			"duration_seconds": report.Duration.Seconds(),
		})
	})

	// GET /api/sync/history – recent cycles from the audit log
	g.GET("/history", func(c echo.Context) error {
		limit := 20
		if v := c.QueryParam("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
			}
			limit = n
		}

		recs, err := deps.Audits.Recent(deps.JobName, limit)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"items": recs})
	})
}
