package inventory

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"stocksync.GO/api"
)

func init() {
	api.RegisterModule(RegisterInventoryRoutes)
}

// RegisterInventoryRoutes wires the storefront-to-warehouse push surface:
// a webhook for single inventory change events and a bulk push endpoint.
func RegisterInventoryRoutes(apiGroup *echo.Group, deps *api.Deps) {
	g := apiGroup.Group("/inventory")

	// POST /api/inventory/webhook – one storefront inventory change event
	g.POST("/webhook", func(c echo.Context) error {
		var body struct {
			Sku      string `json:"sku"`
			Quantity int    `json:"quantity"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if body.Sku == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "sku is required"})
		}
		if body.Quantity < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be >= 0"})
		}

		if err := deps.Push.ProcessSingle(c.Request().Context(), body.Sku, body.Quantity); err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// POST /api/inventory/push – bulk push (auth required via /api middleware)
	g.POST("/push", func(c echo.Context) error {
		start := time.Now()

		var body struct {
			Updates map[string]int `json:"updates"`
		}
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		if len(body.Updates) == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "updates map is required and must not be empty"})
		}
		for sku, qty := range body.Updates {
			if qty < 0 {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be >= 0 for sku " + sku})
			}
		}

		res, err := deps.Push.ProcessBatch(c.Request().Context(), body.Updates)
		duration := time.Since(start).Milliseconds()
		if err != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error(), "request_duration_ms": duration})
		}

		c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
		return c.JSON(http.StatusOK, echo.Map{
			"pushed":              res.Pushed,
			"skipped":             res.Skipped,
			"warnings":            res.Warnings,
			"request_duration_ms": duration,
		})
	})
}
