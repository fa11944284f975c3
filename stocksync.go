//go:build !cli
// +build !cli

package main

import (
	"log"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stocksync.GO/api"
	_ "stocksync.GO/api/inventory"
	_ "stocksync.GO/api/syncrun"
	"stocksync.GO/config"
	"stocksync.GO/core/auth"
	_ "stocksync.GO/custom"
	"stocksync.GO/mapping"
	syncEntity "stocksync.GO/model/entity/sync"
	syncRepo "stocksync.GO/model/repository/sync"
	"stocksync.GO/service/stock"
	"stocksync.GO/storefront"
	"stocksync.GO/warehouse"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	config.InitLogger()

	// Initialize Redis (single-flight sync lock); disabled when unreachable.
	config.InitRedis()
	redisStatus := "Redis not configured, sync lock falls back to scheduler serialization."
	if config.RedisClient != nil {
		err := config.RedisClient.Ping(config.RedisCtx()).Err()
		if err == nil {
			redisStatus = "Redis connection successful."
		} else {
			config.RedisClient = nil // Disable Redis if not reachable
			redisStatus = "Redis configured but not reachable, sync lock disabled."
		}
	}
	log.Println(redisStatus)

	db, err := config.NewDB()
	if err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.AutoMigrate(&syncEntity.Checkpoint{}, &syncEntity.AuditRecord{}); err != nil {
		log.Fatalf("failed to migrate sync tables: %v", err)
	}
	log.Println("Database connection successful.")

	table, err := mapping.LoadFile(config.AppConfig.Sync.MappingFile)
	if err != nil {
		log.Fatalf("failed to load mapping table: %v", err)
	}
	log.Printf("Mapping table loaded: %d entries", table.Len())

	wh := warehouse.NewClient(config.AppConfig.Warehouse, config.Log)
	sf := storefront.NewClient(config.AppConfig.Storefront, config.Log)

	engine := stock.NewPullEngine(
		wh, sf, table,
		syncRepo.NewCheckpointRepository(db),
		syncRepo.NewAuditRepository(db),
		config.Log,
	)
	engine.JobName = config.AppConfig.Sync.JobName
	engine.Lookback = config.AppConfig.Sync.Lookback
	if ix := stock.NewAuditIndexer(config.AppConfig.Sync.ESIndex, config.Log); ix != nil {
		engine.Sink = ix
	}

	deps := &api.Deps{
		DB:      db,
		Push:    stock.NewPushUpdater(wh, table, config.Log),
		Runner:  engine,
		Lock:    stock.NewRunLock(config.RedisClient, engine.JobName),
		Audits:  syncRepo.NewAuditRepository(db),
		JobName: engine.JobName,
	}

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start).Milliseconds()
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(duration, 10))
			return err
		}
	})

	apiGroup := e.Group("/api")
	apiGroup.Use(auth.Middleware())
	api.ApplyModules(apiGroup, deps)
	api.ApplyRoutes(e, deps)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	port := config.AppConfig.App.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Server running on :%s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
