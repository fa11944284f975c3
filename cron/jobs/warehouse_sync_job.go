package jobs

import (
	"context"
	"errors"
	"os"

	"stocksync.GO/config"
	"stocksync.GO/cron"
	"stocksync.GO/mapping"
	syncEntity "stocksync.GO/model/entity/sync"
	syncRepo "stocksync.GO/model/repository/sync"
	"stocksync.GO/service/stock"
	"stocksync.GO/storefront"
	"stocksync.GO/warehouse"
)

func init() {
	schedule := os.Getenv("SYNC_CRON_SCHEDULE")
	if schedule == "" {
		schedule = "@every 5m"
	}
	cron.Register("warehousesync", schedule, WarehouseSyncJob)
}

// WarehouseSyncJob runs one pull sync cycle. Scheduled invocations share
// the same run lock as the API trigger, so overlapping runs are skipped
// rather than raced.
func WarehouseSyncJob(args ...string) {
	config.LoadAppConfig()
	log := config.Log

	table, err := mapping.LoadFile(config.AppConfig.Sync.MappingFile)
	if err != nil {
		log.Errorf("sync job: load mapping: %v", err)
		return
	}
	db, err := config.NewDB()
	if err != nil {
		log.Errorf("sync job: database connection failed: %v", err)
		return
	}
	if err := db.AutoMigrate(&syncEntity.Checkpoint{}, &syncEntity.AuditRecord{}); err != nil {
		log.Errorf("sync job: migrate sync tables: %v", err)
		return
	}

	engine := stock.NewPullEngine(
		warehouse.NewClient(config.AppConfig.Warehouse, log),
		storefront.NewClient(config.AppConfig.Storefront, log),
		table,
		syncRepo.NewCheckpointRepository(db),
		syncRepo.NewAuditRepository(db),
		log,
	)
	engine.JobName = config.AppConfig.Sync.JobName
	engine.Lookback = config.AppConfig.Sync.Lookback
	if ix := stock.NewAuditIndexer(config.AppConfig.Sync.ESIndex, log); ix != nil {
		engine.Sink = ix
	}

	ctx := context.Background()
	lock := stock.NewRunLock(config.RedisClient, engine.JobName)
	release, err := lock.Acquire(ctx)
	if errors.Is(err, stock.ErrLockHeld) {
		log.Info("sync job: previous run still in progress, skipping")
		return
	}
	if err != nil {
		log.Errorf("sync job: lock: %v", err)
		return
	}
	defer release()

	if _, err := engine.RunOnce(ctx); err != nil {
		log.Errorf("sync job: cycle failed: %v", err)
	}
}
