package cmd

import (
	"fmt"

	"stocksync.GO/config"
	"stocksync.GO/mapping"
	syncEntity "stocksync.GO/model/entity/sync"
	syncRepo "stocksync.GO/model/repository/sync"
	"stocksync.GO/service/stock"
	"stocksync.GO/storefront"
	"stocksync.GO/warehouse"
)

// loadMapping loads the SKU mapping table from the configured file.
func loadMapping() (*mapping.Table, error) {
	table, err := mapping.LoadFile(config.AppConfig.Sync.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("load mapping: %w", err)
	}
	return table, nil
}

// buildPushUpdater wires the storefront-to-warehouse push path.
func buildPushUpdater() (*stock.PushUpdater, error) {
	table, err := loadMapping()
	if err != nil {
		return nil, err
	}
	wh := warehouse.NewClient(config.AppConfig.Warehouse, config.Log)
	return stock.NewPushUpdater(wh, table, config.Log), nil
}

// buildPullEngine wires the warehouse-to-storefront pull path, including
// the checkpoint and audit stores.
func buildPullEngine() (*stock.PullEngine, *stock.RunLock, error) {
	table, err := loadMapping()
	if err != nil {
		return nil, nil, err
	}
	db, err := config.NewDB()
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.AutoMigrate(&syncEntity.Checkpoint{}, &syncEntity.AuditRecord{}); err != nil {
		return nil, nil, fmt.Errorf("migrate sync tables: %w", err)
	}

	wh := warehouse.NewClient(config.AppConfig.Warehouse, config.Log)
	sf := storefront.NewClient(config.AppConfig.Storefront, config.Log)

	engine := stock.NewPullEngine(
		wh,
		sf,
		table,
		syncRepo.NewCheckpointRepository(db),
		syncRepo.NewAuditRepository(db),
		config.Log,
	)
	engine.JobName = config.AppConfig.Sync.JobName
	engine.Lookback = config.AppConfig.Sync.Lookback
	if ix := stock.NewAuditIndexer(config.AppConfig.Sync.ESIndex, config.Log); ix != nil {
		engine.Sink = ix
	}

	lock := stock.NewRunLock(config.RedisClient, engine.JobName)
	return engine, lock, nil
}
