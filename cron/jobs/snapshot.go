package jobs

import (
	"cavina.GO/config"
	"cavina.GO/cron"
	catalogRepo "cavina.GO/model/repository/catalog"
	stockRepo "cavina.GO/model/repository/stock"
	stockService "cavina.GO/service/stock"
	"cavina.GO/service/units"
)

func init() {
	// Nightly inventory snapshot per location, for audits.
	cron.Register("stocksnapshot", "0 3 * * *", StockSnapshotJob)
}

// StockSnapshotJob records the stock of every active location.
func StockSnapshotJob(args ...string) {
	log := config.GetLogger()
	db, err := config.NewDB()
	if err != nil {
		log.WithError(err).Error("stock snapshot: db connect failed")
		return
	}
	cfg := config.LoadAppConfig()
	catalog := catalogRepo.NewCatalogRepository(db)
	stocks := stockRepo.NewStockRepository(db)
	converter := units.NewConverterForSource(cfg.UnitRatioSource, catalog)
	ledger := stockService.NewLedger(stocks, catalog, converter, log)

	correlationID, err := ledger.SnapshotAll()
	if err != nil {
		log.WithError(err).WithField("correlation_id", correlationID).Error("stock snapshot failed")
		return
	}
}
