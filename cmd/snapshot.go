package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cavina.GO/config"
	catalogRepo "cavina.GO/model/repository/catalog"
	stockRepo "cavina.GO/model/repository/stock"
	stockService "cavina.GO/service/stock"
	"cavina.GO/service/units"
)

var snapshotCmd = &cobra.Command{
	Use:   "stock:snapshot",
	Short: "Record an inventory snapshot of every active location",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		cfg := config.LoadAppConfig()
		catalog := catalogRepo.NewCatalogRepository(db)
		stocks := stockRepo.NewStockRepository(db)
		converter := units.NewConverterForSource(cfg.UnitRatioSource, catalog)
		ledger := stockService.NewLedger(stocks, catalog, converter, config.GetLogger())

		correlationID, err := ledger.SnapshotAll()
		if err != nil {
			fmt.Printf("Snapshot failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Snapshot recorded, correlation id %s\n", correlationID)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}
