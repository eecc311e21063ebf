package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cavina.GO/config"
	salesEntity "cavina.GO/model/entity/sales"
	salesRepo "cavina.GO/model/repository/sales"
	stockRepo "cavina.GO/model/repository/stock"
)

var (
	terminalName     string
	terminalLocation string
)

var terminalCreateCmd = &cobra.Command{
	Use:   "terminal:create",
	Short: "Register a sales terminal and print its signing secret",
	Run: func(cmd *cobra.Command, args []string) {
		if terminalName == "" {
			fmt.Println("--name is required")
			os.Exit(1)
		}
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			os.Exit(1)
		}
		locations := stockRepo.NewStockRepository(db)
		locName := terminalLocation
		if locName == "" {
			locName = config.LoadAppConfig().DefaultLocation
		}
		location, err := locations.FindLocationByName(locName)
		if err != nil {
			fmt.Printf("Location lookup failed: %v\n", err)
			os.Exit(1)
		}
		if location == nil {
			fmt.Printf("Unknown location: %s\n", locName)
			os.Exit(1)
		}

		terminal := &salesEntity.Terminal{
			TerminalID: terminalName,
			LocationID: location.ID,
			Secret:     uuid.NewString(),
			Status:     "active",
		}
		if err := salesRepo.NewSalesRepository(db).CreateTerminal(terminal); err != nil {
			fmt.Printf("Terminal create failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Terminal %q registered at location %q\n", terminal.TerminalID, location.Name)
		fmt.Printf("Signing secret (store it now, it is not shown again): %s\n", terminal.Secret)
	},
}

func init() {
	terminalCreateCmd.Flags().StringVar(&terminalName, "name", "", "Terminal identifier, e.g. bar-01")
	terminalCreateCmd.Flags().StringVar(&terminalLocation, "location", "", "Location name (defaults to DEFAULT_LOCATION)")
	rootCmd.AddCommand(terminalCreateCmd)
}
