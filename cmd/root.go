package cmd

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cavina",
	Short: "Catalog and stock ledger service CLI",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// ASCII banner on start (random font each run)
		fonts := []string{"banner", "big", "block", "slant", "standard", "small", "shadow", "speed", "thick", "doom", "larry3d", "puffy", "rectangles"}
		fig := figure.NewFigure("Cavina", fonts[rand.Intn(len(fonts))], true)
		fig.Print()
	},
}

// Execute runs the CLI after merging registered commands.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
