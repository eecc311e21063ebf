package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"cavina.GO/config"
)

var migrationsPath string

func newMigrator() (*migrate.Migrate, error) {
	return migrate.New("file://"+migrationsPath, "mysql://"+config.DSN())
}

var migrateUpCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Apply pending schema migrations",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newMigrator()
		if err != nil {
			fmt.Printf("migrate init failed: %v\n", err)
			os.Exit(1)
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("migrate up failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Migrations applied.")
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "db:rollback",
	Short: "Roll back the most recent migration",
	Run: func(cmd *cobra.Command, args []string) {
		m, err := newMigrator()
		if err != nil {
			fmt.Printf("migrate init failed: %v\n", err)
			os.Exit(1)
		}
		if err := m.Steps(-1); err != nil {
			fmt.Printf("migrate rollback failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Rolled back one migration.")
	},
}

func init() {
	migrateUpCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	migrateDownCmd.Flags().StringVar(&migrationsPath, "path", "migrations", "Migrations directory")
	rootCmd.AddCommand(migrateUpCmd)
	rootCmd.AddCommand(migrateDownCmd)
}
