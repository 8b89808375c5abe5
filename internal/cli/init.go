package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/tickethook/internal/config"
	"github.com/example/tickethook/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the tickethook configuration and database",
		Long:  `Create the .tickethook/config.json file and initialize the ticket database with the required schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			cfg := config.Default()
			if err := config.Save(dir, cfg); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("✓ Config written to %s/.tickethook/config.json\n", dir)

			dbPath := cfg.DBPath
			if dbPath == "" {
				dbPath, err = db.DefaultPath()
				if err != nil {
					return fmt.Errorf("failed to get database path: %w", err)
				}
			}
			database, err := db.Open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			fmt.Printf("✓ Database initialized at %s\n", dbPath)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  tickethook user add alice alice@example.org")
			fmt.Println("  tickethook ticket create \"My first ticket\" --reporter alice")
			fmt.Println("  tickethook serve")

			return nil
		},
	}
}
