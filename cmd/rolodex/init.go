// Init command: creates the data directory, database, and system schema
// without starting the server.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rolodex/internal/sqlite"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the Rolodex database",
	RunE: func(cmd *cobra.Command, args []string) error {
		backend := sqlite.NewBackend()
		if err := backend.Attach(cfg); err != nil {
			return fmt.Errorf("attach store: %w", err)
		}
		if err := backend.Detach(); err != nil {
			return err
		}
		fmt.Printf("Initialized rolodex database in %s\n", cfg.DataDir)
		return nil
	},
}
