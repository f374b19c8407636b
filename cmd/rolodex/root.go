// Root command for the rolodex CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// version is the CLI version reported by the version command.
const version = "0.1.0"

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagAddr      string
)

// cfg holds the effective configuration, resolved by PersistentPreRunE from
// config.yaml with flag overrides.
var cfg types.Config

var rootCmd = &cobra.Command{
	Use:     "rolodex",
	Short:   "Rolodex is a CRM backend with a runtime-definable schema",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v, err := loadConfig(flagConfigDir)
		if err != nil {
			return err
		}

		cfg = types.Config{
			DataDir: v.GetString(cfgKeyDataDir),
			Addr:    v.GetString(cfgKeyAddr),
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if flagAddr != "" {
			cfg.Addr = flagAddr
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.rolodex)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.rolodex-db)")
	rootCmd.PersistentFlags().StringVar(&flagAddr, "addr", "", "HTTP listen address (default: :8080)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
}
