// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/mrengworks/catalog/internal/version"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "etc", "Directory holding main.toml")
}

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "catalog serves a product catalog with a storefront and an admin API",
	Long: `catalog serves a product catalog: a public storefront, a REST API for
products and site settings, and bearer token protected admin operations.
The admin subcommands drive the same API from the terminal.`,
	Args:    cobra.OnlyValidArgs,
	Version: version.Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
