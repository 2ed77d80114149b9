package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrengworks/catalog/internal/auth"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/db"
)

// ErrPasswordFromConfig is returned by set-password for engines without an admins table.
var ErrPasswordFromConfig = errors.New("admin password is read from Auth.AdminPassword")

func init() { //nolint: gochecknoinits
	adminCmd.AddCommand(setPasswordCmd)
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password <username> <password>",
	Short: "Replace an admin password directly in the database",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.ReadConfig(configPath)
		if err != nil {
			return err
		}

		if c.DB.Engine == config.EngineMongoDB {
			return errors.Wrap(ErrPasswordFromConfig, c.DB.Engine)
		}

		gdb, err := db.Open(&c)
		if err != nil {
			return err
		}

		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		local := auth.NewLocalProvider(gdb)

		// a fresh database gets the configured admin first, as on start
		if c.Auth.AdminUsername != "" {
			if err = local.EnsureAdmin(cmd.Context(), c.Auth.AdminUsername, c.Auth.AdminPassword); err != nil {
				return err
			}
		}

		if err = local.SetPassword(cmd.Context(), args[0], args[1]); err != nil {
			return errors.Wrap(err, args[0])
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "password of %s updated\n", args[0])

		return err
	},
}
