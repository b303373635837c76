package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/paraglidehq/optimus/postgres"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Store the parameters in PostgreSQL and install the SQL functions",
		Long: `Store the parameters in PostgreSQL and install optimus_encode, optimus_decode,
optimus_to_b58 and b58_to_optimus, For example:
  optimus migrate --dsn=postgres://localhost/app?sslmode=disable --prime=1580030173 --random=1163945558`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := a.v.GetString("dsn")
			if dsn == "" {
				return errors.New("dsn is required (--dsn or " + envPrefix + "_DSN)")
			}
			if !a.v.IsSet("random") {
				return errors.New("random is required: the stored mask must match every application instance")
			}
			o, err := a.optimus()
			if err != nil {
				return err
			}

			db, err := sql.Open("postgres", dsn)
			if err != nil {
				return errors.Wrap(err, "open database")
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.v.GetDuration("timeout"))
			defer cancel()
			if err := postgres.Migrate(ctx, db, o); err != nil {
				return err
			}
			a.log.Info().Uint64("prime", o.Prime()).Msg("migrated")
			return nil
		},
	}
	cmd.Flags().String("dsn", "", "PostgreSQL connection string")
	cmd.Flags().Duration("timeout", 30*time.Second, "migration timeout")
	_ = a.v.BindPFlags(cmd.Flags())
	return cmd
}
