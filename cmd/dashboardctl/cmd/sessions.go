package cmd

import (
	"fmt"
	"time"

	"wpconn-dashboard/internal/config"
	"wpconn-dashboard/internal/database"
	"wpconn-dashboard/internal/session"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect persisted operator sessions",
}

var sessionsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Count(cmd.Context())
		if err != nil {
			printError("count sessions", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d sessions\n", n)
		return nil
	},
}

var sessionsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired sessions",
	Long: `Deletes sessions whose expiry has passed. Redis expires keys on its own,
so prune only does work for the sqlite and postgres stores.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Prune(cmd.Context(), time.Now())
		if err != nil {
			printError("prune sessions", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired sessions\n", n)
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsCountCmd, sessionsPruneCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func openStore(cmd *cobra.Command) (session.Store, error) {
	cfg, logger, err := loadEnv()
	if err != nil {
		printError("load config", err)
		return nil, err
	}
	store, err := session.OpenStore(cmd.Context(), cfg, logger)
	if err != nil {
		printError("open session store", err)
		return nil, err
	}
	return store, nil
}

var sessionsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy live sessions from the sqlite store to postgres",
	Long: `Reads unexpired sessions from the sqlite file at DB_PATH and writes them
to the postgres database configured by DB_HOST, DB_NAME and friends, so
operators stay signed in after switching SESSION_STORE to postgres.`,
	RunE: runSessionsMigrate,
}

func init() {
	sessionsCmd.AddCommand(sessionsMigrateCmd)
}

func runSessionsMigrate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadEnv()
	if err != nil {
		printError("load config", err)
		return err
	}

	srcCfg, dstCfg := *cfg, *cfg
	srcCfg.SessionStore = config.StoreSQLite
	dstCfg.SessionStore = config.StorePostgres

	src, err := database.Open(&srcCfg, logger)
	if err != nil {
		printError("open sqlite", err)
		return err
	}
	defer database.Close(src)

	dst, err := database.Open(&dstCfg, logger)
	if err != nil {
		printError("open postgres", err)
		return err
	}
	defer database.Close(dst)

	n, err := database.CopySessions(cmd.Context(), src, dst, time.Now())
	if err != nil {
		printError("migrate sessions", err)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "copied %d sessions to postgres\n", n)
	return nil
}
