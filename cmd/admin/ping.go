package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bookstore-admin/internal/core/database"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity and list tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := open()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := database.Ping(ctx, a.DB); err != nil {
			return fmt.Errorf("ping %s: %w", a.Cfg.DB.Driver, err)
		}

		var one int
		if err := a.DB.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
			return fmt.Errorf("test query: %w", err)
		}

		tables, err := a.DB.WithContext(ctx).Migrator().GetTables()
		if err != nil {
			return fmt.Errorf("list tables: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "database connection OK (%s, SELECT 1 = %d)\n", a.Cfg.DB.Driver, one)
		fmt.Fprintf(out, "tables (%d):\n", len(tables))
		for _, t := range tables {
			fmt.Fprintf(out, "  - %s\n", t)
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(pingCmd) }
