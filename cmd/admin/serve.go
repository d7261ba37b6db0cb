package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookstore-admin/internal/app"
	"bookstore-admin/internal/core/server"
	"bookstore-admin/internal/transport/http/router"
)

var migrateOnServe bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API (/admin/v1)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := open()
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.RequireSecret(); err != nil {
			return err
		}
		if migrateOnServe {
			if err := a.Bootstrap(cmd.Context()); err != nil {
				return err
			}
		}

		r := router.NewAdminEngine(a.Log, a.DB, a.JWT, a.RouterOptions())

		h := a.Cfg.App.Admin
		addr := server.Addr(h.Host, h.Port)
		srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

		baseURL := app.BaseURL(h.Host, h.Port)
		a.Log.Info("admin api starting",
			zap.String("addr", addr),
			zap.String("health", baseURL+"/health"),
			zap.String("admin_v1", baseURL+"/admin/v1"),
		)
		return a.Serve("admin", srv)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&migrateOnServe, "bootstrap", false, "Run schema bootstrap and seeding before serving")
}
