package main

import (
	"os"

	"github.com/spf13/cobra"

	"bookstore-admin/internal/app"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "bookstore-admin",
	Short: "Bookstore back-office: admin API and maintenance commands",
	Long: `Bookstore back-office tooling.

Configuration is read from configs/config.local.yaml (or --config / CONFIG_PATH)
and APP_* environment variables, e.g. APP_DB_HOST, APP_JWT_SECRET.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", os.Getenv("CONFIG_PATH"), "Path to config file")
}

// open 每个子命令各自建立依赖，结束时释放
func open() (*app.App, error) {
	return app.New(cfgPath)
}
