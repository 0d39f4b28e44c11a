// Package admin parses admin dashboard command flags and runs the server.
package admin

import (
	"context"
	"flag"
	"fmt"

	platformcmd "github.com/wazaphq/wazap/internal/platform/cmd"
	"github.com/wazaphq/wazap/internal/services/admin"
)

// Config holds the admin command configuration.
type Config struct {
	HTTPAddr    string `env:"WAZAP_ADMIN_ADDR" envDefault:":8082"`
	DBPath      string `env:"WAZAP_DB_PATH"    envDefault:"data/admin.db"`
	DefaultShop string `env:"WAZAP_DEFAULT_SHOP"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to sqlite database")
	fs.StringVar(&cfg.DefaultShop, "shop", cfg.DefaultShop, "shop domain used when requests omit one")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the admin dashboard server.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdmin, func(ctx context.Context) error {
		server, err := admin.NewServer(admin.Config{
			HTTPAddr:    cfg.HTTPAddr,
			DBPath:      cfg.DBPath,
			DefaultShop: cfg.DefaultShop,
		})
		if err != nil {
			return fmt.Errorf("init admin server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve admin: %w", err)
		}
		return nil
	})
}
