// Package mcp parses MCP command flags and runs the stdio server.
package mcp

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	platformcmd "github.com/wazaphq/wazap/internal/platform/cmd"
	"github.com/wazaphq/wazap/internal/services/admin/storage"
	"github.com/wazaphq/wazap/internal/services/admin/storage/sqlite"
	"github.com/wazaphq/wazap/internal/services/mcp/service"
)

// Config holds MCP command configuration.
type Config struct {
	DBPath string `env:"WAZAP_DB_PATH" envDefault:"data/admin.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "path to sqlite database")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the MCP server on stdio.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceMCP, func(ctx context.Context) error {
		store, err := openStore(cfg.DBPath)
		if err != nil {
			return err
		}

		server, err := service.NewServer(store)
		if err != nil {
			_ = store.Close()
			return fmt.Errorf("init MCP server: %w", err)
		}
		defer server.Close()

		if err := server.Serve(ctx); err != nil {
			return fmt.Errorf("serve MCP: %w", err)
		}
		return nil
	})
}

func openStore(path string) (storage.Store, error) {
	cleanPath := filepath.Clean(path)
	if cleanPath == "." || cleanPath == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}
