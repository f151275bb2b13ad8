package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/vinyl/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a config file when none exists and ensures the database schema.
//
// Schema failures are reported here rather than swallowed as they are during an import.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
	}

	if err := r.requireDB(); err != nil {
		return err
	}

	r.logger.Info("ensuring database schema", "path", r.config.Database.Path)
	if err := r.schema.EnsureSchema(ctx); err != nil {
		var schemaErr *shared.SchemaError
		if errors.As(err, &schemaErr) {
			r.writePlain("✗ Schema object %q could not be created: %v\n", schemaErr.Object, schemaErr.Err)
		}
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	tables, err := r.schema.Tables(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	r.writePlain("✓ Database ready: %s\n", r.config.Database.Path)
	r.writePlain("  Tables: %v\n", tables)
	if r.config.Discogs.UserID == "" || r.config.Discogs.Token == "" {
		r.writePlainln("Next steps:")
		r.writePlain("1. Set discogs.user_id in %s\n", configPath)
		r.writePlain("2. Export %s with your Discogs personal access token\n", shared.TokenEnv)
		r.writePlain("3. Run 'vinyl import' to fetch your collection\n")
	}
	r.logger.Infof("setup complete for database: %v", r.config.Database.Path)
	return nil
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create a config file and initialize the database schema",
		Action: r.Setup,
	}
}
