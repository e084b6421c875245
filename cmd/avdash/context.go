package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"avtranscribe/internal/config"
	"avtranscribe/internal/dashboard"
	"avtranscribe/internal/logging"
	"avtranscribe/internal/results"
	"avtranscribe/internal/services"
	"avtranscribe/internal/termui"
	"avtranscribe/internal/warehouse"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// withStore opens the configured results store for the duration of fn. The
// warehouse connection, when needed, is opened once here and closed after fn.
func (c *commandContext) withStore(cmd *cobra.Command, fn func(context.Context, *results.Store, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "avdash", "logging", "", err)
	}
	ctx := services.WithRunID(cmd.Context(), uuid.NewString())

	var db *sql.DB
	if cfg.Results.Backend == config.BackendSnowflake {
		db, err = warehouse.Open(ctx, cfg.Warehouse, logger)
		if err != nil {
			return err
		}
		defer db.Close()
	}
	store, err := results.Open(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store, logger)
}

// withService wraps withStore with a dashboard service. Highlighting uses
// ANSI bold on terminals and **markers** elsewhere.
func (c *commandContext) withService(cmd *cobra.Command, fn func(context.Context, *dashboard.Service) error) error {
	return c.withStore(cmd, func(ctx context.Context, store *results.Store, logger *slog.Logger) error {
		open, closing := "**", "**"
		if !c.jsonOutput() && termui.IsTerminal(cmd.OutOrStdout()) {
			open, closing = termui.Bold(true)
		}
		svc := dashboard.NewService(store, logger, dashboard.WithHighlight(open, closing))
		return fn(ctx, svc)
	})
}

// resolveLimit returns flagValue when set, else the configured load limit.
func (c *commandContext) resolveLimit(flagValue int) (int, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return 0, err
	}
	if flagValue == 0 {
		return cfg.Results.LoadLimit, nil
	}
	if !config.IsLoadLimit(flagValue) {
		return 0, fmt.Errorf("--limit must be one of %v", config.LoadLimits)
	}
	return flagValue, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
