// TV-DB - TV Series Catalog and Refresh Service
// Copyright 2026 EASS-HIT-PART-A-2025-CLASS-VIII
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db

package main

import (
	"os"
	"strings"
	"sync"

	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/config"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/database"
	"github.com/EASS-HIT-PART-A-2025-CLASS-VIII/tv-db/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and applies its logging settings.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if c.configFlag != nil {
			if path := strings.TrimSpace(*c.configFlag); path != "" {
				if err := os.Setenv(config.ConfigPathEnvVar, path); err != nil {
					c.configErr = err
					return
				}
			}
		}
		cfg, err := config.Load()
		if err != nil {
			c.configErr = err
			return
		}
		logging.Init(logging.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			Caller:    cfg.Logging.Caller,
			Timestamp: true,
			Output:    os.Stderr,
		})
		c.config = cfg
	})
	return c.config, c.configErr
}

// withDB opens the catalog database for the duration of fn.
func (c *commandContext) withDB(fn func(*config.Config, *database.DB) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	db, err := database.New(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(cfg, db)
}
