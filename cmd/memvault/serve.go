// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/poiesic/memvault/adapter"
	"github.com/poiesic/memvault/service"
	"github.com/urfave/cli/v2"
)

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.Default()

	// Storage problems leave the service up and answering 503 so health
	// checks stay reachable.
	store, err := adapter.New(cfg.Adapter(), adapter.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create storage adapter", "db_type", cfg.DBType, "err", err)
	} else {
		if err := store.Initialize(ctx); err != nil {
			logger.Error("failed to initialize storage", "db_type", cfg.DBType, "db_path", cfg.DBPath, "err", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Error("failed to close storage", "err", err)
			}
		}()
	}

	srv := service.New(store,
		service.WithLogger(logger),
		service.WithAppInfo(cfg.AppName, cfg.AppVersion),
		service.WithCORSOrigins(cfg.CORSOrigins...),
		service.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)
	if err := srv.ListenAndServe(ctx, cfg.Addr()); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
