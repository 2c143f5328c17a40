// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/meshintel/partlens/internal/cache"
	"github.com/meshintel/partlens/internal/screener"
	"github.com/meshintel/partlens/pkg/types"
)

// buildService wires the cache store and screening service from the
// loaded configuration. The caller owns closing the returned store.
func buildService(cfg types.Config, logger *zap.Logger) (*screener.Service, *cache.Store, error) {
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("opening cache: %w", err)
	}

	svc, err := screener.NewService(cfg.Screener, cfg.Cache, store, logger)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return svc, store, nil
}

// newLogger builds the process logger. Serve mode uses the production
// config; one-shot commands keep console-friendly output.
func newLogger(serveMode bool) (*zap.Logger, error) {
	if serveMode {
		return zap.NewProduction()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
