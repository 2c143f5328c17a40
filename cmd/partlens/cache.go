// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshintel/partlens/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Administer the analysis cache (clear, export)",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached analyses",
	RunE:  runCacheClear,
}

var cacheExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all non-expired cached analyses to stdout as YAML",
	RunE:  runCacheExport,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheExportCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openStore() (*cache.Store, error) {
	cfg := loadConfig()
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(context.Background()); err != nil {
		return err
	}
	fmt.Println("cache cleared")
	return nil
}

func runCacheExport(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	return store.ExportYAML(context.Background(), os.Stdout)
}
