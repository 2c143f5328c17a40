// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show screening service configuration",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().Bool("json", false, "output status as JSON")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	logger, err := newLogger(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := loadConfig()
	svc, store, err := buildService(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	status := svc.Status()
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	}

	fmt.Printf("configured:       %v\n", status.Configured)
	fmt.Printf("mode:             %s\n", status.Mode)
	fmt.Printf("cache TTL:        %dh\n", status.CacheTTLHours)
	fmt.Printf("throttle window:  %dm\n", status.ThrottleMinutes)
	fmt.Printf("default rows:     %d\n", status.DefaultRows)
	fmt.Printf("max rows:         %d\n", status.MaxRows)
	return nil
}
