// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <component-name> <component-description>",
	Short: "Screen one component against the patent API",
	Long: `Analyze submits a single component to the upstream screening service,
using the cache and throttle policy exactly as the HTTP API does, and
prints the normalized patent list.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("reference", "PARTLENS_CLI", "query reference tag")
	analyzeCmd.Flags().Bool("json", false, "output the result as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	reference, _ := cmd.Flags().GetString("reference")
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

	result := svc.Analyze(context.Background(), args[0], args[1], reference)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if !result.Success {
		return fmt.Errorf("analysis failed (%s): %s", result.ErrorType, result.Error)
	}

	fmt.Printf("%d patents found for %q (cached: %v)\n",
		result.PatentCount, args[0], result.FromCache)
	for i, p := range result.Patents {
		fmt.Printf("%-4d  %-16s  %-6.2f  %-12s  %s\n",
			i+1, p.PatentNumber, p.RelevanceScore, p.PublicationDate, p.Title)
	}
	return nil
}
