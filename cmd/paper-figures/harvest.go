// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-figures/internal/extract"
	"github.com/pdiddy/paper-figures/internal/pipeline"
	"github.com/pdiddy/paper-figures/internal/store"
	"github.com/pdiddy/paper-figures/pkg/types"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest [references...]",
	Short: "Download papers and harvest their enhanced figures",
	Long: `Harvest runs the full pipeline for each reference: fetch the PDF,
extract images and text with MinerU, drop decorative graphics, enhance the
content figures, resolve the paper title, and organize the bundle under
<output>/<title>/. Papers already in the harvest index are skipped unless
--force is given.`,
	RunE: runHarvest,
}

func init() {
	harvestCmd.Flags().String("output", "", "output root directory (default: output)")
	harvestCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	harvestCmd.Flags().Int("retries", -1, "download retry attempts (default 3)")
	harvestCmd.Flags().Int("workers", 0, "enhancement worker count (default 4)")
	harvestCmd.Flags().Int64("min-image-size", 0, "minimum content image size in bytes (default 5120)")
	harvestCmd.Flags().String("lang", "", "OCR language hint passed to MinerU (default en)")
	harvestCmd.Flags().Bool("keep-temp", false, "retain the per-paper temporary workspace")
	harvestCmd.Flags().Bool("force", false, "re-harvest papers already in the index")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more arXiv references (IDs or abs/pdf URLs)")
	}

	cfg := harvestConfig(cmd)

	idx, err := store.Open(cfg.Output.Root)
	if err != nil {
		return fmt.Errorf("opening harvest index: %w", err)
	}
	defer idx.Close()

	deps := pipeline.Deps{
		Backend: extract.NewMineruBackend(),
		Client:  &http.Client{Timeout: cfg.Fetch.Timeout},
		Index:   idx,
		Logger:  log.Logger,
	}

	result := pipeline.RunBatch(cmd.Context(), args, cfg, deps, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d paper(s) failed harvesting", result.Failed)
	}
	return nil
}

// harvestConfig layers flag values over the config file over the defaults.
func harvestConfig(cmd *cobra.Command) types.PipelineConfig {
	cfg := types.DefaultPipelineConfig()

	// Config file values, when present.
	if v := viper.GetString("output.root"); v != "" {
		cfg.Output.Root = v
	}
	if v := viper.GetDuration("fetch.timeout"); v > 0 {
		cfg.Fetch.Timeout = v
	}
	if v := viper.GetInt("enhance.workers"); v > 0 {
		cfg.Enhance.Workers = v
	}
	if v := viper.GetInt64("classify.min_byte_size"); v > 0 {
		cfg.Classify.MinByteSize = v
	}
	if v := viper.GetStringSlice("classify.decorative_patterns"); len(v) > 0 {
		cfg.Classify.DecorativePatterns = v
	}
	if v := viper.GetString("extraction.lang"); v != "" {
		cfg.Extraction.Lang = v
	}

	// Flags win over everything.
	if v, _ := cmd.Flags().GetString("output"); v != "" {
		cfg.Output.Root = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Fetch.Timeout = v
	}
	if v, _ := cmd.Flags().GetInt("retries"); v >= 0 {
		cfg.Fetch.MaxRetries = v
	}
	if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
		cfg.Enhance.Workers = v
	}
	if v, _ := cmd.Flags().GetInt64("min-image-size"); v > 0 {
		cfg.Classify.MinByteSize = v
	}
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		cfg.Extraction.Lang = v
	}
	if v, _ := cmd.Flags().GetBool("keep-temp"); v {
		cfg.Output.KeepTemp = true
	}
	if v, _ := cmd.Flags().GetBool("force"); v {
		cfg.Output.Force = true
	}
	return cfg
}
