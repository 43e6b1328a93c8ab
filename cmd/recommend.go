package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank crops for a region and print the report as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			region, _ := cmd.Flags().GetString("region")
			crop, _ := cmd.Flags().GetString("crop")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			a, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			var out any
			if crop != "" {
				out, err = a.service.Analyze(ctx, region, crop)
			} else {
				out, err = a.service.Recommend(ctx, region)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("region", "", "Region to score (required)")
	cmd.Flags().String("crop", "", "Also rate the sowing risk of this crop")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}
