package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"crop_service/internal/core"
	"crop_service/internal/domain/model"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a Monte Carlo weather viability simulation for one crop",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawCrop, _ := cmd.Flags().GetString("crop")
			rainfall, _ := cmd.Flags().GetFloat64("rainfall")
			temperature, _ := cmd.Flags().GetFloat64("temperature")
			runs, _ := cmd.Flags().GetInt("simulations")
			seed, _ := cmd.Flags().GetUint64("seed")

			crop, err := model.ParseCropName(rawCrop)
			if err != nil {
				return err
			}

			simulator := core.NewSimulator(model.NewCropCatalog(model.DefaultCropProfiles()))
			result := simulator.Simulate(crop, rainfall, temperature,
				core.SimulationParams{Simulations: runs},
				core.NewSourceProvider(seed).Source(crop))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().String("crop", "", "Crop name (required)")
	cmd.Flags().Float64("rainfall", 0, "Baseline monthly rainfall in mm")
	cmd.Flags().Float64("temperature", 0, "Baseline temperature in °C")
	cmd.Flags().Int("simulations", core.DefaultSimulations, "Number of trials")
	cmd.Flags().Uint64("seed", 0, "Random seed (0 uses the process generator)")
	_ = cmd.MarkFlagRequired("crop")
	return cmd
}
