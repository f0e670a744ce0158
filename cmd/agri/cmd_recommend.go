package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"agri-backend/internal/recommend"
	"agri-backend/internal/shared/telemetry"
)

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var (
		q      recommend.Query
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest crops for a soil, region and season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := opts.engine(cmd.Context())
			if err != nil {
				return err
			}
			start := time.Now()
			result := engine.Recommend(q)
			telemetry.Info("recommend", map[string]any{
				"outcome":     string(result.Outcome),
				"suggestions": len(result.Suggestions),
				"duration_us": time.Since(start).Microseconds(),
			})

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintf(out, "outcome: %s\n", result.Outcome)
			for i, s := range result.Suggestions {
				fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, s.Name, s.Rationale)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&q.SoilType, "soil", "", "soil type (clay, loamy, sandy, black)")
	f.StringVar(&q.Region, "region", "", "region (north, south, east, west)")
	f.StringVar(&q.District, "district", "", "district name")
	f.StringVar(&q.City, "city", "", "city name")
	f.StringVar(&q.Season, "season", "", "season (kharif, rabi, zaid)")
	f.BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the accepted soils, regions and seasons",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			set := recommend.Options()
			for _, group := range []struct {
				title string
				items []recommend.Option
			}{
				{"Soil types", set.SoilTypes},
				{"Regions", set.Regions},
				{"Seasons", set.Seasons},
			} {
				fmt.Fprintf(out, "%s:\n", group.title)
				for _, o := range group.items {
					fmt.Fprintf(out, "  %-8s %s\n", o.Value, o.Label)
				}
			}
			return nil
		},
	}
}
