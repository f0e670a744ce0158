package main

// Query the rule engine offline:
//   go run ./cmd/agri recommend --soil clay --region east --district Howrah --city Howrah --season kharif
//   go run ./cmd/agri rules export > rules.yaml
//   go run ./cmd/agri rules check rules.yaml
//   go run ./cmd/agri rules publish rules.yaml s3://agri-config/rules/current.yaml

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"agri-backend/internal/recommend"
	"agri-backend/internal/rulesource"
	"agri-backend/internal/shared/telemetry"
)

type rootOptions struct {
	rulesFile string
	region    string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		telemetry.Sync()
		os.Exit(1)
	}
	telemetry.Sync()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "agri",
		Short:        "Crop recommendation rules from the command line",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return telemetry.Init(opts.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.rulesFile, "rules", os.Getenv("RULES_FILE"), "YAML rule table path or s3:// URI (default: built-in table)")
	root.PersistentFlags().StringVar(&opts.region, "region", envOr("AWS_REGION", "ap-south-1"), "AWS region for s3:// rule tables")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRecommendCmd(opts),
		newOptionsCmd(),
		newRulesCmd(opts),
	)
	return root
}

func (o *rootOptions) engine(ctx context.Context) (*recommend.Engine, error) {
	return rulesource.LoadEngine(ctx, o.rulesFile, o.region)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
