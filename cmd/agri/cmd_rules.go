package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"agri-backend/internal/recommend"
	"agri-backend/internal/rulesource"
	"agri-backend/internal/shared/telemetry"
)

func newRulesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Export, validate or publish YAML rule tables",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "export",
			Short: "Write the active rule table as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				engine, err := opts.engine(cmd.Context())
				if err != nil {
					return err
				}
				return recommend.EncodeTable(cmd.OutOrStdout(), engine.Table())
			},
		},
		&cobra.Command{
			Use:   "check FILE...",
			Short: "Validate one or more YAML rule tables",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var failed []error
				for _, path := range args {
					table, err := rulesource.Load(cmd.Context(), path, opts.region)
					if err != nil {
						telemetry.Warn("rules.check.failed", map[string]any{"path": path, "error": err})
						fmt.Fprintf(cmd.ErrOrStderr(), "FAIL %s\n%v\n", path, err)
						failed = append(failed, fmt.Errorf("%s: %w", path, err))
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d rules, %d fallback)\n", path, table.RuleCount(), len(table.Fallback))
				}
				if len(failed) > 0 {
					return errors.Join(failed...)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "publish FILE DEST",
			Short: "Validate a rule table and copy it to a path or s3:// URI",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				table, err := rulesource.Load(cmd.Context(), args[0], opts.region)
				if err != nil {
					return err
				}
				n, err := rulesource.Publish(cmd.Context(), args[1], opts.region, table)
				if err != nil {
					return err
				}
				telemetry.Info("rules.published", map[string]any{"dest": args[1], "bytes": n, "rules": table.RuleCount()})
				fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d rules, %d bytes)\n", args[1], table.RuleCount(), n)
				return nil
			},
		},
	)
	return cmd
}
