package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shenikar/emergency_action_plan/internal/planner"
	"github.com/shenikar/emergency_action_plan/internal/repository"
	"github.com/shenikar/emergency_action_plan/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "actionplan",
		Short: "Derive and inspect emergency action plans offline",
	}
	rootCmd.PersistentFlags().String("plans-dir", "plans", "Directory with the current plan and history files")
	rootCmd.PersistentFlags().String("current-name", "last_routing.json", "File name of the current plan")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (logs go to stderr)")

	rootCmd.AddCommand(deriveCmd(), showCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func deriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive an action plan from an optimizer output file",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			format, _ := cmd.Flags().GetString("format")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			dir, _ := cmd.Flags().GetString("plans-dir")
			currentName, _ := cmd.Flags().GetString("current-name")
			level, _ := cmd.Flags().GetString("log-level")
			log := logger.NewWithOutput(level, os.Stderr)

			data, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}

			enriched, err := planner.NewEngine().DeriveDocument(data)
			if err != nil {
				return fmt.Errorf("could not derive plan from %s: %w", input, err)
			}

			if !dryRun {
				store := repository.NewFilePlanStore(dir, currentName)
				key, err := persistDerived(cmd.Context(), store, enriched, log)
				if err != nil {
					return err
				}
				log.WithField("history_key", key).WithField("dir", dir).Info("Action plan saved")
			}

			return renderDerived(cmd.OutOrStdout(), enriched, format)
		},
	}
	cmd.Flags().String("input", "plans/last_routing.json", "Optimizer output file, or - for stdin")
	cmd.Flags().String("format", formatText, "Output format: text, json or yaml")
	cmd.Flags().Bool("dry-run", false, "Print the plan without saving it")
	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current plan or a history record",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, _ := cmd.Flags().GetString("history")
			format, _ := cmd.Flags().GetString("format")
			dir, _ := cmd.Flags().GetString("plans-dir")
			currentName, _ := cmd.Flags().GetString("current-name")

			store := repository.NewFilePlanStore(dir, currentName)
			data, err := loadStored(cmd.Context(), store, key)
			if err != nil {
				return err
			}
			return renderStored(cmd.OutOrStdout(), data, format)
		},
	}
	cmd.Flags().String("history", "", "History key (YYYY-MM-DD_HH-MM-SS); current plan when empty")
	cmd.Flags().String("format", formatJSON, "Output format: json or yaml")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read optimizer output: %w", err)
	}
	return data, nil
}
