package cmd

import (
	"fmt"

	"bucket-manager/core/logger"
	"bucket-manager/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool
var foldersFlag []string

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the configured bucket",
	Long:  `Checks that the bucket answers with the configured credentials and, with --folders, that the folder layout exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runConnectionCheck(cmd); err != nil {
			return err
		}
		if len(foldersFlag) == 0 {
			return nil
		}
		return runStructureCheck(cmd, false)
	},
}

// connectionCmd represents the integrity connection command
var connectionCmd = &cobra.Command{
	Use:   "connection",
	Short: "Check that the bucket is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConnectionCheck(cmd)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix folder structure",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(foldersFlag) == 0 {
			return fmt.Errorf("--folders is required")
		}
		return runStructureCheck(cmd, fixFlag)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(connectionCmd, structureCmd)

	integrityCmd.PersistentFlags().StringSliceVar(&foldersFlag, "folders", nil, "Folders that must exist (comma separated)")
	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
}

func consoleLogger() *zap.Logger {
	l, err := logger.New(&logger.Config{Level: "info", Format: "console"})
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func runConnectionCheck(cmd *cobra.Command) error {
	logg := consoleLogger()
	client, err := openClient(cmd)
	if err != nil {
		return err
	}

	logg.Info("Checking bucket connection...", zap.String("bucket", client.Bucket()))
	report := checks.CheckConnection(cmd.Context(), client)
	if !report.Reachable {
		return fmt.Errorf("bucket %s is unreachable: %s", report.Bucket, report.Error)
	}
	logg.Info("Bucket is reachable.", zap.Int64("latency_ms", report.LatencyMS))
	return nil
}

func runStructureCheck(cmd *cobra.Command, fix bool) error {
	logg := consoleLogger()
	client, err := openClient(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	logg.Info("Checking folder structure...")
	missing, err := checks.CheckStructure(ctx, client, foldersFlag)
	if err != nil {
		return fmt.Errorf("structure check failed: %w", err)
	}

	if len(missing) == 0 {
		logg.Info("Structure is intact.")
		return nil
	}

	logg.Warn("Missing folders detected", zap.Strings("missing", missing))
	if !fix {
		logg.Info("Run with --fix to create missing folders.")
		return nil
	}

	logg.Info("Fixing missing folders...")
	if err := checks.FixStructure(ctx, client, logg, missing); err != nil {
		return fmt.Errorf("failed to fix structure: %w", err)
	}
	logg.Info("Structure fixed successfully.")
	return nil
}
