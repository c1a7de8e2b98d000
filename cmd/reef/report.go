package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reef/internal/driver"
)

var reportCmd = &cobra.Command{
	Use:   "report <messages.json>",
	Short: "Render a saved JSON message stream",
	Long:  `Render a compact report from a file of newline-delimited cargo JSON messages, e.g. one captured with --debug or in CI`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Bool("verbose", false, "show full messages, target attribution and suggestions")
	reportCmd.Flags().Bool("no-warnings", false, "hide warning lines (totals still count them)")
	reportCmd.Flags().Bool("json", false, "emit the deduplicated report as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadToolConfig("")
	if err != nil {
		return err
	}
	settings, err := resolveRenderSettings(cmd, cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", driver.ErrSourceUnavailable, err)
	}
	defer f.Close()

	res, err := driver.Collect(cmd.Context(), f, driver.Options{})
	if err != nil {
		return err
	}

	if err := renderReport(&res.Report, settings); err != nil {
		return err
	}

	if res.Report.HasErrors() {
		exitStatus = 1
	}
	return nil
}
