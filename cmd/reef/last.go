package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reef/internal/driver"
)

var lastCmd = &cobra.Command{
	Use:   "last",
	Short: "Re-render the previous run without recompiling",
	Args:  cobra.NoArgs,
	RunE:  runLast,
}

func init() {
	lastCmd.Flags().Bool("verbose", false, "show full messages, target attribution and suggestions")
	lastCmd.Flags().Bool("no-warnings", false, "hide warning lines (totals still count them)")
	lastCmd.Flags().Bool("json", false, "emit the deduplicated report as JSON")
	lastCmd.Flags().String("dir", "", "project directory the run was cached for")
}

func runLast(cmd *cobra.Command, args []string) error {
	dir, err := cmd.Flags().GetString("dir")
	if err != nil {
		return err
	}
	cfg, _, err := loadToolConfig(dir)
	if err != nil {
		return err
	}
	settings, err := resolveRenderSettings(cmd, cfg)
	if err != nil {
		return err
	}

	cache, err := driver.OpenCache("reef")
	if err != nil {
		return err
	}

	project := dir
	if project == "" {
		if project, err = os.Getwd(); err != nil {
			return err
		}
	}

	payload, err := cache.Get(project)
	if err != nil {
		if errors.Is(err, driver.ErrCacheMiss) {
			return fmt.Errorf("no cached run for this project; run `reef check` first")
		}
		return err
	}

	if err := renderReport(&payload.Report, settings); err != nil {
		return err
	}

	exitStatus = payload.ExitCode
	return nil
}
