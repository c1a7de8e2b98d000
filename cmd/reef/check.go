package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"reef/internal/driver"
	"reef/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [-- cargo-args]",
	Short: "Run cargo check and render a compact report",
	Long:  `Run cargo check with JSON message output and condense its diagnostics into one line per distinct problem, deduplicated across build targets`,
	Args:  cobra.ArbitraryArgs,
	RunE:  runChecker(driver.CheckerCheck),
}

var clippyCmd = &cobra.Command{
	Use:   "clippy [flags] [-- cargo-args]",
	Short: "Run cargo clippy and render a compact report",
	Args:  cobra.ArbitraryArgs,
	RunE:  runChecker(driver.CheckerClippy),
}

func init() {
	for _, c := range []*cobra.Command{checkCmd, clippyCmd} {
		c.Flags().Bool("verbose", false, "show full messages, target attribution and suggestions")
		c.Flags().Bool("no-warnings", false, "hide warning lines (totals still count them)")
		c.Flags().Bool("json", false, "emit the deduplicated report as JSON")
		c.Flags().Bool("debug", false, "append raw JSON lines to reef.json while processing")
		c.Flags().String("ui", "auto", "live progress while cargo runs (auto|on|off)")
		c.Flags().String("dir", "", "run cargo in this directory instead of the current one")
	}
}

func runChecker(checker driver.Checker) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
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

		uiFlag, err := cmd.Flags().GetString("ui")
		if err != nil {
			return err
		}
		mode, err := readUIMode(uiFlag)
		if err != nil {
			return err
		}

		debug, err := cmd.Flags().GetBool("debug")
		if err != nil {
			return err
		}

		extraArgs := append(append([]string{}, cfg.Check.Args...), args...)

		// An interrupt kills cargo through the context; whatever was
		// extracted up to that point is still rendered below. The live UI
		// gets the cancel too: quitting it must also stop cargo.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var timer *observ.Timer
		if settings.showTime {
			timer = observ.NewTimer()
		}

		spawnPhase := timer.Begin("spawn")
		source := driver.NewCargoSource(ctx, checker, dir, extraArgs)
		stream, err := source.Start()
		if err != nil {
			return err
		}
		timer.End(spawnPhase, "cargo "+checker.String())

		opts := driver.Options{}
		if debug {
			opts.DebugPath = "reef.json"
		}

		collectPhase := timer.Begin("collect")
		var res *driver.Result
		if shouldUseTUI(mode) && !settings.quiet && !settings.json {
			res, err = collectWithUI(ctx, cancel, "cargo "+checker.String(), stream, opts)
		} else {
			res, err = driver.Collect(ctx, stream, opts)
		}
		if err != nil {
			return err
		}
		exit := source.Wait()
		timer.End(collectPhase, fmt.Sprintf("%d lines", res.Lines))

		// A dead stream carries no build-finished record; the process
		// exit status is the next best truth.
		if !res.SawFinished {
			res.Report.BuildOK = exit == 0
		}

		renderPhase := timer.Begin("render")
		if err := renderReport(&res.Report, settings); err != nil {
			return err
		}
		timer.End(renderPhase, "")

		// Cargo failing before emitting a single JSON record usually
		// means a manifest or toolchain problem; surface its own words.
		if exit != 0 && res.Lines == 0 && !settings.quiet {
			fmt.Fprint(os.Stderr, source.Stderr())
		}

		saveLastRun(checker, exit, res, dir, settings)

		if settings.showTime {
			fmt.Fprint(os.Stderr, timer.Summary())
		}

		exitStatus = exit
		return nil
	}
}

// saveLastRun caches the finished report so `reef last` can re-render it
// without recompiling. Best effort: a broken cache never fails the run.
func saveLastRun(checker driver.Checker, exit int, res *driver.Result, dir string, settings renderSettings) {
	cache, err := driver.OpenCache("reef")
	if err != nil {
		if !settings.quiet {
			fmt.Fprintf(os.Stderr, "warning: cannot open run cache: %v\n", err)
		}
		return
	}
	project := dir
	if project == "" {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			project = cwd
		}
	}
	payload := &driver.CachePayload{
		Checker:    checker.String(),
		ExitCode:   exit,
		Report:     res.Report,
		LineErrors: res.LineErrors,
	}
	if err := cache.Put(project, payload); err != nil && !settings.quiet {
		fmt.Fprintf(os.Stderr, "warning: cannot cache run: %v\n", err)
	}
}
