package main

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"reef/internal/diag"
	"reef/internal/diagfmt"
)

// renderSettings is everything the output stage needs, resolved once from
// flags, config and the terminal.
type renderSettings struct {
	color    bool
	width    uint16
	verbose  bool
	noWarn   bool
	json     bool
	quiet    bool
	showTime bool
}

func resolveRenderSettings(cmd *cobra.Command, cfg toolConfig) (renderSettings, error) {
	var s renderSettings
	root := cmd.Root().PersistentFlags()

	colorFlag, err := root.GetString("color")
	if err != nil {
		return s, err
	}
	if colorFlag == "auto" && cfg.Output.Color != "" {
		colorFlag = cfg.Output.Color
	}
	switch colorFlag {
	case "on":
		s.color = true
	case "off":
		s.color = false
	case "auto", "":
		s.color = isTerminal(os.Stdout)
	default:
		return s, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
	// fatih/color second-guesses non-tty output; the resolved setting is
	// authoritative.
	color.NoColor = !s.color

	widthFlag, err := root.GetInt("width")
	if err != nil {
		return s, err
	}
	if widthFlag == 0 {
		widthFlag = cfg.Output.Width
	}
	if widthFlag == 0 {
		if cols, _, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil && cols > 0 {
			widthFlag = cols
		}
	}
	if widthFlag != 0 {
		w, convErr := safecast.Conv[uint16](widthFlag)
		if convErr != nil {
			return s, fmt.Errorf("invalid width %d: %w", widthFlag, convErr)
		}
		s.width = w
	}

	s.quiet, err = root.GetBool("quiet")
	if err != nil {
		return s, err
	}
	s.showTime, err = root.GetBool("timings")
	if err != nil {
		return s, err
	}

	if f := cmd.Flags().Lookup("verbose"); f != nil {
		s.verbose, _ = cmd.Flags().GetBool("verbose")
	}
	s.verbose = s.verbose || cfg.Output.Verbose
	if f := cmd.Flags().Lookup("no-warnings"); f != nil {
		s.noWarn, _ = cmd.Flags().GetBool("no-warnings")
	}
	if f := cmd.Flags().Lookup("json"); f != nil {
		s.json, _ = cmd.Flags().GetBool("json")
	}
	return s, nil
}

// renderReport writes the report to stdout in the selected format.
func renderReport(rep *diag.Report, s renderSettings) error {
	if s.json {
		return diagfmt.JSON(os.Stdout, rep, diagfmt.JSONOpts{
			IncludeChildren:     true,
			IncludeReplacements: s.verbose,
		})
	}
	diagfmt.Compact(os.Stdout, rep, diagfmt.CompactOpts{
		Color:        s.color,
		Width:        s.width,
		Verbose:      s.verbose,
		HideWarnings: s.noWarn,
	})
	return nil
}
