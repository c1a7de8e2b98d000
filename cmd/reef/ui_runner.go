package main

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"reef/internal/driver"
	"reef/internal/ui"
)

type collectOutcome struct {
	res *driver.Result
	err error
}

// collectWithUI runs the collect pipeline in the background while a spinner
// with live severity counts occupies the terminal. The UI draws on stderr so
// stdout stays a clean report stream.
//
// The UI can go away before the stream ends: the terminal is in raw mode, so
// ctrl+c arrives as a key press and quits the program instead of signalling
// the process, and Run fails outright without a tty. Neither may strand the
// collector mid-send, so remaining events are always drained and a user quit
// cancels the run, which kills cargo and leaves a partial report.
func collectWithUI(ctx context.Context, cancel context.CancelFunc, title string, stream io.Reader, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	opts.Events = events
	outcomeCh := make(chan collectOutcome, 1)

	go func() {
		res, err := driver.Collect(ctx, stream, opts)
		outcomeCh <- collectOutcome{res: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	if _, uiErr := program.Run(); uiErr == nil {
		// Clean exit before the channel closed means the user quit.
		cancel()
	}
	// A failed Run degrades to collection without a progress display;
	// either way the collector must not block on an event nobody reads.
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	return outcome.res, outcome.err
}
