package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"reef/internal/cargo"
	"reef/internal/diag"
)

// Cargo emits one JSON object per line; rendered snippets can make lines
// large, so the scanner buffer is generous.
const maxLineBytes = 16 * 1024 * 1024

// maxErrorSamples bounds how many unparsable lines the report quotes
// verbatim; the full list stays in Result.LineErrors.
const maxErrorSamples = 3

// Event is one tick of pipeline progress, consumed by the live UI.
type Event struct {
	Severity diag.Severity
}

// LineError records one input line that failed to decode or lacked
// required fields. The error text is kept as a string so cached runs stay
// serialisable.
type LineError struct {
	Line int
	Err  string
}

// Options configures one Collect pass.
type Options struct {
	// DebugPath, when non-empty, appends every raw input line to the named
	// file while still processing it.
	DebugPath string
	// Events receives one Event per extracted diagnostic. The caller owns
	// draining and closing; nil disables progress reporting.
	Events chan<- Event
}

// Result is the outcome of one Collect pass.
type Result struct {
	Report diag.Report
	// Lines counts all non-blank input lines.
	Lines int
	// LineErrors holds the collected per-line failures in input order.
	LineErrors []LineError
	// SawFinished reports whether an explicit build-finished record ended
	// the stream. When false the caller should derive BuildOK from the
	// process exit status instead.
	SawFinished bool
}

// Collect streams r through decode, extract and grouping, and finishes the
// report at end of input. Per-line failures are accumulated, never raised.
// Context cancellation and read errors end the stream early but still
// return everything collected so far with Interrupted set: a partial report
// on interrupt is a requirement, not best effort.
//
// The only error Collect itself can return is a debug-tee file that cannot
// be opened.
func Collect(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	var tee *os.File
	if opts.DebugPath != "" {
		f, err := os.OpenFile(opts.DebugPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open debug file: %w", err)
		}
		tee = f
		defer tee.Close()
	}

	res := &Result{}
	extractor := cargo.NewExtractor()
	grouper := diag.NewGrouper()
	buildOK := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			res.Report.Interrupted = true
			break
		}
		lineNo++
		line := scanner.Bytes()

		if tee != nil {
			_, _ = tee.Write(line)
			_, _ = tee.Write([]byte{'\n'})
		}

		rec, err := cargo.DecodeLine(line)
		if err != nil {
			res.Lines++
			res.LineErrors = append(res.LineErrors, LineError{Line: lineNo, Err: err.Error()})
			continue
		}
		if rec == nil {
			// Blank separator line.
			continue
		}
		res.Lines++

		if rec.Reason == cargo.ReasonBuildFinished {
			res.SawFinished = true
			if rec.Success != nil {
				buildOK = *rec.Success
			}
			continue
		}

		d, ok, err := extractor.Extract(rec)
		if err != nil {
			res.LineErrors = append(res.LineErrors, LineError{Line: lineNo, Err: err.Error()})
			continue
		}
		if !ok {
			continue
		}
		grouper.Add(d)
		if opts.Events != nil {
			select {
			case opts.Events <- Event{Severity: d.Severity}:
			case <-ctx.Done():
			}
		}
	}
	if err := scanner.Err(); err != nil {
		res.Report.Interrupted = true
	}
	if ctx.Err() != nil {
		res.Report.Interrupted = true
	}

	res.Report.Groups = grouper.Groups()
	res.Report.Counts = grouper.Counts()
	res.Report.Unparsable = len(res.LineErrors)
	for i, le := range res.LineErrors {
		if i == maxErrorSamples {
			break
		}
		res.Report.Samples = append(res.Report.Samples, fmt.Sprintf("line %d: %s", le.Line, le.Err))
	}
	if res.SawFinished {
		res.Report.BuildOK = buildOK
	} else {
		res.Report.BuildOK = !grouper.HasErrors()
	}
	return res, nil
}
