package driver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reef/internal/diag"
	"reef/internal/diagfmt"
)

const errorLine = `{"reason":"compiler-message","package_id":"mycrate 0.1.0","target":{"kind":["bin"],"name":"mycrate"},"message":{"message":"mismatched types","code":{"code":"E0308"},"level":"error","spans":[{"file_name":"src/main.rs","line_start":4,"line_end":4,"column_start":5,"column_end":9,"is_primary":true}],"children":[]}}`

const artifactLine = `{"reason":"compiler-artifact","package_id":"mycrate 0.1.0","target":{"kind":["bin"],"name":"mycrate"},"fresh":false}`

func collect(t *testing.T, input string, opts Options) *Result {
	t.Helper()
	res, err := Collect(context.Background(), strings.NewReader(input), opts)
	if err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	return res
}

func TestCollectEndToEndScenario(t *testing.T) {
	input := artifactLine + "\n" +
		errorLine + "\n" +
		`{"reason":"build-finished","success":false}` + "\n"

	res := collect(t, input, Options{})

	if len(res.Report.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(res.Report.Groups))
	}
	if !res.SawFinished || res.Report.BuildOK {
		t.Errorf("build outcome not captured: finished=%v ok=%v", res.SawFinished, res.Report.BuildOK)
	}

	var b strings.Builder
	diagfmt.Compact(&b, &res.Report, diagfmt.CompactOpts{Width: 100})
	want := "✗ src/main.rs:4:5: mismatched types\n1 error, 0 warnings\n"
	if b.String() != want {
		t.Fatalf("rendered report:\nwant %q\ngot  %q", want, b.String())
	}
}

func TestCollectEmptyInput(t *testing.T) {
	res := collect(t, "", Options{})

	if len(res.Report.Groups) != 0 || res.Lines != 0 {
		t.Fatalf("expected empty report, got %+v", res)
	}
	if res.Report.Interrupted {
		t.Error("EOF without diagnostics is not an interruption")
	}

	var b strings.Builder
	diagfmt.Compact(&b, &res.Report, diagfmt.CompactOpts{Width: 100})
	if b.String() != "0 errors, 0 warnings\n" {
		t.Fatalf("unexpected output: %q", b.String())
	}
}

func TestCollectMalformedLineBetweenValid(t *testing.T) {
	warn := strings.Replace(errorLine, `"level":"error"`, `"level":"warning"`, 1)
	warn = strings.Replace(warn, `"line_start":4`, `"line_start":9`, 1)
	input := errorLine + "\n" + "{this is not json}\n" + warn + "\n"

	res := collect(t, input, Options{})

	if len(res.Report.Groups) != 2 {
		t.Fatalf("expected exactly 2 diagnostics, got %d", len(res.Report.Groups))
	}
	if len(res.LineErrors) != 1 {
		t.Fatalf("expected exactly 1 decode error, got %d", len(res.LineErrors))
	}
	if res.LineErrors[0].Line != 2 {
		t.Errorf("decode error at wrong line: %d", res.LineErrors[0].Line)
	}
	if res.Report.Unparsable != 1 {
		t.Errorf("unparsable count: %d", res.Report.Unparsable)
	}
	if len(res.Report.Samples) != 1 || !strings.HasPrefix(res.Report.Samples[0], "line 2:") {
		t.Errorf("unexpected samples: %+v", res.Report.Samples)
	}
}

func TestCollectSamplesCapped(t *testing.T) {
	input := strings.Repeat("{broken\n", 5)

	res := collect(t, input, Options{})
	if res.Report.Unparsable != 5 {
		t.Fatalf("unparsable count: %d", res.Report.Unparsable)
	}
	if len(res.Report.Samples) != maxErrorSamples {
		t.Errorf("expected %d samples, got %d", maxErrorSamples, len(res.Report.Samples))
	}
}

func TestCollectBlankLinesSkippedSilently(t *testing.T) {
	input := "\n  \n" + errorLine + "\n\t\n"

	res := collect(t, input, Options{})
	if len(res.LineErrors) != 0 {
		t.Errorf("blank lines reported as errors: %+v", res.LineErrors)
	}
	if res.Lines != 1 {
		t.Errorf("expected 1 processed line, got %d", res.Lines)
	}
}

func TestCollectDedupAcrossTargets(t *testing.T) {
	testTarget := strings.Replace(errorLine, `"name":"mycrate"`, `"name":"mycrate_test"`, 1)
	input := errorLine + "\n" + testTarget + "\n"

	res := collect(t, input, Options{})
	if len(res.Report.Groups) != 1 {
		t.Fatalf("expected 1 deduplicated group, got %d", len(res.Report.Groups))
	}
	grp := res.Report.Groups[0]
	if grp.Count != 2 || len(grp.Targets) != 2 {
		t.Errorf("group: count=%d targets=%v", grp.Count, grp.Targets)
	}
}

func TestCollectInterruptedStream(t *testing.T) {
	// A reader that yields one valid line and then fails, as a killed
	// subprocess pipe would.
	r := io.MultiReader(
		strings.NewReader(errorLine+"\n"),
		failingReader{},
	)

	res, err := Collect(context.Background(), r, Options{})
	if err != nil {
		t.Fatalf("interrupt must not surface as an error: %v", err)
	}
	if !res.Report.Interrupted {
		t.Error("expected interrupted report")
	}
	if len(res.Report.Groups) != 1 {
		t.Fatalf("partial progress lost: %d groups", len(res.Report.Groups))
	}
}

func TestCollectCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Collect(ctx, strings.NewReader(errorLine+"\n"+errorLine+"\n"), Options{})
	if err != nil {
		t.Fatalf("cancellation must not surface as an error: %v", err)
	}
	if !res.Report.Interrupted {
		t.Error("expected interrupted report after cancellation")
	}
}

func TestCollectEventsPerDiagnostic(t *testing.T) {
	events := make(chan Event, 16)
	input := errorLine + "\n" + artifactLine + "\n"

	res := collect(t, input, Options{Events: events})
	close(events)

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event (artifact records emit none), got %d", len(got))
	}
	if got[0].Severity != diag.SevError {
		t.Errorf("event severity: %s", got[0].Severity)
	}
	if len(res.Report.Groups) != 1 {
		t.Errorf("groups: %d", len(res.Report.Groups))
	}
}

func TestCollectDebugTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reef.json")
	input := errorLine + "\n" + artifactLine + "\n"

	res := collect(t, input, Options{DebugPath: path})
	if res.Lines != 2 {
		t.Fatalf("lines: %d", res.Lines)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != input {
		t.Errorf("tee mismatch:\nwant %q\ngot  %q", input, string(data))
	}
}

func TestCollectDebugTeeOpenFailure(t *testing.T) {
	_, err := Collect(context.Background(), strings.NewReader(""), Options{
		DebugPath: filepath.Join(t.TempDir(), "missing", "deep", "reef.json"),
	})
	if err == nil {
		t.Fatal("expected error for unopenable debug path")
	}
}

func TestParseChecker(t *testing.T) {
	if c, err := ParseChecker(""); err != nil || c != CheckerCheck {
		t.Errorf("empty: %v %v", c, err)
	}
	if c, err := ParseChecker("clippy"); err != nil || c != CheckerClippy {
		t.Errorf("clippy: %v %v", c, err)
	}
	if _, err := ParseChecker("fmt"); err == nil {
		t.Error("expected error for unknown checker")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("pipe closed")
}
