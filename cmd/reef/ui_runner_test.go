package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"reef/internal/driver"
)

const testErrorLine = `{"reason":"compiler-message","package_id":"mycrate 0.1.0","target":{"kind":["bin"],"name":"mycrate"},"message":{"message":"mismatched types","code":{"code":"E0308"},"level":"error","spans":[{"file_name":"src/main.rs","line_start":4,"line_end":4,"column_start":5,"column_end":9,"is_primary":true}],"children":[]}}`

// The collector emits one event per diagnostic into a 256-slot channel.
// When the UI goes away early (no tty, or the user quits) those events must
// still be drained, or a stream larger than the buffer wedges the collector
// mid-send and the run never finishes.
func TestCollectWithUIReturnsWhenUIExitsEarly(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 1000; i++ {
		b.WriteString(testErrorLine)
		b.WriteByte('\n')
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		res *driver.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := collectWithUI(ctx, cancel, "cargo check", strings.NewReader(b.String()), driver.Options{})
		done <- outcome{res: res, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			t.Fatalf("collect failed: %v", out.err)
		}
		if out.res == nil {
			t.Fatal("missing result")
		}
		if out.res.Lines != 1000 {
			t.Errorf("expected all 1000 lines consumed, got %d", out.res.Lines)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("collectWithUI did not return after the UI exited")
	}
}
