package driver

import (
	"errors"
	"testing"

	"reef/internal/diag"
)

func samplePayload() *CachePayload {
	g := diag.NewGrouper()
	g.Add(diag.Diagnostic{
		Severity:   diag.SevError,
		Code:       "E0308",
		Message:    "mismatched types",
		Primary:    diag.Span{File: "src/main.rs", LineStart: 4, ColumnStart: 5},
		HasPrimary: true,
		Target:     "mycrate",
	})
	return &CachePayload{
		Checker:  "check",
		ExitCode: 101,
		Report: diag.Report{
			Groups:  g.Groups(),
			Counts:  g.Counts(),
			BuildOK: false,
		},
		LineErrors: []LineError{{Line: 3, Err: "malformed JSON"}},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	project := t.TempDir()

	if err := cache.Put(project, samplePayload()); err != nil {
		t.Fatal(err)
	}

	got, err := cache.Get(project)
	if err != nil {
		t.Fatal(err)
	}
	if got.Checker != "check" || got.ExitCode != 101 {
		t.Errorf("metadata: %+v", got)
	}
	if len(got.Report.Groups) != 1 {
		t.Fatalf("groups lost: %d", len(got.Report.Groups))
	}
	rep := got.Report.Groups[0].Rep
	if rep.Message != "mismatched types" || rep.Primary.LineStart != 4 {
		t.Errorf("diagnostic mangled: %+v", rep)
	}
	if len(got.LineErrors) != 1 || got.LineErrors[0].Line != 3 {
		t.Errorf("line errors mangled: %+v", got.LineErrors)
	}
}

func TestCacheMissForUnknownProject(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get(t.TempDir()); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
}

func TestCacheIsolatesProjects(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a, b := t.TempDir(), t.TempDir()

	if err := cache.Put(a, samplePayload()); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Get(b); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("runs leaked between projects: %v", err)
	}
}

func TestCacheOverwrite(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	project := t.TempDir()

	first := samplePayload()
	if err := cache.Put(project, first); err != nil {
		t.Fatal(err)
	}

	second := &CachePayload{Checker: "clippy", ExitCode: 0, Report: diag.Report{BuildOK: true}}
	if err := cache.Put(project, second); err != nil {
		t.Fatal(err)
	}

	got, err := cache.Get(project)
	if err != nil {
		t.Fatal(err)
	}
	if got.Checker != "clippy" || got.ExitCode != 0 {
		t.Errorf("stale run returned: %+v", got)
	}
}
