// Package diag defines the diagnostic model shared by the whole pipeline.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture the
//     diagnostics extracted from one cargo invocation.
//   - Offer the grouping/dedup stage (Grouper) that collapses the per-target
//     re-emissions cargo produces into one Group per distinct diagnostic.
//
// # Scope
//
// Package diag does not parse cargo output and does not format anything.
// Decoding the JSON message stream lives in internal/cargo, rendering lives
// in internal/diagfmt, process orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – closed enum (unknown, note, help, warning, error, ice)
//     defined in severity.go. Severities the compiler invents later map to
//     SevUnknown instead of failing the pipeline.
//   - Code – optional lint/error code (e.g. "E0308"), used for dedup keying.
//   - Message – human oriented text; only the first line is shown compactly.
//   - Primary span – the canonical source location, absent for crate-level
//     diagnostics.
//   - Secondary spans and Children – extra locations and nested note/help
//     messages, at most one practical nesting level.
//   - Target – the build target that emitted the record; attribution only,
//     never part of the dedup identity.
//
// Group is a deduplicated cluster of structurally equal Diagnostics that
// differ only by target. Groups keep first-seen order so output stays
// diffable across runs.
package diag
