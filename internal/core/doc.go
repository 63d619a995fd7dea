// Package core implements the faculty allocation pipeline: one uploaded
// table of students in, a CGPA-ranked allocation, an original-order final
// sheet, and a per-faculty preference tally out.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be driven by web handlers, CLI tools, or tests without
// modification.
//
// # Pipeline
//
// The stages are pure functions over [Table] snapshots:
//
//	input                      -> Allocate  -> sorted table + AllocatedFaculty
//	input + sorted allocation  -> Reconcile -> final table in original row order
//	input                      -> Tally     -> per-faculty preference counts
//
// [DetectPreferenceColumns] anchors every stage: the CGPA column is found by
// name, and every column after it is a preference rank. Preference cells are
// canonicalized through a [CodeTable] before any stage compares them, so
// numeric codes and literal faculty names count as the same thing.
//
// # Runs
//
// [Service] wraps the stages in a run registry. Every upload becomes an
// isolated [Run] addressable by UUID until it expires, guarded by a
// [RunLimiter] so a burst of uploads queues instead of exhausting the
// process.
//
// # Error Handling
//
// Structural faults in an upload surface as typed errors; [MapError]
// translates them to user-facing messages with stable support codes:
//
//   - ALLOC001-ALLOC004: Pipeline errors (missing columns, misaligned tables)
//   - RUN001-RUN002: Run errors (limiter saturation, expired runs)
//   - FILE001-FILE003: File errors (size, missing, empty)
//   - CSV001: Malformed CSV
package core
