// Package transfer manages large-file upload coordination.
// This includes partitioning across concurrent resumable sessions,
// staggered launches, per-session retry, and progress tracking.
//
// The transfer package orchestrates the logical upload and delegates the
// resumable wire protocol to an Engine implementation.
package transfer
