// Package internal contains private implementation details for the Skynet client.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - partition: chunk-aligned byte-range planning for concurrent sessions
//   - transfer: the parallel upload coordinator and its tus protocol engine
//   - validation: input validation logic
//   - pool: request body buffer reuse
//   - testutil: shared test mocks
package internal
