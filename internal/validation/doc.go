// Package validation provides centralized input validation logic.
// This includes upload option validation and filename checks.
//
// All option values are validated eagerly, before any network activity,
// so misconfiguration never results in partial uploads.
package validation
