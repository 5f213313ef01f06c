// Package validation defines the shared issue and report types produced by
// the quality review, the panel aligner, and the preflight validator.
// Severity is strict: errors block render-readiness, warnings are advisory
// unless strict mode is on.
package validation
