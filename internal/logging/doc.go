// Package logging assembles the structured slog loggers used across the
// pipeline: a compact colored console handler for interactive runs, a JSON
// handler for machine consumption, and context-aware helpers that tag log
// lines with scene ids, stages, and correlation ids.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
