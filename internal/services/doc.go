// Package services holds cross-cutting plumbing shared by pipeline stages:
// sentinel error markers with stage-aware wrapping, and context annotations
// (scene id, stage, correlation id) that the logging package lifts into
// structured fields.
package services
