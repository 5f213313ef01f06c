// Package pipeline orchestrates the stages that turn synthesized narration
// into render-ready timing: probe, transcribe, align, captions, sync, and
// preflight. Stages persist their outputs as artifacts so each one can be
// rerun on its own or for a scene subset.
package pipeline
