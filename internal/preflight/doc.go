// Package preflight runs the render-readiness checks: clip presence,
// declared-versus-measured duration drift, transition overlap, and orphaned
// audio detection. Checks accumulate into a single validation report so one
// pass surfaces everything at once.
package preflight
