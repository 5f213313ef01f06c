// Package timecode owns the seconds-to-frames conversions and subtitle
// timestamp formats used throughout the pipeline.
//
// Two rounding rules coexist on purpose: event timestamps (segment and word
// boundaries) round to the nearest frame, while clip durations round up so a
// scene always spans every frame its audio occupies. Mixing the two up is
// how cumulative drift bugs happen, so every caller goes through this
// package instead of doing the arithmetic inline.
package timecode
