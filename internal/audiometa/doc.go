// Package audiometa measures synthesized narration clips and maintains the
// audio metadata artifact.
//
// The extractor probes each scene's clip with ffprobe and records failures
// inline rather than aborting the batch. The quality review annotates
// anomalous durations and speech rates without ever blocking. The store
// merges by scene id so regenerating a subset of scenes leaves every other
// scene's metadata untouched.
package audiometa
