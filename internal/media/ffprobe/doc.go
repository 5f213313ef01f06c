// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The duration extractor uses it to measure synthesized narration clips.
// Inspect executes ffprobe and returns a parsed Result; helper methods
// expose the container duration and audio stream count.
package ffprobe
