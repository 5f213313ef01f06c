package timecode

import "math"

// Frame converts a timestamp in seconds to the nearest frame number.
// Timestamps (segment/word boundaries) round to nearest so a value of
// 2.88s at 60fps lands on frame 173.
func Frame(seconds float64, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(seconds * float64(fps)))
}

// DurationFrames converts a clip duration in seconds to a frame count.
// Durations round up: a scene must hold every frame its audio touches,
// so 2.88s at 60fps needs 173 frames, and 2.881s needs 173 as well but
// 2.884s needs 174.
func DurationFrames(seconds float64, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Ceil(seconds * float64(fps)))
}

// ClampFrame bounds a frame number to [0, limit].
func ClampFrame(frame, limit int) int {
	if frame < 0 {
		return 0
	}
	if limit >= 0 && frame > limit {
		return limit
	}
	return frame
}
