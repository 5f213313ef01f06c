package rendertiming

import (
	"fmt"

	"reeltime/internal/timecode"
	"reeltime/internal/validation"
)

// SceneFrameEntry is one scene's slot in the composition frame table.
// StartFrame is the strict prefix sum of every earlier scene's TotalFrames
// in declaration order.
type SceneFrameEntry struct {
	SceneID         string
	DurationSeconds float64
	AudioFrames     int
	BufferFrames    int
	TotalFrames     int
	StartFrame      int
}

// Table is the computed frame table for the whole composition.
type Table struct {
	FPS          int
	BufferFrames int
	Entries      []SceneFrameEntry
	// Skipped lists scenes that had no usable duration; they are reported,
	// never silently dropped.
	Skipped []validation.Issue
}

// TotalFrames returns the composition length in frames.
func (t *Table) TotalFrames() int {
	total := 0
	for _, entry := range t.Entries {
		total += entry.TotalFrames
	}
	return total
}

// TotalSeconds returns the composition length in seconds.
func (t *Table) TotalSeconds() float64 {
	if t.FPS <= 0 {
		return 0
	}
	return float64(t.TotalFrames()) / float64(t.FPS)
}

// Build computes per-scene frame counts and cumulative start frames.
// totalFrames = ceil(durationSeconds * fps) + bufferFrames, with the buffer
// always in frames. Scenes missing a duration are skipped with a warning
// and the prefix sum continues over the remaining scenes, staying strict
// and gap-free.
func Build(order []string, durations map[string]float64, fps, bufferFrames int) (*Table, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", fps)
	}
	if bufferFrames < 0 {
		return nil, fmt.Errorf("buffer frames must not be negative, got %d", bufferFrames)
	}

	table := &Table{FPS: fps, BufferFrames: bufferFrames}
	cursor := 0
	for _, sceneID := range order {
		duration, ok := durations[sceneID]
		if !ok || duration <= 0 {
			table.Skipped = append(table.Skipped, validation.Issue{
				Category: validation.CategoryMissingAudio,
				Severity: validation.SeverityWarning,
				SceneID:  sceneID,
				Message:  "no measured duration; scene skipped in frame table",
			})
			continue
		}
		audioFrames := timecode.DurationFrames(duration, fps)
		entry := SceneFrameEntry{
			SceneID:         sceneID,
			DurationSeconds: duration,
			AudioFrames:     audioFrames,
			BufferFrames:    bufferFrames,
			TotalFrames:     audioFrames + bufferFrames,
			StartFrame:      cursor,
		}
		cursor += entry.TotalFrames
		table.Entries = append(table.Entries, entry)
	}
	return table, nil
}
