package audiometa

import (
	"fmt"
	"unicode/utf8"

	"reeltime/internal/script"
	"reeltime/internal/validation"
)

// Thresholds controls the advisory quality review.
type Thresholds struct {
	MinSceneSeconds   float64
	MaxSceneSeconds   float64
	MinCharsPerSecond float64
	MaxCharsPerSecond float64
}

// criticalMinSeconds flags clips so short the synthesis almost certainly
// failed.
const criticalMinSeconds = 0.5

// Review inspects probed durations for anomalies. It only annotates: the
// returned issues never halt the pipeline.
func Review(entries []ClipMetadata, scenes []script.Scene, th Thresholds) []validation.Issue {
	bumpers := make(map[string]bool, len(scenes))
	for _, scene := range scenes {
		bumpers[scene.ID] = scene.Bumper
	}

	var issues []validation.Issue
	for _, entry := range entries {
		if entry.Err != "" || entry.DurationSeconds <= 0 {
			continue // probe failures are reported by the extractor
		}

		if entry.DurationSeconds < criticalMinSeconds {
			issues = append(issues, validation.Issue{
				Category: validation.CategoryAudioQuality,
				Severity: validation.SeverityError,
				SceneID:  entry.SceneID,
				Message:  fmt.Sprintf("clip is only %.2fs, synthesis likely failed", entry.DurationSeconds),
			})
			continue
		}

		chars := utf8.RuneCountInString(entry.Text)
		if chars > 0 {
			cps := float64(chars) / entry.DurationSeconds
			if cps < th.MinCharsPerSecond || cps > th.MaxCharsPerSecond {
				issues = append(issues, validation.Issue{
					Category: validation.CategoryAudioQuality,
					Severity: validation.SeverityWarning,
					SceneID:  entry.SceneID,
					Message: fmt.Sprintf("speech rate %.1f chars/sec outside [%.0f, %.0f], possible mis-synthesis or excess silence",
						cps, th.MinCharsPerSecond, th.MaxCharsPerSecond),
				})
			}
		}

		if bumpers[entry.SceneID] {
			continue // bumpers are intentionally short
		}
		if entry.DurationSeconds < th.MinSceneSeconds || entry.DurationSeconds > th.MaxSceneSeconds {
			issues = append(issues, validation.Issue{
				Category: validation.CategoryPacing,
				Severity: validation.SeverityWarning,
				SceneID:  entry.SceneID,
				Message: fmt.Sprintf("scene runs %.1fs, outside the [%.0fs, %.0fs] pacing window",
					entry.DurationSeconds, th.MinSceneSeconds, th.MaxSceneSeconds),
			})
		}
	}
	return issues
}
