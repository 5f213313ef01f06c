package audiometa

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"reeltime/internal/logging"
	"reeltime/internal/media/ffprobe"
	"reeltime/internal/script"
	"reeltime/internal/services"
	"reeltime/internal/timecode"
)

// ClipMetadata describes one scene's synthesized audio clip. A probe failure
// leaves DurationSeconds at zero and records the error inline; the scene is
// never silently dropped.
type ClipMetadata struct {
	SceneID         string  `json:"id"`
	File            string  `json:"file"`
	DurationSeconds float64 `json:"durationSeconds"`
	DurationFrames  int     `json:"durationFrames"`
	Text            string  `json:"text"`
	Err             string  `json:"error,omitempty"`
}

// Prober measures a clip's duration in seconds. The default implementation
// shells out to ffprobe; tests substitute a stub.
type Prober func(ctx context.Context, path string) (float64, error)

// FFprobeProber returns a Prober backed by the given ffprobe binary.
func FFprobeProber(binary string) Prober {
	return func(ctx context.Context, path string) (float64, error) {
		result, err := ffprobe.Inspect(ctx, binary, path)
		if err != nil {
			return 0, err
		}
		duration := result.DurationSeconds()
		if duration <= 0 {
			return 0, fmt.Errorf("no duration reported for %s", filepath.Base(path))
		}
		return duration, nil
	}
}

// Extractor measures clip durations for a list of scenes.
type Extractor struct {
	probe  Prober
	fps    int
	logger *slog.Logger
}

// NewExtractor constructs an Extractor. A nil logger is replaced with a nop.
func NewExtractor(probe Prober, fps int, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Extractor{probe: probe, fps: fps, logger: logger}
}

// ClipPath returns the conventional clip location for a scene.
func ClipPath(assetsDir, sceneID string) string {
	return filepath.Join(assetsDir, sceneID+".mp3")
}

// Extract probes every scene's clip sequentially and returns one entry per
// scene, in declaration order. Probe failures are recorded on the entry and
// do not abort the remaining scenes.
func (e *Extractor) Extract(ctx context.Context, scenes []script.Scene, assetsDir string) []ClipMetadata {
	entries := make([]ClipMetadata, 0, len(scenes))
	for _, scene := range scenes {
		sceneCtx := services.WithSceneID(ctx, scene.ID)
		log := logging.WithContext(sceneCtx, e.logger)

		entry := ClipMetadata{
			SceneID: scene.ID,
			File:    ClipPath(assetsDir, scene.ID),
			Text:    scene.Text,
		}
		if _, err := os.Stat(entry.File); err != nil {
			entry.Err = fmt.Sprintf("clip missing: %v", err)
			log.Warn("audio clip missing", "file", entry.File)
			entries = append(entries, entry)
			continue
		}
		duration, err := e.probe(sceneCtx, entry.File)
		if err != nil {
			entry.Err = err.Error()
			log.Warn("duration probe failed", "error", err)
			entries = append(entries, entry)
			continue
		}
		entry.DurationSeconds = duration
		entry.DurationFrames = timecode.DurationFrames(duration, e.fps)
		log.Debug("clip probed", "duration_seconds", duration, "duration_frames", entry.DurationFrames)
		entries = append(entries, entry)
	}
	return entries
}
