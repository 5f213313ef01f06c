package captions

import (
	"fmt"
	"path/filepath"
	"strings"

	"reeltime/internal/artifacts"
	"reeltime/internal/timecode"
)

// ExportSRT renders the scenes as sequential numbered SRT cues with
// comma-millisecond timestamps. Scene offsets shift each scene's cues onto
// the composition timeline.
func ExportSRT(scenes []SceneCaptions, offsets map[string]float64) string {
	var b strings.Builder
	index := 1
	for _, scene := range scenes {
		offset := offsets[scene.SceneID]
		for _, segment := range scene.Segments {
			fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
				index,
				timecode.FormatSRT(offset+segment.StartTime),
				timecode.FormatSRT(offset+segment.EndTime),
				segment.Text)
			index++
		}
	}
	return b.String()
}

// ExportVTT renders the scenes as a WEBVTT document with dot-millisecond
// timestamps, derived from the same segment list as the SRT variant.
func ExportVTT(scenes []SceneCaptions, offsets map[string]float64) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, scene := range scenes {
		offset := offsets[scene.SceneID]
		for _, segment := range scene.Segments {
			fmt.Fprintf(&b, "%s --> %s\n%s\n\n",
				timecode.FormatVTT(offset+segment.StartTime),
				timecode.FormatVTT(offset+segment.EndTime),
				segment.Text)
		}
	}
	return b.String()
}

// Store persists the caption timing artifact.
type Store struct {
	path string
}

// NewStore creates a store rooted at the artifacts directory.
func NewStore(artifactsDir string) *Store {
	return &Store{path: filepath.Join(artifactsDir, artifacts.CaptionTimingFile)}
}

// Path returns the artifact file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the caption timing output.
func (s *Store) Save(compositionID string, fps int, scenes []SceneCaptions) (*Output, error) {
	out := &Output{
		CompositionID: compositionID,
		GeneratedAt:   artifacts.Timestamp(),
		FPS:           fps,
		Scenes:        scenes,
	}
	if err := artifacts.WriteJSON(s.path, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Load reads the persisted output, or (nil, nil) when absent.
func (s *Store) Load() (*Output, error) {
	var out Output
	if err := artifacts.ReadJSON(s.path, &out); err != nil {
		if !artifacts.Exists(s.path) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
