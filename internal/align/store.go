package align

import (
	"path/filepath"

	"reeltime/internal/artifacts"
)

// Store persists the visual panels artifact.
type Store struct {
	path string
}

// NewStore creates a store rooted at the artifacts directory.
func NewStore(artifactsDir string) *Store {
	return &Store{path: filepath.Join(artifactsDir, artifacts.VisualPanelsFile)}
}

// Path returns the artifact file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the aligned panel output.
func (s *Store) Save(compositionID string, fps int, scenes []ScenePanels) (*Output, error) {
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
