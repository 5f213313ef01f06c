package audiometa

import (
	"errors"
	"io/fs"
	"path/filepath"

	"reeltime/internal/artifacts"
)

// Metadata is the persisted audio metadata artifact.
type Metadata struct {
	GeneratedAt string         `json:"generatedAt"`
	Provider    string         `json:"provider"`
	Language    string         `json:"language"`
	Scenes      []ClipMetadata `json:"scenes"`
}

// Store persists audio metadata under the artifacts directory.
type Store struct {
	path string
}

// NewStore creates a store rooted at the artifacts directory.
func NewStore(artifactsDir string) *Store {
	return &Store{path: filepath.Join(artifactsDir, artifacts.AudioMetadataFile)}
}

// Path returns the artifact file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted metadata. A missing artifact returns (nil, nil):
// the caller decides whether that is acceptable.
func (s *Store) Load() (*Metadata, error) {
	var meta Metadata
	if err := artifacts.ReadJSON(s.path, &meta); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &meta, nil
}

// Save merges freshly probed entries with any previously persisted ones and
// writes the result. Scenes present in updated replace their stored
// counterparts; every untouched scene's entry is carried over unchanged, so
// a filtered regeneration never loses data. The order slice fixes scene
// declaration order for the merged output.
func (s *Store) Save(updated []ClipMetadata, order []string, provider, language string) (*Metadata, error) {
	previous, err := s.Load()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]ClipMetadata)
	if previous != nil {
		for _, entry := range previous.Scenes {
			byID[entry.SceneID] = entry
		}
	}
	for _, entry := range updated {
		byID[entry.SceneID] = entry
	}

	merged := make([]ClipMetadata, 0, len(byID))
	seen := make(map[string]struct{}, len(byID))
	for _, id := range order {
		if entry, ok := byID[id]; ok {
			merged = append(merged, entry)
			seen[id] = struct{}{}
		}
	}
	// Stored scenes no longer in the script keep their slot at the tail
	// rather than vanishing; preflight reports them as orphans.
	if previous != nil {
		for _, entry := range previous.Scenes {
			if _, ok := seen[entry.SceneID]; !ok {
				merged = append(merged, entry)
			}
		}
	}

	meta := &Metadata{
		GeneratedAt: artifacts.Timestamp(),
		Provider:    provider,
		Language:    language,
		Scenes:      merged,
	}
	if err := artifacts.WriteJSON(s.path, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// DurationsByScene indexes probed durations for the synchronizer.
func (m *Metadata) DurationsByScene() map[string]float64 {
	out := make(map[string]float64, len(m.Scenes))
	for _, entry := range m.Scenes {
		if entry.Err == "" && entry.DurationSeconds > 0 {
			out[entry.SceneID] = entry.DurationSeconds
		}
	}
	return out
}
