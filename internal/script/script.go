package script

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"reeltime/internal/services"
)

// VisualPanel is an authored on-screen text fragment meant to align with a
// portion of the spoken narration. StartPercent/EndPercent carry the coarse
// authoring-time placement used as a fallback when alignment fails.
type VisualPanel struct {
	Text         string   `json:"text"`
	StartPercent *float64 `json:"startPercent,omitempty"`
	EndPercent   *float64 `json:"endPercent,omitempty"`
}

// Scene is one contiguous timed unit of the composition, backed by exactly
// one synthesized speech clip.
type Scene struct {
	ID             string        `json:"id"`
	Text           string        `json:"text"`
	TargetDuration *float64      `json:"targetDuration,omitempty"`
	Bumper         bool          `json:"bumper,omitempty"`
	TransitionIn   float64       `json:"transitionIn,omitempty"`
	TransitionOut  float64       `json:"transitionOut,omitempty"`
	Panels         []VisualPanel `json:"panels,omitempty"`
}

// Script is the authored narration document the whole pipeline starts from.
type Script struct {
	CompositionID string  `json:"compositionId,omitempty"`
	Scenes        []Scene `json:"scenes"`
}

// Load reads and validates a script file. A missing or malformed script is a
// configuration error: nothing downstream can run without it.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "script", "load", fmt.Sprintf("read %s", path), err)
	}
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "script", "load", fmt.Sprintf("parse %s", path), err)
	}
	if err := s.validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "script", "load", err.Error(), nil)
	}
	return &s, nil
}

func (s *Script) validate() error {
	if len(s.Scenes) == 0 {
		return fmt.Errorf("script has no scenes")
	}
	seen := make(map[string]struct{}, len(s.Scenes))
	for i, scene := range s.Scenes {
		id := strings.TrimSpace(scene.ID)
		if id == "" {
			return fmt.Errorf("scene %d has an empty id", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("duplicate scene id %q", id)
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(scene.Text) == "" {
			return fmt.Errorf("scene %q has no narration text", id)
		}
	}
	return nil
}

// SceneByID returns the scene with the given id, or nil.
func (s *Script) SceneByID(id string) *Scene {
	for i := range s.Scenes {
		if s.Scenes[i].ID == id {
			return &s.Scenes[i]
		}
	}
	return nil
}

// SceneIDs returns the scene ids in declaration order.
func (s *Script) SceneIDs() []string {
	ids := make([]string, 0, len(s.Scenes))
	for _, scene := range s.Scenes {
		ids = append(ids, scene.ID)
	}
	return ids
}

// Filter returns the scenes whose ids appear in keep, preserving declaration
// order. An empty keep set returns every scene.
func (s *Script) Filter(keep []string) []Scene {
	if len(keep) == 0 {
		return s.Scenes
	}
	want := make(map[string]struct{}, len(keep))
	for _, id := range keep {
		want[strings.TrimSpace(id)] = struct{}{}
	}
	out := make([]Scene, 0, len(keep))
	for _, scene := range s.Scenes {
		if _, ok := want[scene.ID]; ok {
			out = append(out, scene)
		}
	}
	return out
}
