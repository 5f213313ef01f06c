package transcribe

// Word is a single recognized word with timing, enriched with frame numbers.
type Word struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	StartFrame int     `json:"startFrame"`
	EndFrame   int     `json:"endFrame"`
}

// Segment is a transcription span coarser than word level.
type Segment struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	StartFrame int     `json:"startFrame"`
	EndFrame   int     `json:"endFrame"`
}

// SceneTranscription is one scene's normalized transcription result. A
// provider failure leaves Segments/Words empty and records Err.
type SceneTranscription struct {
	SceneID         string    `json:"id"`
	DurationSeconds float64   `json:"duration"`
	DurationFrames  int       `json:"durationFrames"`
	Text            string    `json:"text"`
	Segments        []Segment `json:"segments"`
	Words           []Word    `json:"words"`
	Err             string    `json:"error,omitempty"`
}

// Output is the persisted transcription artifact.
type Output struct {
	CompositionID string               `json:"compositionId"`
	GeneratedAt   string               `json:"generatedAt"`
	FPS           int                  `json:"fps"`
	Scenes        []SceneTranscription `json:"scenes"`
}

// ByScene indexes the output's scenes by id.
func (o *Output) ByScene() map[string]*SceneTranscription {
	out := make(map[string]*SceneTranscription, len(o.Scenes))
	for i := range o.Scenes {
		out[o.Scenes[i].SceneID] = &o.Scenes[i]
	}
	return out
}
