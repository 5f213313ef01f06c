package align

// Match types, in fallback order.
const (
	MatchSegment     = "segment"
	MatchWords       = "words"
	MatchNone        = "none"
	MatchAutoSegment = "auto-segment"
)

// Thresholds fixed by the matching contract. Segment matches must clear
// segmentThreshold; the word-sequence fallback always reports
// wordsConfidence regardless of how good the word hit looks, so consumers
// can tell the two tiers apart by confidence alone.
const (
	segmentThreshold = 0.5
	wordsConfidence  = 0.7
	// wordSpanPadding extends a word-fallback span past the panel's own
	// word count to absorb transcription insertions.
	wordSpanPadding = 5
)

// PanelAlignment is one panel's resolved timing with provenance.
type PanelAlignment struct {
	Text         string  `json:"text"`
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
	StartFrame   int     `json:"startFrame"`
	EndFrame     int     `json:"endFrame"`
	StartPercent int     `json:"startPercent"`
	EndPercent   int     `json:"endPercent"`
	Confidence   float64 `json:"confidence"`
	MatchType    string  `json:"matchType"`
	Warning      string  `json:"warning,omitempty"`
}

// ScenePanels is one scene's aligned panel set.
type ScenePanels struct {
	SceneID         string           `json:"id"`
	DurationSeconds float64          `json:"duration"`
	DurationFrames  int              `json:"durationFrames"`
	Panels          []PanelAlignment `json:"panels"`
}

// Output is the persisted visual panels artifact.
type Output struct {
	CompositionID string        `json:"compositionId"`
	GeneratedAt   string        `json:"generatedAt"`
	FPS           int           `json:"fps"`
	Scenes        []ScenePanels `json:"scenes"`
}
