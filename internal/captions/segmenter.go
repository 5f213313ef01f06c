package captions

import (
	"strings"

	"reeltime/internal/timecode"
)

// Punctuation pause multipliers. Words closing a sentence hold longer than
// words before a clause break.
const (
	terminalPauseFactor = 1.3
	clausePauseFactor   = 1.15
)

// CaptionSegment is one caption cue with derived frames.
type CaptionSegment struct {
	Text       string  `json:"text"`
	StartTime  float64 `json:"startTime"`
	EndTime    float64 `json:"endTime"`
	StartFrame int     `json:"startFrame"`
	EndFrame   int     `json:"endFrame"`
}

// SceneCaptions is one scene's estimated caption timing.
type SceneCaptions struct {
	SceneID      string           `json:"id"`
	StartTime    float64          `json:"startTime"`
	EndTime      float64          `json:"endTime"`
	Duration     float64          `json:"duration"`
	WordCount    int              `json:"wordCount"`
	SegmentCount int              `json:"segmentCount"`
	Segments     []CaptionSegment `json:"segments"`
}

// Output is the persisted caption timing artifact.
type Output struct {
	CompositionID string          `json:"compositionId"`
	GeneratedAt   string          `json:"generatedAt"`
	FPS           int             `json:"fps"`
	Scenes        []SceneCaptions `json:"scenes"`
}

// Segmenter estimates caption timing from text and duration alone, with no
// transcription ground truth. It is deliberately lower precision than the
// transcription-backed path but emits the same output shape so downstream
// consumers are agnostic to which path produced a segment.
type Segmenter struct {
	fps      int
	maxWords int
}

// NewSegmenter constructs a Segmenter.
func NewSegmenter(fps, maxWordsPerCaption int) *Segmenter {
	if maxWordsPerCaption <= 0 {
		maxWordsPerCaption = 7
	}
	return &Segmenter{fps: fps, maxWords: maxWordsPerCaption}
}

// Estimate splits scene text into caption segments spread over duration.
// Per-word time is the even share of the total, stretched for punctuation
// pauses; the running clock never passes the scene's end. A segment closes
// when it reaches the word cap or its last word ends a sentence, whichever
// comes first.
func (s *Segmenter) Estimate(sceneID, text string, duration float64) SceneCaptions {
	result := SceneCaptions{SceneID: sceneID, Duration: duration, EndTime: duration}
	words := strings.Fields(text)
	result.WordCount = len(words)
	if len(words) == 0 || duration <= 0 {
		return result
	}

	base := duration / float64(len(words))
	clock := 0.0

	var current []string
	segmentStart := 0.0

	flush := func(end float64) {
		if len(current) == 0 {
			return
		}
		result.Segments = append(result.Segments, CaptionSegment{
			Text:       strings.Join(current, " "),
			StartTime:  segmentStart,
			EndTime:    end,
			StartFrame: timecode.Frame(segmentStart, s.fps),
			EndFrame:   timecode.Frame(end, s.fps),
		})
		current = current[:0]
		segmentStart = end
	}

	for _, word := range words {
		step := base
		switch {
		case endsWithAny(word, ".", "!", "?"):
			step *= terminalPauseFactor
		case endsWithAny(word, ",", ";", ":"):
			step *= clausePauseFactor
		}
		clock += step
		if clock > duration {
			clock = duration
		}
		current = append(current, word)

		if len(current) >= s.maxWords || endsWithAny(word, ".", "!", "?") {
			flush(clock)
		}
	}
	flush(clock)

	result.SegmentCount = len(result.Segments)
	return result
}

func endsWithAny(word string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(word, suffix) {
			return true
		}
	}
	return false
}
