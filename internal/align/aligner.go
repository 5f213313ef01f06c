package align

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"reeltime/internal/logging"
	"reeltime/internal/script"
	"reeltime/internal/services"
	"reeltime/internal/textutil"
	"reeltime/internal/timecode"
	"reeltime/internal/transcribe"
)

// Aligner matches authored visual panels against transcription output.
type Aligner struct {
	scorer textutil.Scorer
	fps    int
	logger *slog.Logger
}

// Option configures the Aligner.
type Option func(*Aligner)

// WithScorer substitutes the similarity heuristic. The default prefix scorer
// stays in place unless overridden so the 0.5 segment threshold keeps its
// calibration.
func WithScorer(scorer textutil.Scorer) Option {
	return func(a *Aligner) {
		if scorer != nil {
			a.scorer = scorer
		}
	}
}

// New constructs an Aligner. A nil logger is replaced with a nop.
func New(fps int, logger *slog.Logger, opts ...Option) *Aligner {
	if logger == nil {
		logger = logging.NewNop()
	}
	a := &Aligner{scorer: textutil.PrefixSimilarity, fps: fps, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run aligns every scene's panels. Scenes without a usable transcription
// fall through to the authored-placement fallback; alignment ambiguity is
// never an error, it surfaces as a low-confidence result.
func (a *Aligner) Run(ctx context.Context, scenes []script.Scene, transcriptions map[string]*transcribe.SceneTranscription) []ScenePanels {
	out := make([]ScenePanels, 0, len(scenes))
	for _, scene := range scenes {
		sceneCtx := services.WithSceneID(ctx, scene.ID)
		log := logging.WithContext(sceneCtx, a.logger)
		out = append(out, a.alignScene(scene, transcriptions[scene.ID], log))
	}
	return out
}

func (a *Aligner) alignScene(scene script.Scene, tr *transcribe.SceneTranscription, log *slog.Logger) ScenePanels {
	result := ScenePanels{SceneID: scene.ID}

	var duration float64
	usable := tr != nil && tr.Err == "" && tr.DurationSeconds > 0
	if usable {
		duration = tr.DurationSeconds
		result.DurationSeconds = duration
		result.DurationFrames = tr.DurationFrames
	}

	if len(scene.Panels) == 0 {
		if usable {
			result.Panels = a.panelsFromSegments(tr, duration)
			log.Debug("synthesized panels from segments", "count", len(result.Panels))
		}
		return result
	}

	for _, panel := range scene.Panels {
		var aligned PanelAlignment
		if usable {
			aligned = a.alignPanel(panel, tr, duration)
		} else {
			aligned = a.unmatched(panel, duration)
		}
		if aligned.MatchType == MatchNone {
			log.Warn("panel needs manual review", "panel_text", panel.Text)
		}
		result.Panels = append(result.Panels, aligned)
	}
	return result
}

// alignPanel applies the tiered matching strategy: segment similarity,
// word-sequence fallback, then authored placement.
func (a *Aligner) alignPanel(panel script.VisualPanel, tr *transcribe.SceneTranscription, duration float64) PanelAlignment {
	normalized := textutil.Normalize(panel.Text)

	bestScore := 0.0
	bestIdx := -1
	for i, segment := range tr.Segments {
		score := a.scorer(normalized, textutil.Normalize(segment.Text))
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 && bestScore > segmentThreshold {
		segment := tr.Segments[bestIdx]
		return a.finish(PanelAlignment{
			Text:         panel.Text,
			StartSeconds: segment.Start,
			EndSeconds:   segment.End,
			Confidence:   bestScore,
			MatchType:    MatchSegment,
		}, duration)
	}

	if aligned, ok := a.alignByWords(panel, tr, duration); ok {
		return aligned
	}

	return a.unmatched(panel, duration)
}

// alignByWords scans the scene's word list for the panel's first word and
// spans forward from the hit.
func (a *Aligner) alignByWords(panel script.VisualPanel, tr *transcribe.SceneTranscription, duration float64) (PanelAlignment, bool) {
	panelWords := strings.Fields(panel.Text)
	if len(panelWords) == 0 || len(tr.Words) == 0 {
		return PanelAlignment{}, false
	}
	target := textutil.NormalizeWord(panelWords[0])
	if target == "" {
		return PanelAlignment{}, false
	}

	for i, word := range tr.Words {
		candidate := textutil.NormalizeWord(word.Word)
		if candidate == "" {
			continue
		}
		if !strings.Contains(candidate, target) && !strings.Contains(target, candidate) {
			continue
		}
		last := i + len(panelWords) + wordSpanPadding
		if last >= len(tr.Words) {
			last = len(tr.Words) - 1
		}
		return a.finish(PanelAlignment{
			Text:         panel.Text,
			StartSeconds: word.Start,
			EndSeconds:   tr.Words[last].End,
			Confidence:   wordsConfidence,
			MatchType:    MatchWords,
		}, duration), true
	}
	return PanelAlignment{}, false
}

// unmatched preserves the authoring-time percent placement and flags the
// panel for manual review. This is a first-class output, not a failure.
func (a *Aligner) unmatched(panel script.VisualPanel, duration float64) PanelAlignment {
	startPct, endPct := 0.0, 100.0
	if panel.StartPercent != nil {
		startPct = *panel.StartPercent
	}
	if panel.EndPercent != nil {
		endPct = *panel.EndPercent
	}
	return a.finish(PanelAlignment{
		Text:         panel.Text,
		StartSeconds: duration * startPct / 100,
		EndSeconds:   duration * endPct / 100,
		Confidence:   0,
		MatchType:    MatchNone,
		Warning:      "no transcript match; timing falls back to authored placement, manual review required",
	}, duration)
}

// panelsFromSegments synthesizes one panel per transcription segment for
// scenes authored without panels.
func (a *Aligner) panelsFromSegments(tr *transcribe.SceneTranscription, duration float64) []PanelAlignment {
	panels := make([]PanelAlignment, 0, len(tr.Segments))
	for _, segment := range tr.Segments {
		panels = append(panels, a.finish(PanelAlignment{
			Text:         segment.Text,
			StartSeconds: segment.Start,
			EndSeconds:   segment.End,
			Confidence:   1.0,
			MatchType:    MatchAutoSegment,
		}, duration))
	}
	return panels
}

// finish enforces the output invariants: 0 <= start <= end <= duration,
// frames within [0, durationFrames], integer percents.
func (a *Aligner) finish(p PanelAlignment, duration float64) PanelAlignment {
	if p.StartSeconds < 0 {
		p.StartSeconds = 0
	}
	if duration > 0 && p.EndSeconds > duration {
		p.EndSeconds = duration
	}
	if p.EndSeconds < p.StartSeconds {
		p.EndSeconds = p.StartSeconds
	}

	durationFrames := timecode.DurationFrames(duration, a.fps)
	p.StartFrame = timecode.ClampFrame(timecode.Frame(p.StartSeconds, a.fps), durationFrames)
	p.EndFrame = timecode.ClampFrame(timecode.Frame(p.EndSeconds, a.fps), durationFrames)
	if p.EndFrame < p.StartFrame {
		p.EndFrame = p.StartFrame
	}

	if duration > 0 {
		p.StartPercent = int(math.Round(p.StartSeconds / duration * 100))
		p.EndPercent = int(math.Round(p.EndSeconds / duration * 100))
	}
	return p
}
