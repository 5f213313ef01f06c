package align

import (
	"context"
	"testing"

	"reeltime/internal/script"
	"reeltime/internal/transcribe"
)

func hookTranscription() *transcribe.SceneTranscription {
	return &transcribe.SceneTranscription{
		SceneID:         "hook",
		DurationSeconds: 10,
		DurationFrames:  600,
		Segments: []transcribe.Segment{
			{Text: "1920년대 비엔나에서", Start: 0.5, End: 3.0, StartFrame: 30, EndFrame: 180},
			{Text: "한 남자가 걸었다", Start: 3.2, End: 6.0, StartFrame: 192, EndFrame: 360},
		},
		Words: []transcribe.Word{
			{Word: "1920년대", Start: 0.5, End: 1.4},
			{Word: "비엔나에서", Start: 1.5, End: 3.0},
			{Word: "한", Start: 3.2, End: 3.5},
			{Word: "남자가", Start: 3.6, End: 4.4},
			{Word: "걸었다", Start: 4.5, End: 6.0},
		},
	}
}

func runOne(t *testing.T, scene script.Scene, tr *transcribe.SceneTranscription) ScenePanels {
	t.Helper()
	results := New(60, nil).Run(context.Background(),
		[]script.Scene{scene},
		map[string]*transcribe.SceneTranscription{scene.ID: tr})
	if len(results) != 1 {
		t.Fatalf("got %d scene results", len(results))
	}
	return results[0]
}

func TestSegmentMatchByContainment(t *testing.T) {
	scene := script.Scene{ID: "hook", Text: "x", Panels: []script.VisualPanel{{Text: "1920년대 비엔나"}}}
	got := runOne(t, scene, hookTranscription())

	panel := got.Panels[0]
	if panel.MatchType != MatchSegment {
		t.Fatalf("matchType = %s, want segment", panel.MatchType)
	}
	if panel.Confidence < 0.9 {
		t.Fatalf("containment should score >= 0.9, got %v", panel.Confidence)
	}
	if panel.StartSeconds != 0.5 || panel.EndSeconds != 3.0 {
		t.Fatalf("panel should take segment timing: %+v", panel)
	}
	if panel.StartPercent != 5 || panel.EndPercent != 30 {
		t.Fatalf("percents wrong: %d..%d", panel.StartPercent, panel.EndPercent)
	}
}

func TestWordFallback(t *testing.T) {
	// Panel text that shares no segment prefix but whose first word appears
	// in the word list.
	scene := script.Scene{ID: "hook", Text: "x", Panels: []script.VisualPanel{{Text: "남자가 등장한다 극적으로"}}}
	got := runOne(t, scene, hookTranscription())

	panel := got.Panels[0]
	if panel.MatchType != MatchWords {
		t.Fatalf("matchType = %s, want words", panel.MatchType)
	}
	if panel.Confidence != 0.7 {
		t.Fatalf("word fallback confidence is fixed at 0.7, got %v", panel.Confidence)
	}
	// Match starts at "남자가" (3.6) and the span is capped by the word list
	// end.
	if panel.StartSeconds != 3.6 || panel.EndSeconds != 6.0 {
		t.Fatalf("span wrong: %+v", panel)
	}
}

func TestNoMatchPreservesAuthoredPlacement(t *testing.T) {
	start, end := 20.0, 60.0
	scene := script.Scene{ID: "hook", Text: "x", Panels: []script.VisualPanel{
		{Text: "zzz unrelated zzz", StartPercent: &start, EndPercent: &end},
	}}
	got := runOne(t, scene, hookTranscription())

	panel := got.Panels[0]
	if panel.MatchType != MatchNone || panel.Confidence != 0 {
		t.Fatalf("expected none/0, got %s/%v", panel.MatchType, panel.Confidence)
	}
	if panel.Warning == "" {
		t.Fatal("unmatched panel must carry a manual-review warning")
	}
	if panel.StartSeconds != 2.0 || panel.EndSeconds != 6.0 {
		t.Fatalf("authored percent placement not preserved: %+v", panel)
	}
	if panel.StartPercent != 20 || panel.EndPercent != 60 {
		t.Fatalf("percents should round-trip: %d..%d", panel.StartPercent, panel.EndPercent)
	}
}

func TestAutoSegmentForScenesWithoutPanels(t *testing.T) {
	scene := script.Scene{ID: "hook", Text: "x"}
	got := runOne(t, scene, hookTranscription())

	if len(got.Panels) != 2 {
		t.Fatalf("one panel per segment expected, got %d", len(got.Panels))
	}
	for i, panel := range got.Panels {
		if panel.MatchType != MatchAutoSegment || panel.Confidence != 1.0 {
			t.Fatalf("panel %d: %s/%v, want auto-segment/1.0", i, panel.MatchType, panel.Confidence)
		}
	}
	if got.Panels[0].Text != "1920년대 비엔나에서" {
		t.Fatalf("auto panels carry segment text verbatim, got %q", got.Panels[0].Text)
	}
}

func TestMissingTranscriptionFallsBackToAuthoredPlacement(t *testing.T) {
	scene := script.Scene{ID: "hook", Text: "x", Panels: []script.VisualPanel{{Text: "whatever"}}}
	got := runOne(t, scene, nil)
	if got.Panels[0].MatchType != MatchNone || got.Panels[0].Warning == "" {
		t.Fatalf("missing transcription should yield flagged none-match: %+v", got.Panels[0])
	}
}

func TestInvariantsHold(t *testing.T) {
	tr := hookTranscription()
	// Corrupt a segment so its end overshoots the scene duration.
	tr.Segments[1].End = 12.5

	scene := script.Scene{ID: "hook", Text: "x", Panels: []script.VisualPanel{{Text: "한 남자가"}}}
	got := runOne(t, scene, tr)

	for _, panel := range got.Panels {
		if panel.EndSeconds < panel.StartSeconds {
			t.Fatalf("end before start: %+v", panel)
		}
		if panel.EndSeconds > tr.DurationSeconds {
			t.Fatalf("end beyond scene duration: %+v", panel)
		}
		if panel.StartFrame < 0 || panel.EndFrame > tr.DurationFrames {
			t.Fatalf("frames out of range: %+v", panel)
		}
	}
}

func TestScorerIsSwappable(t *testing.T) {
	calls := 0
	constant := func(a, b string) float64 {
		calls++
		return 0.6
	}
	scene := script.Scene{ID: "hook", Text: "x", Panels: []script.VisualPanel{{Text: "anything"}}}
	results := New(60, nil, WithScorer(constant)).Run(context.Background(),
		[]script.Scene{scene},
		map[string]*transcribe.SceneTranscription{"hook": hookTranscription()})
	if calls == 0 {
		t.Fatal("custom scorer was never consulted")
	}
	if results[0].Panels[0].MatchType != MatchSegment {
		t.Fatalf("0.6 clears the 0.5 threshold, got %s", results[0].Panels[0].MatchType)
	}
}
