package audiometa

import (
	"strings"
	"testing"

	"reeltime/internal/script"
	"reeltime/internal/validation"
)

func sceneList(ids ...string) []script.Scene {
	scenes := make([]script.Scene, 0, len(ids))
	for _, id := range ids {
		scenes = append(scenes, script.Scene{ID: id, Text: "placeholder narration text"})
	}
	return scenes
}

func defaultThresholds() Thresholds {
	return Thresholds{
		MinSceneSeconds:   5,
		MaxSceneSeconds:   45,
		MinCharsPerSecond: 2,
		MaxCharsPerSecond: 8,
	}
}

func TestReviewFlagsCriticallyShortClip(t *testing.T) {
	entries := []ClipMetadata{
		{SceneID: "hook", DurationSeconds: 0.3, Text: "x"},
	}
	issues := Review(entries, sceneList("hook"), defaultThresholds())
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0].Severity != validation.SeverityError {
		t.Fatalf("sub-0.5s clip should be critical, got %s", issues[0].Severity)
	}
}

func TestReviewFlagsSpeechRate(t *testing.T) {
	// 100 chars over 5s = 20 cps, far above the ceiling.
	entries := []ClipMetadata{
		{SceneID: "fast", DurationSeconds: 5, Text: strings.Repeat("a", 100)},
	}
	issues := Review(entries, sceneList("fast"), defaultThresholds())
	found := false
	for _, issue := range issues {
		if issue.Category == validation.CategoryAudioQuality && issue.Severity == validation.SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected speech-rate warning, got %v", issues)
	}
}

func TestReviewPacingSkipsBumpers(t *testing.T) {
	scenes := []script.Scene{
		{ID: "intro", Text: "short intro", Bumper: true},
		{ID: "body", Text: "short body"},
	}
	entries := []ClipMetadata{
		{SceneID: "intro", DurationSeconds: 2, Text: "shor"},
		{SceneID: "body", DurationSeconds: 2, Text: "shor"},
	}
	issues := Review(entries, scenes, defaultThresholds())
	for _, issue := range issues {
		if issue.Category == validation.CategoryPacing && issue.SceneID == "intro" {
			t.Fatal("bumper scenes are exempt from pacing checks")
		}
	}
	foundBody := false
	for _, issue := range issues {
		if issue.Category == validation.CategoryPacing && issue.SceneID == "body" {
			foundBody = true
		}
	}
	if !foundBody {
		t.Fatal("non-bumper short scene should get a pacing warning")
	}
}

func TestReviewSkipsFailedProbes(t *testing.T) {
	entries := []ClipMetadata{
		{SceneID: "broken", Err: "probe failed"},
	}
	if issues := Review(entries, sceneList("broken"), defaultThresholds()); len(issues) != 0 {
		t.Fatalf("failed probes are reported elsewhere, got %v", issues)
	}
}
