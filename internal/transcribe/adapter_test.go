package transcribe

import (
	"context"
	"errors"
	"testing"

	"reeltime/internal/audiometa"
	"reeltime/internal/script"
)

type stubTranscriber struct {
	results map[string][]RawSegment
	errs    map[string]error
	calls   []string
}

func (s *stubTranscriber) TranscribeFile(_ context.Context, source, _, _ string) ([]RawSegment, error) {
	s.calls = append(s.calls, source)
	if err, ok := s.errs[source]; ok {
		return nil, err
	}
	return s.results[source], nil
}

func clipsFor(ids ...string) map[string]audiometa.ClipMetadata {
	clips := make(map[string]audiometa.ClipMetadata, len(ids))
	for _, id := range ids {
		clips[id] = audiometa.ClipMetadata{SceneID: id, File: id + ".mp3", DurationSeconds: 3.0}
	}
	return clips
}

func TestRunDerivesFrames(t *testing.T) {
	stub := &stubTranscriber{results: map[string][]RawSegment{
		"hook.mp3": {{
			Text:  " 1920년대 비엔나에서 ",
			Start: 0.12,
			End:   2.88,
			Words: []RawWord{
				{Word: "1920년대", Start: 0.12, End: 1.0},
				{Word: "비엔나에서", Start: 1.1, End: 2.88},
			},
		}},
	}}

	adapter := NewAdapter(stub, 60, "ko", nil)
	results := adapter.Run(context.Background(), []script.Scene{{ID: "hook", Text: "x"}}, clipsFor("hook"), t.TempDir())
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	scene := results[0]
	if scene.Err != "" {
		t.Fatalf("unexpected error: %s", scene.Err)
	}
	if scene.Text != "1920년대 비엔나에서" {
		t.Fatalf("text not trimmed/joined: %q", scene.Text)
	}
	if scene.Segments[0].StartFrame != 7 || scene.Segments[0].EndFrame != 173 {
		t.Fatalf("segment frames wrong: %+v", scene.Segments[0])
	}
	if scene.Words[1].EndFrame != 173 {
		t.Fatalf("word frames wrong: %+v", scene.Words[1])
	}
	if scene.DurationFrames != 180 {
		t.Fatalf("duration frames = %d, want ceil(3.0*60)=180", scene.DurationFrames)
	}
}

func TestRunContinuesPastProviderFailure(t *testing.T) {
	stub := &stubTranscriber{
		results: map[string][]RawSegment{
			"good.mp3": {{Text: "fine", Start: 0, End: 1}},
		},
		errs: map[string]error{"bad.mp3": errors.New("provider down")},
	}

	scenes := []script.Scene{{ID: "bad", Text: "x"}, {ID: "good", Text: "y"}}
	results := NewAdapter(stub, 60, "en", nil).Run(context.Background(), scenes, clipsFor("bad", "good"), t.TempDir())
	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Err == "" {
		t.Fatal("provider failure should be recorded inline")
	}
	if results[1].Err != "" || len(results[1].Segments) != 1 {
		t.Fatalf("good scene should still transcribe: %+v", results[1])
	}
	if len(stub.calls) != 2 {
		t.Fatalf("both scenes should be attempted, got calls %v", stub.calls)
	}
}

func TestRunSkipsScenesWithoutUsableClip(t *testing.T) {
	stub := &stubTranscriber{}
	clips := map[string]audiometa.ClipMetadata{
		"broken": {SceneID: "broken", File: "broken.mp3", Err: "probe failed"},
	}
	scenes := []script.Scene{{ID: "broken", Text: "x"}, {ID: "absent", Text: "y"}}
	results := NewAdapter(stub, 60, "en", nil).Run(context.Background(), scenes, clips, t.TempDir())
	for _, result := range results {
		if result.Err == "" {
			t.Fatalf("scene %s without a usable clip must carry an error", result.SceneID)
		}
	}
	if len(stub.calls) != 0 {
		t.Fatalf("provider must not be called for unusable clips, got %v", stub.calls)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Save("main", 60, []SceneTranscription{{SceneID: "hook", Text: "hi"}}); err != nil {
		t.Fatal(err)
	}
	out, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if out.CompositionID != "main" || out.FPS != 60 || len(out.Scenes) != 1 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	if out.ByScene()["hook"] == nil {
		t.Fatal("ByScene index missing hook")
	}
}
