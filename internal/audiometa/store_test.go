package audiometa

import (
	"encoding/json"
	"testing"
)

func TestSaveMergePreservesUntouchedScenes(t *testing.T) {
	store := NewStore(t.TempDir())

	full := []ClipMetadata{
		{SceneID: "hook", File: "hook.mp3", DurationSeconds: 2.88, DurationFrames: 173},
		{SceneID: "body", File: "body.mp3", DurationSeconds: 10.5, DurationFrames: 630},
	}
	order := []string{"hook", "body"}
	if _, err := store.Save(full, order, "azure", "ko"); err != nil {
		t.Fatal(err)
	}

	before, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	bodyBefore, _ := json.Marshal(before.Scenes[1])

	// Regenerate only "hook" with a new duration.
	update := []ClipMetadata{
		{SceneID: "hook", File: "hook.mp3", DurationSeconds: 3.0, DurationFrames: 180},
	}
	if _, err := store.Save(update, order, "azure", "ko"); err != nil {
		t.Fatal(err)
	}

	after, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(after.Scenes) != 2 {
		t.Fatalf("merge lost scenes: %+v", after.Scenes)
	}
	if after.Scenes[0].DurationSeconds != 3.0 {
		t.Fatalf("hook not updated: %+v", after.Scenes[0])
	}
	bodyAfter, _ := json.Marshal(after.Scenes[1])
	if string(bodyBefore) != string(bodyAfter) {
		t.Fatalf("untouched scene changed:\nbefore %s\nafter  %s", bodyBefore, bodyAfter)
	}
}

func TestSaveKeepsStoredScenesMissingFromOrder(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Save([]ClipMetadata{{SceneID: "legacy", DurationSeconds: 4}}, []string{"legacy"}, "azure", "ko"); err != nil {
		t.Fatal(err)
	}
	meta, err := store.Save([]ClipMetadata{{SceneID: "hook", DurationSeconds: 2.88}}, []string{"hook"}, "azure", "ko")
	if err != nil {
		t.Fatal(err)
	}
	if len(meta.Scenes) != 2 {
		t.Fatalf("legacy scene should survive at the tail: %+v", meta.Scenes)
	}
	if meta.Scenes[0].SceneID != "hook" || meta.Scenes[1].SceneID != "legacy" {
		t.Fatalf("order wrong: %+v", meta.Scenes)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	store := NewStore(t.TempDir())
	meta, err := store.Load()
	if err != nil || meta != nil {
		t.Fatalf("missing artifact should be (nil, nil), got %v, %v", meta, err)
	}
}

func TestDurationsBySceneSkipsFailures(t *testing.T) {
	meta := Metadata{Scenes: []ClipMetadata{
		{SceneID: "ok", DurationSeconds: 2},
		{SceneID: "bad", Err: "probe failed"},
	}}
	durations := meta.DurationsByScene()
	if len(durations) != 1 || durations["ok"] != 2 {
		t.Fatalf("unexpected durations: %v", durations)
	}
}
