package rendertiming

import (
	"testing"

	"reeltime/internal/validation"
)

func TestBuildFrameTable(t *testing.T) {
	order := []string{"hook", "body", "outro"}
	durations := map[string]float64{
		"hook":  2.88,
		"body":  5.0,
		"outro": 1.5,
	}

	table, err := Build(order, durations, 60, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(table.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(table.Entries))
	}

	hook := table.Entries[0]
	if hook.AudioFrames != 173 {
		t.Errorf("hook audio frames = %d, want 173", hook.AudioFrames)
	}
	if hook.TotalFrames != 178 {
		t.Errorf("hook total frames = %d, want 178", hook.TotalFrames)
	}
	if hook.StartFrame != 0 {
		t.Errorf("hook start frame = %d, want 0", hook.StartFrame)
	}

	body := table.Entries[1]
	if body.TotalFrames != 305 {
		t.Errorf("body total frames = %d, want 305", body.TotalFrames)
	}
	if body.StartFrame != 178 {
		t.Errorf("body start frame = %d, want 178", body.StartFrame)
	}

	outro := table.Entries[2]
	if outro.StartFrame != 178+305 {
		t.Errorf("outro start frame = %d, want %d", outro.StartFrame, 178+305)
	}
	if got := table.TotalFrames(); got != 178+305+95 {
		t.Errorf("total frames = %d, want %d", got, 178+305+95)
	}
}

func TestBuildSkipsMissingDurations(t *testing.T) {
	order := []string{"hook", "missing", "outro"}
	durations := map[string]float64{
		"hook":  2.0,
		"outro": 3.0,
	}

	table, err := Build(order, durations, 30, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(table.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(table.Entries))
	}
	if len(table.Skipped) != 1 {
		t.Fatalf("expected 1 skipped scene, got %d", len(table.Skipped))
	}
	skipped := table.Skipped[0]
	if skipped.SceneID != "missing" {
		t.Errorf("skipped scene = %q, want %q", skipped.SceneID, "missing")
	}
	if skipped.Severity != validation.SeverityWarning {
		t.Errorf("skipped severity = %q, want warning", skipped.Severity)
	}

	// The prefix sum continues over the remaining scenes with no gap.
	if table.Entries[1].StartFrame != table.Entries[0].TotalFrames {
		t.Errorf("outro start = %d, want %d", table.Entries[1].StartFrame, table.Entries[0].TotalFrames)
	}
}

func TestBuildRejectsBadArguments(t *testing.T) {
	if _, err := Build(nil, nil, 0, 5); err == nil {
		t.Error("expected error for zero fps")
	}
	if _, err := Build(nil, nil, 60, -1); err == nil {
		t.Error("expected error for negative buffer")
	}
}

func TestTotalSeconds(t *testing.T) {
	table, err := Build([]string{"a"}, map[string]float64{"a": 2.88}, 60, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := 178.0 / 60.0
	if got := table.TotalSeconds(); got != want {
		t.Errorf("total seconds = %v, want %v", got, want)
	}
}
