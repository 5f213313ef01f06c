package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"reeltime/internal/audiometa"
	"reeltime/internal/script"
	"reeltime/internal/services"
	"reeltime/internal/validation"
)

func target(v float64) *float64 { return &v }

func defaultOptions() Options {
	return Options{TolerancePercent: 5, StrictTolerancePercent: 3}
}

func metadataFor(durations map[string]float64) *audiometa.Metadata {
	meta := &audiometa.Metadata{}
	for id, d := range durations {
		meta.Scenes = append(meta.Scenes, audiometa.ClipMetadata{
			SceneID:         id,
			DurationSeconds: d,
		})
	}
	return meta
}

func writeClips(t *testing.T, dir string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		path := filepath.Join(dir, id+".mp3")
		if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
			t.Fatalf("writing clip: %v", err)
		}
	}
}

func issuesIn(report *validation.Report, category string) []validation.Issue {
	var out []validation.Issue
	for _, issue := range report.Issues {
		if issue.Category == category {
			out = append(out, issue)
		}
	}
	return out
}

func TestMissingClipIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "hook")
	s := &script.Script{Scenes: []script.Scene{
		{ID: "hook", Text: "a"},
		{ID: "body", Text: "b"},
	}}

	report := NewChecker(defaultOptions(), nil).Run(s, nil, dir)

	missing := issuesIn(report, validation.CategoryMissingAudio)
	if len(missing) != 1 || missing[0].SceneID != "body" {
		t.Fatalf("expected one missing-audio error for body, got %+v", missing)
	}
	if missing[0].Severity != validation.SeverityError {
		t.Errorf("missing clip severity = %q, want error", missing[0].Severity)
	}
	if report.Pass(false) {
		t.Error("report with a missing clip must not pass")
	}
}

func TestSceneDriftTolerance(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "hook", "body")
	s := &script.Script{Scenes: []script.Scene{
		{ID: "hook", Text: "a", TargetDuration: target(10)},
		{ID: "body", Text: "b", TargetDuration: target(10)},
	}}
	// hook drifts 6%, body drifts 3%; only hook exceeds the 5% tolerance.
	meta := metadataFor(map[string]float64{"hook": 10.6, "body": 10.3})

	report := NewChecker(defaultOptions(), nil).Run(s, meta, dir)

	drift := issuesIn(report, validation.CategoryDurationDrift)
	var sceneIssues []validation.Issue
	for _, issue := range drift {
		if issue.SceneID != "" {
			sceneIssues = append(sceneIssues, issue)
		}
	}
	if len(sceneIssues) != 1 || sceneIssues[0].SceneID != "hook" {
		t.Fatalf("expected a drift warning for hook only, got %+v", sceneIssues)
	}
	if sceneIssues[0].Severity != validation.SeverityWarning {
		t.Errorf("drift severity = %q, want warning", sceneIssues[0].Severity)
	}
	if !report.Pass(false) {
		t.Error("warnings alone must not fail a non-strict report")
	}
	if report.Pass(true) {
		t.Error("strict mode must fail on warnings")
	}
}

func TestStrictToleranceTightens(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "hook")
	s := &script.Script{Scenes: []script.Scene{
		{ID: "hook", Text: "a", TargetDuration: target(10)},
	}}
	meta := metadataFor(map[string]float64{"hook": 10.4})

	opts := defaultOptions()
	loose := NewChecker(opts, nil).Run(s, meta, dir)
	if len(issuesIn(loose, validation.CategoryDurationDrift)) != 0 {
		t.Error("4% drift should pass the 5% tolerance")
	}

	opts.Strict = true
	strict := NewChecker(opts, nil).Run(s, meta, dir)
	if len(issuesIn(strict, validation.CategoryDurationDrift)) == 0 {
		t.Error("4% drift should trip the 3% strict tolerance")
	}
}

func TestTotalDriftAccumulates(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "a", "b", "c")
	s := &script.Script{Scenes: []script.Scene{
		{ID: "a", Text: "x", TargetDuration: target(10)},
		{ID: "b", Text: "x", TargetDuration: target(10)},
		{ID: "c", Text: "x", TargetDuration: target(10)},
	}}
	// 31.58s against the declared 30s is 5.3% for the composition.
	meta := metadataFor(map[string]float64{"a": 10.49, "b": 10.49, "c": 10.6})

	report := NewChecker(defaultOptions(), nil).Run(s, meta, dir)

	var total []validation.Issue
	for _, issue := range issuesIn(report, validation.CategoryDurationDrift) {
		if issue.SceneID == "" {
			total = append(total, issue)
		}
	}
	if len(total) != 1 {
		t.Fatalf("expected one composition-level drift warning, got %+v", total)
	}
}

func TestTransitionOverlapWarning(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "a", "b")
	s := &script.Script{Scenes: []script.Scene{
		{ID: "a", Text: "x", TransitionOut: 1.5},
		{ID: "b", Text: "x", TransitionIn: 1.0},
	}}
	// Combined 2.5s against a shorter neighbour of 4s exceeds half.
	meta := metadataFor(map[string]float64{"a": 8, "b": 4})

	report := NewChecker(defaultOptions(), nil).Run(s, meta, dir)
	overlap := issuesIn(report, validation.CategoryTransition)
	if len(overlap) != 1 || overlap[0].SceneID != "b" {
		t.Fatalf("expected one transition warning on b, got %+v", overlap)
	}

	// 2.5s against a shorter neighbour of 6s is exactly under half plus
	// some margin; no warning.
	meta = metadataFor(map[string]float64{"a": 8, "b": 6})
	report = NewChecker(defaultOptions(), nil).Run(s, meta, dir)
	if len(issuesIn(report, validation.CategoryTransition)) != 0 {
		t.Error("overlap under half the shorter scene must not warn")
	}
}

func TestOrphanedAudioWarning(t *testing.T) {
	dir := t.TempDir()
	writeClips(t, dir, "hook", "stale")
	s := &script.Script{Scenes: []script.Scene{{ID: "hook", Text: "a"}}}

	report := NewChecker(defaultOptions(), nil).Run(s, nil, dir)

	orphans := issuesIn(report, validation.CategoryOrphanedAudio)
	if len(orphans) != 1 {
		t.Fatalf("expected one orphaned-audio warning, got %+v", orphans)
	}
	if orphans[0].Severity != validation.SeverityWarning {
		t.Errorf("orphan severity = %q, want warning", orphans[0].Severity)
	}
}

func TestCheckDirWritable(t *testing.T) {
	if err := CheckDirWritable(t.TempDir()); err != nil {
		t.Errorf("temp dir should be writable: %v", err)
	}
	err := CheckDirWritable(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}
