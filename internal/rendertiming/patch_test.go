package rendertiming

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reeltime/internal/services"
)

const frameShapeSource = `import { Composition } from "remotion";

export const FPS = 60;

export const SCENE_FRAMES = {
  hook: 1,
  body: 1,
} as const;

export const SCENE_START_FRAMES = {
  hook: 0,
  body: 1,
} as const;

export const TOTAL_FRAMES = 2;

export type SceneId = keyof typeof SCENE_FRAMES;
`

const secondsShapeSource = `export const SCENE_TIMINGS = {
  hook: { startSeconds: 0, durationSeconds: 1 },
  body: { startSeconds: 1, durationSeconds: 1 },
} as const;

export const TOTAL_DURATION_SECONDS = 2;
`

func writeTimingFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timing.ts")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func testTable(t *testing.T) *Table {
	t.Helper()
	table, err := Build([]string{"hook", "body"}, map[string]float64{
		"hook": 2.88,
		"body": 5.0,
	}, 60, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return table
}

func TestApplyFrameShape(t *testing.T) {
	path := writeTimingFile(t, frameShapeSource)
	patcher := NewPatcher(path, nil)
	patcher.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	changed, err := patcher.Apply(testTable(t))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("expected timing change on first apply")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading patched file: %v", err)
	}
	got := string(raw)

	for _, want := range []string{
		"export const SCENE_FRAMES = {\n  hook: 178,\n  body: 305,\n} as const;",
		"export const SCENE_START_FRAMES = {\n  hook: 0,\n  body: 178,\n} as const;",
		"export const TOTAL_FRAMES = 483;",
		"// Scene timing last updated: 2026-03-01T12:00:00Z",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("patched file missing %q\n%s", want, got)
		}
	}

	// Surrounding code is untouched.
	for _, keep := range []string{
		`import { Composition } from "remotion";`,
		"export const FPS = 60;",
		"export type SceneId = keyof typeof SCENE_FRAMES;",
	} {
		if !strings.Contains(got, keep) {
			t.Errorf("patched file lost %q", keep)
		}
	}
}

func TestApplySecondsShape(t *testing.T) {
	path := writeTimingFile(t, secondsShapeSource)
	patcher := NewPatcher(path, nil)

	if _, err := patcher.Apply(testTable(t)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading patched file: %v", err)
	}
	got := string(raw)

	// 178 frames at 60 fps, rounded to four decimal places.
	for _, want := range []string{
		"hook: { startSeconds: 0, durationSeconds: 2.9667 },",
		"body: { startSeconds: 2.9667, durationSeconds: 5.0833 },",
		"export const TOTAL_DURATION_SECONDS = 8.05;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("patched file missing %q\n%s", want, got)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	path := writeTimingFile(t, frameShapeSource)
	table := testTable(t)

	first := NewPatcher(path, nil)
	first.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	if _, err := first.Apply(table); err != nil {
		t.Fatalf("first Apply: %v", err)
	}
	afterFirst, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	second := NewPatcher(path, nil)
	second.now = func() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }
	changed, err := second.Apply(table)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if changed {
		t.Error("second apply with unchanged inputs reported a change")
	}
	afterSecond, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}

	stripped := func(s []byte) string {
		return markerRe.ReplaceAllString(string(s), "")
	}
	if stripped(afterFirst) != stripped(afterSecond) {
		t.Error("repeated apply changed bytes outside the marker line")
	}
	if !strings.Contains(string(afterSecond), "2026-03-02T09:30:00Z") {
		t.Error("second apply did not refresh the marker")
	}
	if strings.Count(string(afterSecond), "// Scene timing last updated:") != 1 {
		t.Error("expected exactly one marker line")
	}
}

func TestApplyQuotesNonIdentifierSceneIDs(t *testing.T) {
	path := writeTimingFile(t, frameShapeSource)
	table, err := Build([]string{"scene-1"}, map[string]float64{"scene-1": 1.0}, 60, 5)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if _, err := NewPatcher(path, nil).Apply(table); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `"scene-1": 65,`) {
		t.Errorf("hyphenated scene id not quoted:\n%s", raw)
	}
}

func TestApplyFailsWithoutTimingTable(t *testing.T) {
	path := writeTimingFile(t, "export const FPS = 60;\n")
	_, err := NewPatcher(path, nil).Apply(testTable(t))
	if !errors.Is(err, services.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
