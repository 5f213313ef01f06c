package preflight

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"reeltime/internal/audiometa"
	"reeltime/internal/logging"
	"reeltime/internal/script"
	"reeltime/internal/services"
	"reeltime/internal/validation"
)

// Options control drift tolerances. Strict swaps the baseline tolerance for
// the tighter one.
type Options struct {
	TolerancePercent       float64
	StrictTolerancePercent float64
	Strict                 bool
}

func (o Options) tolerance() float64 {
	if o.Strict {
		return o.StrictTolerancePercent
	}
	return o.TolerancePercent
}

// Checker runs the render-readiness checks over a script and its measured
// audio metadata. Every check accumulates into one report; nothing aborts
// early.
type Checker struct {
	opts   Options
	logger *slog.Logger
}

func NewChecker(opts Options, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Checker{opts: opts, logger: logger}
}

// Run executes every check and returns the accumulated report.
func (c *Checker) Run(s *script.Script, meta *audiometa.Metadata, assetsDir string) *validation.Report {
	report := &validation.Report{}
	durations := map[string]float64{}
	if meta != nil {
		durations = meta.DurationsByScene()
	}

	c.checkAudioPresence(report, s, assetsDir)
	c.checkSceneDrift(report, s, durations)
	c.checkTotalDrift(report, s, durations)
	c.checkTransitionOverlap(report, s, durations)
	c.checkOrphanedAudio(report, s, assetsDir)

	c.logger.Info("preflight finished",
		"errors", len(report.Errors()), "warnings", len(report.Warnings()))
	return report
}

// Every scene needs its synthesized clip on disk before anything can render.
func (c *Checker) checkAudioPresence(report *validation.Report, s *script.Script, assetsDir string) {
	for _, scene := range s.Scenes {
		path := audiometa.ClipPath(assetsDir, scene.ID)
		if _, err := os.Stat(path); err != nil {
			report.Add(validation.Issue{
				Category: validation.CategoryMissingAudio,
				Severity: validation.SeverityError,
				SceneID:  scene.ID,
				Message:  fmt.Sprintf("audio clip not found at %s", path),
			})
		}
	}
}

func (c *Checker) checkSceneDrift(report *validation.Report, s *script.Script, durations map[string]float64) {
	tol := c.opts.tolerance()
	for _, scene := range s.Scenes {
		if scene.TargetDuration == nil {
			continue
		}
		declared := *scene.TargetDuration
		measured, ok := durations[scene.ID]
		if !ok || declared <= 0 {
			continue
		}
		drift := math.Abs(measured-declared) / declared * 100
		if drift > tol {
			report.Add(validation.Issue{
				Category: validation.CategoryDurationDrift,
				Severity: validation.SeverityWarning,
				SceneID:  scene.ID,
				Message: fmt.Sprintf("measured %.2fs drifts %.1f%% from declared %.2fs (tolerance %.1f%%)",
					measured, drift, declared, tol),
				Details: map[string]any{
					"declaredSeconds":  declared,
					"measuredSeconds":  measured,
					"driftPercent":     drift,
					"tolerancePercent": tol,
				},
			})
		}
	}
}

// Total drift compares the summed declared durations against the summed
// measurements for the same scenes, catching slow accumulation that no
// single scene trips on.
func (c *Checker) checkTotalDrift(report *validation.Report, s *script.Script, durations map[string]float64) {
	var declared, measured float64
	counted := 0
	for _, scene := range s.Scenes {
		if scene.TargetDuration == nil {
			continue
		}
		m, ok := durations[scene.ID]
		if !ok {
			continue
		}
		declared += *scene.TargetDuration
		measured += m
		counted++
	}
	if counted == 0 || declared <= 0 {
		return
	}
	tol := c.opts.tolerance()
	drift := math.Abs(measured-declared) / declared * 100
	if drift > tol {
		report.Add(validation.Issue{
			Category: validation.CategoryDurationDrift,
			Severity: validation.SeverityWarning,
			Message: fmt.Sprintf("composition measures %.2fs, %.1f%% off the declared %.2fs (tolerance %.1f%%)",
				measured, drift, declared, tol),
			Details: map[string]any{
				"declaredSeconds":  declared,
				"measuredSeconds":  measured,
				"driftPercent":     drift,
				"tolerancePercent": tol,
				"scenes":           counted,
			},
		})
	}
}

// Adjacent transitions eat into both neighbouring scenes. When the combined
// outgoing+incoming time exceeds half of the shorter neighbour the overlap
// will be visible on screen.
func (c *Checker) checkTransitionOverlap(report *validation.Report, s *script.Script, durations map[string]float64) {
	for i := 1; i < len(s.Scenes); i++ {
		prev, next := s.Scenes[i-1], s.Scenes[i]
		overlap := prev.TransitionOut + next.TransitionIn
		if overlap <= 0 {
			continue
		}
		prevDur, okPrev := durations[prev.ID]
		nextDur, okNext := durations[next.ID]
		if !okPrev || !okNext {
			continue
		}
		shorter := math.Min(prevDur, nextDur)
		if shorter <= 0 {
			continue
		}
		if overlap > shorter/2 {
			report.Add(validation.Issue{
				Category: validation.CategoryTransition,
				Severity: validation.SeverityWarning,
				SceneID:  next.ID,
				Message: fmt.Sprintf("transitions between %q and %q overlap %.2fs, more than half of the shorter scene (%.2fs)",
					prev.ID, next.ID, overlap, shorter),
				Details: map[string]any{
					"outgoingSeconds": prev.TransitionOut,
					"incomingSeconds": next.TransitionIn,
					"shorterSeconds":  shorter,
				},
			})
		}
	}
}

// Orphaned clips usually mean a scene was renamed or cut from the script
// without cleaning up the assets directory.
func (c *Checker) checkOrphanedAudio(report *validation.Report, s *script.Script, assetsDir string) {
	entries, err := os.ReadDir(assetsDir)
	if err != nil {
		return
	}
	known := make(map[string]struct{}, len(s.Scenes))
	for _, scene := range s.Scenes {
		known[scene.ID] = struct{}{}
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".mp3") {
			continue
		}
		sceneID := strings.TrimSuffix(name, ".mp3")
		if _, ok := known[sceneID]; ok {
			continue
		}
		report.Add(validation.Issue{
			Category: validation.CategoryOrphanedAudio,
			Severity: validation.SeverityWarning,
			Message:  fmt.Sprintf("audio clip %s matches no scene in the script", filepath.Join(assetsDir, name)),
		})
	}
}

// CheckDirWritable verifies the process can write into dir before any stage
// starts producing artifacts.
func CheckDirWritable(dir string) error {
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "access",
			fmt.Sprintf("directory %s is not writable", dir), err)
	}
	return nil
}
