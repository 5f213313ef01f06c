package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"reeltime/internal/align"
	"reeltime/internal/audiometa"
	"reeltime/internal/captions"
	"reeltime/internal/config"
	"reeltime/internal/logging"
	"reeltime/internal/preflight"
	"reeltime/internal/rendertiming"
	"reeltime/internal/runs"
	"reeltime/internal/script"
	"reeltime/internal/services"
	"reeltime/internal/transcribe"
	"reeltime/internal/tts"
	"reeltime/internal/validation"
)

// Pipeline wires the stages together. Each stage method is independently
// invokable from the CLI and reads its inputs from the artifact store, so a
// failed run resumes at the stage that broke.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	journal *runs.Store
}

// New constructs a pipeline. The journal may be nil; runs are then not
// recorded.
func New(cfg *config.Config, logger *slog.Logger, journal *runs.Store) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger, journal: journal}
}

// Options select a scene subset and the strictness of the final verdict.
type Options struct {
	SceneFilter []string
	Strict      bool
}

// Result is the outcome of a full pipeline run.
type Result struct {
	RunID  string
	Report *validation.Report
	Passed bool
}

func (p *Pipeline) loadScript() (*script.Script, error) {
	return script.Load(p.cfg.Project.ScriptPath)
}

func clipsByID(meta *audiometa.Metadata) map[string]audiometa.ClipMetadata {
	out := make(map[string]audiometa.ClipMetadata)
	if meta == nil {
		return out
	}
	for _, entry := range meta.Scenes {
		out[entry.SceneID] = entry
	}
	return out
}

// requireMetadata loads the audio metadata artifact, failing when a stage
// needs it before probe has ever run.
func (p *Pipeline) requireMetadata(stage string) (*audiometa.Metadata, error) {
	meta, err := audiometa.NewStore(p.cfg.Project.ArtifactsDir).Load()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, services.Wrap(services.ErrValidation, stage, "load",
			"audio metadata artifact missing; run probe first", nil)
	}
	return meta, nil
}

// Synthesize generates audio clips for the selected scenes. Existing clips
// are kept unless overwrite is set; synthesis costs provider credits, so it
// never runs implicitly as part of a full pass.
func (p *Pipeline) Synthesize(ctx context.Context, filter []string, overwrite bool) ([]validation.Issue, error) {
	s, err := p.loadScript()
	if err != nil {
		return nil, err
	}
	provider, err := tts.New(p.cfg.Synthesis.Provider, tts.ProviderOptions{
		APIKey:   p.cfg.TTSAPIKey,
		Endpoint: p.cfg.Synthesis.Endpoint,
	})
	if err != nil {
		return nil, err
	}
	poller := tts.Poller{
		Interval: time.Duration(p.cfg.Synthesis.PollIntervalSeconds) * time.Second,
		Timeout:  time.Duration(p.cfg.Synthesis.PollTimeoutSeconds) * time.Second,
	}

	var issues []validation.Issue
	for _, scene := range s.Filter(filter) {
		sceneCtx := services.WithSceneID(ctx, scene.ID)
		log := logging.WithContext(sceneCtx, p.logger)

		outPath := audiometa.ClipPath(p.cfg.Project.AssetsDir, scene.ID)
		if !overwrite {
			if _, statErr := os.Stat(outPath); statErr == nil {
				log.Debug("clip exists, skipping synthesis")
				continue
			}
		}

		job, err := provider.Synthesize(sceneCtx, tts.Request{
			SceneID:    scene.ID,
			Text:       scene.Text,
			Voice:      p.cfg.Synthesis.Voice,
			Language:   p.cfg.Synthesis.Language,
			OutputPath: outPath,
		})
		if err == nil && !job.Terminal() {
			job, err = poller.PollJob(sceneCtx, provider, job.ID)
		}
		switch {
		case err != nil && services.IsFatal(err):
			return issues, err
		case err != nil:
			log.Warn("synthesis failed", "error", err)
			issues = append(issues, providerIssue(scene.ID, err.Error()))
		case job.Status == tts.StatusFailed:
			log.Warn("synthesis job failed", "detail", job.Error)
			issues = append(issues, providerIssue(scene.ID, job.Error))
		default:
			log.Info("scene synthesized", "output", outPath)
		}
	}
	return issues, nil
}

func providerIssue(sceneID, message string) validation.Issue {
	return validation.Issue{
		Category: validation.CategoryProvider,
		Severity: validation.SeverityWarning,
		SceneID:  sceneID,
		Message:  message,
	}
}

// Probe measures every selected clip with ffprobe, persists the merged
// metadata artifact, and reviews the measurements for quality anomalies.
func (p *Pipeline) Probe(ctx context.Context, filter []string) (*audiometa.Metadata, []validation.Issue, error) {
	s, err := p.loadScript()
	if err != nil {
		return nil, nil, err
	}
	scenes := s.Filter(filter)

	extractor := audiometa.NewExtractor(
		audiometa.FFprobeProber(p.cfg.FFprobeBinary()), p.cfg.Project.FPS, p.logger)
	entries := extractor.Extract(ctx, scenes, p.cfg.Project.AssetsDir)

	store := audiometa.NewStore(p.cfg.Project.ArtifactsDir)
	meta, err := store.Save(entries, s.SceneIDs(), p.cfg.Synthesis.Provider, p.cfg.Synthesis.Language)
	if err != nil {
		return nil, nil, err
	}

	issues := audiometa.Review(entries, scenes, audiometa.Thresholds{
		MinSceneSeconds:   p.cfg.Validation.MinSceneSeconds,
		MaxSceneSeconds:   p.cfg.Validation.MaxSceneSeconds,
		MinCharsPerSecond: p.cfg.Validation.MinCharsPerSecond,
		MaxCharsPerSecond: p.cfg.Validation.MaxCharsPerSecond,
	})
	return meta, issues, nil
}

// Transcribe runs WhisperX over the selected scenes' clips and persists the
// merged transcription artifact.
func (p *Pipeline) Transcribe(ctx context.Context, filter []string) (*transcribe.Output, error) {
	s, err := p.loadScript()
	if err != nil {
		return nil, err
	}
	meta, err := p.requireMetadata("transcribe")
	if err != nil {
		return nil, err
	}

	service := transcribe.NewService(transcribe.ServiceConfig{
		Model:       p.cfg.Transcription.Model,
		CUDAEnabled: p.cfg.Transcription.CUDAEnabled,
	})
	adapter := transcribe.NewAdapter(service, p.cfg.Project.FPS, p.cfg.Synthesis.Language, p.logger)
	workDir := filepath.Join(p.cfg.Project.ArtifactsDir, "whisperx")
	results := adapter.Run(ctx, s.Filter(filter), clipsByID(meta), workDir)

	store := transcribe.NewStore(p.cfg.Project.ArtifactsDir)
	previous, err := store.Load()
	if err != nil {
		return nil, err
	}
	var stored []transcribe.SceneTranscription
	if previous != nil {
		stored = previous.Scenes
	}
	merged := mergeByID(stored, results, s.SceneIDs(),
		func(t transcribe.SceneTranscription) string { return t.SceneID })
	return store.Save(p.cfg.Project.CompositionID, p.cfg.Project.FPS, merged)
}

// Align maps each scene's visual panels onto its transcription and persists
// the merged panel artifact. Panels that found no transcript anchor come
// back as advisory issues.
func (p *Pipeline) Align(ctx context.Context, filter []string) (*align.Output, []validation.Issue, error) {
	s, err := p.loadScript()
	if err != nil {
		return nil, nil, err
	}
	transcriptions, err := transcribe.NewStore(p.cfg.Project.ArtifactsDir).Load()
	if err != nil {
		return nil, nil, err
	}
	if transcriptions == nil {
		return nil, nil, services.Wrap(services.ErrValidation, "align", "load",
			"transcription artifact missing; run transcribe first", nil)
	}

	aligner := align.New(p.cfg.Project.FPS, p.logger)
	results := aligner.Run(ctx, s.Filter(filter), transcriptions.ByScene())

	store := align.NewStore(p.cfg.Project.ArtifactsDir)
	previous, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	var stored []align.ScenePanels
	if previous != nil {
		stored = previous.Scenes
	}
	merged := mergeByID(stored, results, s.SceneIDs(),
		func(sp align.ScenePanels) string { return sp.SceneID })
	out, err := store.Save(p.cfg.Project.CompositionID, p.cfg.Project.FPS, merged)
	if err != nil {
		return nil, nil, err
	}
	return out, alignmentIssues(results), nil
}

func alignmentIssues(scenes []align.ScenePanels) []validation.Issue {
	var issues []validation.Issue
	for _, scene := range scenes {
		for _, panel := range scene.Panels {
			if panel.Warning == "" {
				continue
			}
			issues = append(issues, validation.Issue{
				Category: validation.CategoryAlignment,
				Severity: validation.SeverityWarning,
				SceneID:  scene.SceneID,
				Message:  fmt.Sprintf("panel %q: %s", panel.Text, panel.Warning),
				Details: map[string]any{
					"confidence": panel.Confidence,
					"matchType":  panel.MatchType,
				},
			})
		}
	}
	return issues
}

// Captions estimates caption timing for the selected scenes from narration
// text and measured clip duration, and persists the merged artifact.
func (p *Pipeline) Captions(ctx context.Context, filter []string) (*captions.Output, []validation.Issue, error) {
	s, err := p.loadScript()
	if err != nil {
		return nil, nil, err
	}
	meta, err := p.requireMetadata("captions")
	if err != nil {
		return nil, nil, err
	}
	durations := meta.DurationsByScene()

	segmenter := captions.NewSegmenter(p.cfg.Project.FPS, p.cfg.Timing.MaxWordsPerCaption)
	var results []captions.SceneCaptions
	var issues []validation.Issue
	for _, scene := range s.Filter(filter) {
		duration, ok := durations[scene.ID]
		if !ok {
			issues = append(issues, validation.Issue{
				Category: validation.CategoryMissingAudio,
				Severity: validation.SeverityWarning,
				SceneID:  scene.ID,
				Message:  "no measured duration; captions skipped",
			})
			continue
		}
		results = append(results, segmenter.Estimate(scene.ID, scene.Text, duration))
	}

	store := captions.NewStore(p.cfg.Project.ArtifactsDir)
	previous, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	var stored []captions.SceneCaptions
	if previous != nil {
		stored = previous.Scenes
	}
	merged := mergeByID(stored, results, s.SceneIDs(),
		func(sc captions.SceneCaptions) string { return sc.SceneID })
	out, err := store.Save(p.cfg.Project.CompositionID, p.cfg.Project.FPS, merged)
	if err != nil {
		return nil, nil, err
	}
	return out, issues, nil
}

// FrameTable builds the per-scene frame table from measured durations
// without touching the render timing file.
func (p *Pipeline) FrameTable(ctx context.Context) (*rendertiming.Table, error) {
	s, err := p.loadScript()
	if err != nil {
		return nil, err
	}
	meta, err := p.requireMetadata("sync")
	if err != nil {
		return nil, err
	}
	return rendertiming.Build(s.SceneIDs(), meta.DurationsByScene(),
		p.cfg.Project.FPS, p.cfg.Timing.BufferFrames)
}

// Sync builds the frame table and patches the render timing source in place.
func (p *Pipeline) Sync(ctx context.Context) (*rendertiming.Table, bool, error) {
	table, err := p.FrameTable(ctx)
	if err != nil {
		return nil, false, err
	}
	patcher := rendertiming.NewPatcher(p.cfg.Project.RenderTimingPath, p.logger)
	changed, err := patcher.Apply(table)
	if err != nil {
		return nil, false, err
	}
	return table, changed, nil
}

// Preflight runs the render-readiness checks against the stored metadata.
func (p *Pipeline) Preflight(ctx context.Context, strict bool) (*validation.Report, error) {
	s, err := p.loadScript()
	if err != nil {
		return nil, err
	}
	meta, err := audiometa.NewStore(p.cfg.Project.ArtifactsDir).Load()
	if err != nil {
		return nil, err
	}
	checker := preflight.NewChecker(preflight.Options{
		TolerancePercent:       p.cfg.Validation.TolerancePercent,
		StrictTolerancePercent: p.cfg.Validation.StrictTolerancePercent,
		Strict:                 strict,
	}, p.logger)
	return checker.Run(s, meta, p.cfg.Project.AssetsDir), nil
}

// Run executes the full chain: probe, transcribe, align, captions, sync,
// preflight. Scenes run sequentially inside each stage; per-scene failures
// are recorded and the run continues, so one summary covers everything. The
// run is journaled and every log line carries its correlation id.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	if p.journal != nil {
		id, err := p.journal.Begin(ctx, "run", opts.SceneFilter)
		if err != nil {
			return nil, err
		}
		runID = id
	}
	ctx = services.WithRequestID(ctx, runID)
	log := logging.WithContext(ctx, p.logger)
	log.Info("pipeline run started", "scenes", opts.SceneFilter, "strict", opts.Strict)

	report := &validation.Report{}
	result, err := p.runStages(ctx, opts, report)
	if p.journal != nil {
		status := runs.StatusFailed
		if err == nil && result.Passed {
			status = runs.StatusPassed
		}
		if finishErr := p.journal.Finish(ctx, runID, status,
			len(report.Errors()), len(report.Warnings())); finishErr != nil {
			log.Warn("recording run outcome failed", "error", finishErr)
		}
	}
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	log.Info("pipeline run finished",
		"passed", result.Passed, "errors", len(report.Errors()), "warnings", len(report.Warnings()))
	return result, nil
}

func (p *Pipeline) runStages(ctx context.Context, opts Options, report *validation.Report) (*Result, error) {
	stage := func(name string) context.Context { return services.WithStage(ctx, name) }

	_, issues, err := p.Probe(stage("probe"), opts.SceneFilter)
	if err != nil {
		return nil, err
	}
	report.Add(issues...)

	if _, err := p.Transcribe(stage("transcribe"), opts.SceneFilter); err != nil {
		return nil, err
	}

	if _, issues, err = p.Align(stage("align"), opts.SceneFilter); err != nil {
		return nil, err
	}
	report.Add(issues...)

	if _, issues, err = p.Captions(stage("captions"), opts.SceneFilter); err != nil {
		return nil, err
	}
	report.Add(issues...)

	table, _, err := p.Sync(stage("sync"))
	if err != nil {
		return nil, err
	}
	report.Add(table.Skipped...)

	preflightReport, err := p.Preflight(stage("preflight"), opts.Strict)
	if err != nil {
		return nil, err
	}
	report.Add(preflightReport.Issues...)

	return &Result{Report: report, Passed: report.Pass(opts.Strict)}, nil
}
