package transcribe

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"reeltime/internal/artifacts"
	"reeltime/internal/audiometa"
	"reeltime/internal/logging"
	"reeltime/internal/script"
	"reeltime/internal/services"
	"reeltime/internal/timecode"
)

// Transcriber is the provider surface the adapter consumes. *Service
// implements it; tests substitute stubs.
type Transcriber interface {
	TranscribeFile(ctx context.Context, source, outputDir, language string) ([]RawSegment, error)
}

// Adapter invokes the transcription provider per scene and normalizes
// results into segment- and word-level timestamps with derived frames.
type Adapter struct {
	service  Transcriber
	fps      int
	language string
	logger   *slog.Logger
}

// NewAdapter constructs an Adapter. A nil logger is replaced with a nop.
func NewAdapter(service Transcriber, fps int, language string, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Adapter{service: service, fps: fps, language: language, logger: logger}
}

// Run transcribes each scene's clip sequentially. A provider failure for one
// scene is recorded inline on that scene's record and the remaining scenes
// still run; there is no built-in retry, callers re-invoke with a scene
// filter instead.
func (a *Adapter) Run(ctx context.Context, scenes []script.Scene, clips map[string]audiometa.ClipMetadata, workDir string) []SceneTranscription {
	results := make([]SceneTranscription, 0, len(scenes))
	for _, scene := range scenes {
		sceneCtx := services.WithSceneID(ctx, scene.ID)
		log := logging.WithContext(sceneCtx, a.logger)

		result := SceneTranscription{SceneID: scene.ID}
		clip, ok := clips[scene.ID]
		if !ok || clip.Err != "" || clip.DurationSeconds <= 0 {
			result.Err = "no usable audio clip for scene"
			log.Warn("skipping transcription", "reason", result.Err)
			results = append(results, result)
			continue
		}
		result.DurationSeconds = clip.DurationSeconds
		result.DurationFrames = timecode.DurationFrames(clip.DurationSeconds, a.fps)

		sceneDir := filepath.Join(workDir, scene.ID)
		raw, err := a.service.TranscribeFile(sceneCtx, clip.File, sceneDir, a.language)
		if err != nil {
			result.Err = err.Error()
			log.Warn("transcription failed", "error", err)
			results = append(results, result)
			continue
		}

		a.fill(&result, raw)
		log.Debug("scene transcribed", "segments", len(result.Segments), "words", len(result.Words))
		results = append(results, result)
	}
	return results
}

// fill converts raw provider segments into the normalized shape, deriving a
// frame number for every timestamp.
func (a *Adapter) fill(result *SceneTranscription, raw []RawSegment) {
	var textParts []string
	for _, seg := range raw {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		textParts = append(textParts, text)
		result.Segments = append(result.Segments, Segment{
			Text:       text,
			Start:      seg.Start,
			End:        seg.End,
			StartFrame: timecode.Frame(seg.Start, a.fps),
			EndFrame:   timecode.Frame(seg.End, a.fps),
		})
		for _, word := range seg.Words {
			token := strings.TrimSpace(word.Word)
			if token == "" {
				continue
			}
			result.Words = append(result.Words, Word{
				Word:       token,
				Start:      word.Start,
				End:        word.End,
				StartFrame: timecode.Frame(word.Start, a.fps),
				EndFrame:   timecode.Frame(word.End, a.fps),
			})
		}
	}
	result.Text = strings.Join(textParts, " ")
}

// Store persists the transcription artifact.
type Store struct {
	path string
}

// NewStore creates a store rooted at the artifacts directory.
func NewStore(artifactsDir string) *Store {
	return &Store{path: filepath.Join(artifactsDir, artifacts.TranscriptionFile)}
}

// Path returns the artifact file location.
func (s *Store) Path() string {
	return s.path
}

// Save writes the transcription output. The artifact is recomputed per full
// pipeline pass; it becomes stale the moment its backing audio is
// regenerated, and detecting that is the caller's responsibility.
func (s *Store) Save(compositionID string, fps int, scenes []SceneTranscription) (*Output, error) {
	out := &Output{
		CompositionID: compositionID,
		GeneratedAt:   artifacts.Timestamp(),
		FPS:           fps,
		Scenes:        scenes,
	}
	if err := artifacts.WriteJSON(s.path, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Load reads the persisted transcription output, or (nil, nil) when absent.
func (s *Store) Load() (*Output, error) {
	var out Output
	if err := artifacts.ReadJSON(s.path, &out); err != nil {
		if !artifacts.Exists(s.path) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}
