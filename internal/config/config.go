package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Project identifies the composition and the files the pipeline reads/writes.
type Project struct {
	CompositionID    string `toml:"composition_id"`
	FPS              int    `toml:"fps"`
	ScriptPath       string `toml:"script_path"`
	AssetsDir        string `toml:"assets_dir"`
	ArtifactsDir     string `toml:"artifacts_dir"`
	RenderTimingPath string `toml:"render_timing_path"`
	LogDir           string `toml:"log_dir"`
}

// Synthesis contains the speech-synthesis provider settings. The API key is
// environment-sourced (REELTIME_TTS_API_KEY), never stored in the file.
type Synthesis struct {
	Provider            string `toml:"provider"`
	Voice               string `toml:"voice"`
	Language            string `toml:"language"`
	Endpoint            string `toml:"endpoint"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollTimeoutSeconds  int    `toml:"poll_timeout_seconds"`
}

// Transcription contains settings for the transcription service.
type Transcription struct {
	Model       string `toml:"model"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
}

// Timing controls frame-table generation and caption estimation.
type Timing struct {
	// BufferFrames is the per-scene tail padding, in frames. Frames, not
	// seconds: the unit drifted between the two historically and produced
	// cumulative offsets, so it is fixed here and converted nowhere else.
	BufferFrames       int `toml:"buffer_frames"`
	MaxWordsPerCaption int `toml:"max_words_per_caption"`
}

// Validation contains thresholds for the quality review and preflight checks.
type Validation struct {
	TolerancePercent       float64 `toml:"tolerance_percent"`
	StrictTolerancePercent float64 `toml:"strict_tolerance_percent"`
	MinSceneSeconds        float64 `toml:"min_scene_seconds"`
	MaxSceneSeconds        float64 `toml:"max_scene_seconds"`
	MinCharsPerSecond      float64 `toml:"min_chars_per_second"`
	MaxCharsPerSecond      float64 `toml:"max_chars_per_second"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reeltime.
type Config struct {
	Project       Project       `toml:"project"`
	Synthesis     Synthesis     `toml:"synthesis"`
	Transcription Transcription `toml:"transcription"`
	Timing        Timing        `toml:"timing"`
	Validation    Validation    `toml:"validation"`
	Logging       Logging       `toml:"logging"`

	// TTSAPIKey is resolved from the environment during Load.
	TTSAPIKey string `toml:"-"`
}

// EnvTTSAPIKey is the environment variable holding the synthesis credential.
const EnvTTSAPIKey = "REELTIME_TTS_API_KEY"

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reeltime/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized, and credentials pulled
// from the environment.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.TTSAPIKey = strings.TrimSpace(os.Getenv(EnvTTSAPIKey))

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("reeltime.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the writable directories the pipeline needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Project.ArtifactsDir, c.Project.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable used for duration probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
