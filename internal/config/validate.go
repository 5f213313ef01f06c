package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values that would break the pipeline.
// It collects every problem rather than stopping at the first one.
func (c *Config) Validate() error {
	var problems []string

	if c.Project.CompositionID == "" {
		problems = append(problems, "project.composition_id must not be empty")
	}
	if c.Project.FPS <= 0 {
		problems = append(problems, fmt.Sprintf("project.fps must be positive, got %d", c.Project.FPS))
	}
	if c.Project.ScriptPath == "" {
		problems = append(problems, "project.script_path must not be empty")
	}
	if c.Project.ArtifactsDir == "" {
		problems = append(problems, "project.artifacts_dir must not be empty")
	}
	if c.Timing.BufferFrames < 0 {
		problems = append(problems, fmt.Sprintf("timing.buffer_frames must not be negative, got %d", c.Timing.BufferFrames))
	}
	if c.Timing.MaxWordsPerCaption <= 0 {
		problems = append(problems, fmt.Sprintf("timing.max_words_per_caption must be positive, got %d", c.Timing.MaxWordsPerCaption))
	}
	if c.Validation.TolerancePercent <= 0 {
		problems = append(problems, "validation.tolerance_percent must be positive")
	}
	if c.Validation.StrictTolerancePercent <= 0 {
		problems = append(problems, "validation.strict_tolerance_percent must be positive")
	}
	if c.Validation.StrictTolerancePercent > c.Validation.TolerancePercent {
		problems = append(problems, "validation.strict_tolerance_percent must not exceed validation.tolerance_percent")
	}
	if c.Validation.MinCharsPerSecond >= c.Validation.MaxCharsPerSecond {
		problems = append(problems, "validation.min_chars_per_second must be below max_chars_per_second")
	}
	if c.Synthesis.PollIntervalSeconds <= 0 {
		problems = append(problems, "synthesis.poll_interval_seconds must be positive")
	}
	if c.Synthesis.PollTimeoutSeconds <= 0 {
		problems = append(problems, "synthesis.poll_timeout_seconds must be positive")
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
