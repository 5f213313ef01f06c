package config

import "strings"

// normalize expands paths and trims string fields after decoding.
func (c *Config) normalize() error {
	var err error
	if c.Project.ScriptPath, err = expandPath(strings.TrimSpace(c.Project.ScriptPath)); err != nil {
		return err
	}
	if c.Project.AssetsDir, err = expandPath(strings.TrimSpace(c.Project.AssetsDir)); err != nil {
		return err
	}
	if c.Project.ArtifactsDir, err = expandPath(strings.TrimSpace(c.Project.ArtifactsDir)); err != nil {
		return err
	}
	if c.Project.RenderTimingPath, err = expandPath(strings.TrimSpace(c.Project.RenderTimingPath)); err != nil {
		return err
	}
	if trimmed := strings.TrimSpace(c.Project.LogDir); trimmed != "" {
		if c.Project.LogDir, err = expandPath(trimmed); err != nil {
			return err
		}
	} else {
		c.Project.LogDir = ""
	}

	c.Project.CompositionID = strings.TrimSpace(c.Project.CompositionID)
	c.Synthesis.Provider = strings.ToLower(strings.TrimSpace(c.Synthesis.Provider))
	c.Synthesis.Voice = strings.TrimSpace(c.Synthesis.Voice)
	c.Synthesis.Language = strings.ToLower(strings.TrimSpace(c.Synthesis.Language))
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
