package main

import (
	"log/slog"
	"strings"
	"sync"

	"reeltime/internal/config"
	"reeltime/internal/logging"
	"reeltime/internal/pipeline"
	"reeltime/internal/runs"
)

// commandContext lazily resolves configuration and logging once per process
// so every subcommand shares the same instances.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// pipeline builds a Pipeline without a run journal; stage commands do not
// record history.
func (c *commandContext) pipeline() (*pipeline.Pipeline, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, logger, nil), nil
}

// journaledPipeline builds a Pipeline with the run journal open. The caller
// owns closing the returned store.
func (c *commandContext) journaledPipeline() (*pipeline.Pipeline, *runs.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	journal, err := runs.Open(cfg.Project.LogDir)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.New(cfg, logger, journal), journal, nil
}

func (c *commandContext) journal() (*runs.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return runs.Open(cfg.Project.LogDir)
}
