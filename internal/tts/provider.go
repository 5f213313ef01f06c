package tts

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"reeltime/internal/services"
)

// JobStatus is the lifecycle state of a synthesis job.
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusSucceeded JobStatus = "succeeded"
	StatusFailed    JobStatus = "failed"
)

// Request asks a provider to synthesize one scene's narration into a clip
// at OutputPath.
type Request struct {
	SceneID    string
	Text       string
	Voice      string
	Language   string
	OutputPath string
}

// Job is a provider-side synthesis job. Synchronous providers return it
// already terminal.
type Job struct {
	ID     string
	Status JobStatus
	Error  string
}

// Terminal reports whether the job has finished, successfully or not.
func (j *Job) Terminal() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}

// Provider synthesizes narration audio. Asynchronous providers hand back a
// pending job that PollJob drives to completion.
type Provider interface {
	Synthesize(ctx context.Context, req Request) (*Job, error)
	JobStatus(ctx context.Context, jobID string) (*Job, error)
}

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func defaultRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// EdgeTTS shells out to the edge-tts CLI via uvx. Synthesis is synchronous:
// the returned job is already terminal.
type EdgeTTS struct {
	runner commandRunner
}

// NewEdgeTTS returns the default CLI-backed provider.
func NewEdgeTTS() *EdgeTTS {
	return &EdgeTTS{runner: defaultRunner}
}

// WithCommandRunner substitutes the process launcher. Tests use this to
// avoid spawning uvx.
func (e *EdgeTTS) WithCommandRunner(runner commandRunner) *EdgeTTS {
	e.runner = runner
	return e
}

func (e *EdgeTTS) Synthesize(ctx context.Context, req Request) (*Job, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrValidation, "tts", "synthesize",
			fmt.Sprintf("scene %s has no narration text", req.SceneID), nil)
	}
	args := []string{
		"edge-tts",
		"--voice", req.Voice,
		"--text", req.Text,
		"--write-media", req.OutputPath,
	}
	output, err := e.runner(ctx, "uvx", args...)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "tts", "synthesize",
			fmt.Sprintf("edge-tts failed for scene %s: %s", req.SceneID, strings.TrimSpace(string(output))), err)
	}
	return &Job{ID: req.SceneID, Status: StatusSucceeded}, nil
}

// JobStatus is trivial for a synchronous provider: a job only exists once
// it has succeeded.
func (e *EdgeTTS) JobStatus(ctx context.Context, jobID string) (*Job, error) {
	return &Job{ID: jobID, Status: StatusSucceeded}, nil
}

// ProviderOptions carries credentials and overrides for provider
// construction.
type ProviderOptions struct {
	APIKey   string
	Endpoint string
}

// New returns the provider registered under name.
func New(name string, opts ProviderOptions) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "azure":
		return NewAzure(opts.APIKey, opts.Endpoint), nil
	case "edge-tts":
		return NewEdgeTTS(), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "tts", "provider",
			fmt.Sprintf("unknown synthesis provider %q", name), nil)
	}
}
