package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"reeltime/internal/services"
)

const defaultAzureEndpoint = "https://koreacentral.customvoice.api.speech.microsoft.com/api/texttospeech/v3.0"

// Azure drives the batch synthesis REST API: submit a job, poll it, download
// the result. Jobs are asynchronous; callers settle them with PollJob.
type Azure struct {
	endpoint string
	apiKey   string
	client   *http.Client

	mu      sync.Mutex
	outputs map[string]string // job id -> clip destination
}

// NewAzure returns the batch-synthesis provider. An empty endpoint selects
// the default region endpoint.
func NewAzure(apiKey, endpoint string) *Azure {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultAzureEndpoint
	}
	return &Azure{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   http.DefaultClient,
		outputs:  make(map[string]string),
	}
}

// WithHTTPClient substitutes the HTTP client. Tests point it at a local
// server.
func (a *Azure) WithHTTPClient(client *http.Client) *Azure {
	a.client = client
	return a
}

type azureJobRequest struct {
	Text     string `json:"text"`
	Voice    string `json:"voice"`
	Language string `json:"language"`
}

type azureJobResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ResultURL string `json:"resultUrl,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (a *Azure) Synthesize(ctx context.Context, req Request) (*Job, error) {
	if strings.TrimSpace(a.apiKey) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "tts", "synthesize",
			"azure provider requires an API key (set REELTIME_TTS_API_KEY)", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, services.Wrap(services.ErrValidation, "tts", "synthesize",
			fmt.Sprintf("scene %s has no narration text", req.SceneID), nil)
	}

	body, err := json.Marshal(azureJobRequest{
		Text:     req.Text,
		Voice:    req.Voice,
		Language: req.Language,
	})
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.endpoint+"/synthesis/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

	var job azureJobResponse
	if err := a.do(httpReq, &job); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "tts", "synthesize",
			fmt.Sprintf("submitting job for scene %s", req.SceneID), err)
	}

	a.mu.Lock()
	a.outputs[job.ID] = req.OutputPath
	a.mu.Unlock()
	return a.toJob(ctx, job)
}

func (a *Azure) JobStatus(ctx context.Context, jobID string) (*Job, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.endpoint+"/synthesis/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Ocp-Apim-Subscription-Key", a.apiKey)

	var job azureJobResponse
	if err := a.do(httpReq, &job); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "tts", "poll",
			fmt.Sprintf("checking job %s", jobID), err)
	}
	return a.toJob(ctx, job)
}

func (a *Azure) do(req *http.Request, out *azureJobResponse) error {
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// toJob maps the provider status, downloading the clip once a job succeeds.
func (a *Azure) toJob(ctx context.Context, resp azureJobResponse) (*Job, error) {
	job := &Job{ID: resp.ID, Error: resp.Error}
	switch resp.Status {
	case "NotStarted":
		job.Status = StatusPending
	case "Running":
		job.Status = StatusRunning
	case "Succeeded":
		job.Status = StatusSucceeded
	case "Failed":
		job.Status = StatusFailed
	default:
		job.Status = StatusRunning
	}
	if job.Status != StatusSucceeded {
		return job, nil
	}

	a.mu.Lock()
	outputPath := a.outputs[resp.ID]
	a.mu.Unlock()
	if outputPath == "" || resp.ResultURL == "" {
		return job, nil
	}
	if err := a.download(ctx, resp.ResultURL, outputPath); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "tts", "download",
			fmt.Sprintf("fetching result for job %s", resp.ID), err)
	}
	return job, nil
}

func (a *Azure) download(ctx context.Context, url, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: %s", resp.Status)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
