package validation

import "fmt"

// Severity classifies how an issue affects render-readiness.
type Severity string

const (
	// SeverityError blocks render-readiness.
	SeverityError Severity = "error"
	// SeverityWarning is advisory; it blocks only in strict mode.
	SeverityWarning Severity = "warning"
)

// Issue categories.
const (
	CategoryAudioQuality  = "audio-quality"
	CategoryPacing        = "pacing"
	CategoryMissingAudio  = "missing-audio"
	CategoryDurationDrift = "duration-drift"
	CategoryTransition    = "transition-overlap"
	CategoryOrphanedAudio = "orphaned-audio"
	CategoryAlignment     = "alignment"
	CategoryProvider      = "provider"
)

// Issue is one finding from a validator. Details carries structured values
// (measured durations, tolerances) for machine consumers.
type Issue struct {
	Category string         `json:"category"`
	Severity Severity       `json:"severity"`
	SceneID  string         `json:"sceneId,omitempty"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

func (i Issue) String() string {
	if i.SceneID != "" {
		return fmt.Sprintf("[%s] %s (%s): %s", i.Severity, i.Category, i.SceneID, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Category, i.Message)
}

// Report accumulates issues from independent checks.
type Report struct {
	Issues []Issue `json:"issues"`
}

// Add appends issues to the report.
func (r *Report) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-severity issues.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// Pass reports whether the composition is render-ready. In strict mode any
// warning fails the report; otherwise only errors do.
func (r *Report) Pass(strict bool) bool {
	if len(r.Errors()) > 0 {
		return false
	}
	if strict && len(r.Warnings()) > 0 {
		return false
	}
	return true
}

func (r *Report) filter(severity Severity) []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}
