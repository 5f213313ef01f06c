package validation

import "testing"

func TestReportPass(t *testing.T) {
	var r Report
	if !r.Pass(false) || !r.Pass(true) {
		t.Fatal("empty report should pass in both modes")
	}

	r.Add(Issue{Category: CategoryDurationDrift, Severity: SeverityWarning, Message: "drift"})
	if !r.Pass(false) {
		t.Fatal("warnings alone should pass in normal mode")
	}
	if r.Pass(true) {
		t.Fatal("warnings should fail strict mode")
	}

	r.Add(Issue{Category: CategoryMissingAudio, Severity: SeverityError, Message: "missing"})
	if r.Pass(false) {
		t.Fatal("errors should fail in any mode")
	}
	if len(r.Errors()) != 1 || len(r.Warnings()) != 1 {
		t.Fatalf("filter counts wrong: %d errors, %d warnings", len(r.Errors()), len(r.Warnings()))
	}
}

func TestIssueString(t *testing.T) {
	withScene := Issue{Category: CategoryPacing, Severity: SeverityWarning, SceneID: "hook", Message: "too short"}
	if got := withScene.String(); got != "[warning] pacing (hook): too short" {
		t.Fatalf("unexpected string: %q", got)
	}
	withoutScene := Issue{Category: CategoryDurationDrift, Severity: SeverityError, Message: "off"}
	if got := withoutScene.String(); got != "[error] duration-drift: off" {
		t.Fatalf("unexpected string: %q", got)
	}
}
