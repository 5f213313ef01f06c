package main

import (
	"fmt"
	"io"
	"strconv"

	"reeltime/internal/validation"
)

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "s"
}

// printIssues writes a readable issue list, errors before warnings.
func printIssues(w io.Writer, issues []validation.Issue) {
	if len(issues) == 0 {
		return
	}
	report := validation.Report{Issues: issues}
	for _, issue := range report.Errors() {
		fmt.Fprintln(w, issue.String())
	}
	for _, issue := range report.Warnings() {
		fmt.Fprintln(w, issue.String())
	}
}

func countIssues(issues []validation.Issue) (errors, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case validation.SeverityError:
			errors++
		case validation.SeverityWarning:
			warnings++
		}
	}
	return errors, warnings
}
