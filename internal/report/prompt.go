package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pollenhq/pollen/internal/store"
)

const (
	// MaxPromptLogs bounds the request size sent to the summarizer.
	MaxPromptLogs = 25
	// MinPromptLogs is a hard precondition: below it no external call
	// is made.
	MinPromptLogs = 3
)

// ErrInsufficientData means too few logs exist for a meaningful report.
var ErrInsufficientData = errors.New("report: insufficient data")

// InsufficientDataMessage is shown in place of a generated report.
const InsufficientDataMessage = "Not enough data for a meaningful report. " +
	"Please log at least 3 distinct work activities to generate a professional summary."

// BuildPrompt renders the summarization prompt from at most MaxPromptLogs
// logs, in arrival order. Returns ErrInsufficientData below MinPromptLogs.
func BuildPrompt(logs []store.WorkLog) (string, error) {
	if len(logs) < MinPromptLogs {
		return "", ErrInsufficientData
	}
	if len(logs) > MaxPromptLogs {
		logs = logs[:MaxPromptLogs]
	}

	var lines []string
	for _, l := range logs {
		lines = append(lines, fmt.Sprintf("- [%s] %s: %s (%s, %d mins)",
			l.Status, l.Title, l.Impact, l.Category, l.TimeSpent))
	}

	var b strings.Builder
	b.WriteString("Transform the following raw work logs into a professional, high-impact weekly report summary.\n")
	b.WriteString("Use a modern SaaS corporate tone (like Linear or Stripe).\n\n")
	b.WriteString("Structure the report with the following sections:\n")
	b.WriteString("1. Key Accomplishments (The \"Wins\")\n")
	b.WriteString("2. Ongoing Work (Status updates)\n")
	b.WriteString("3. Risks & Blockers (If any)\n\n")
	b.WriteString("Ensure you quantify impact where possible based on the logs provided.\n\n")
	b.WriteString("RAW LOGS:\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String(), nil
}
