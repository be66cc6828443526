package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/emoralesr/diagwiz/pkg/models"
)

// Style definitions shared by the diagnose command and the wizard.
var (
	causeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	undeterminedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("196")).
				Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	acceptedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// printDiagnosis renders a diagnosis to stdout.
func printDiagnosis(d models.Diagnosis, showTrace bool) {
	fmt.Println(renderDiagnosis(d, showTrace))
}

// renderDiagnosis formats the diagnosis and, optionally, its trace.
func renderDiagnosis(d models.Diagnosis, showTrace bool) string {
	var b strings.Builder

	if d.Undetermined() {
		b.WriteString(undeterminedStyle.Render(" Cause: undetermined "))
	} else {
		b.WriteString(causeStyle.Render(fmt.Sprintf(" Cause: %s ", d.Cause)))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("domain: %s", d.Domain)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Recommended actions"))
	b.WriteString("\n")
	for _, a := range d.Actions {
		b.WriteString(fmt.Sprintf("  - %s\n", a))
	}

	if d.UserSuggestion != "" {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Suggestion"))
		b.WriteString(fmt.Sprintf("\n  %s\n", d.UserSuggestion))
	}

	if showTrace {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Evaluation trace"))
		b.WriteString("\n")
		b.WriteString(renderTrace(d.Trace))
	}

	return b.String()
}

// renderTrace formats the per-rule evaluation records.
func renderTrace(trace []models.RuleTrace) string {
	if len(trace) == 0 {
		return dimStyle.Render("  no candidate rules evaluated") + "\n"
	}

	var b strings.Builder
	for i, rt := range trace {
		verdict := rejectedStyle.Render("rejected")
		if rt.Accepted {
			verdict = acceptedStyle.Render("accepted")
		}
		b.WriteString(fmt.Sprintf("  %d. %s  %s  %s\n", i+1, rt.Hypothesis, verdict, dimStyle.Render(rt.Reason)))

		for _, key := range premiseKeysSorted(rt.Premises) {
			b.WriteString(fmt.Sprintf("       premise %-24s %s\n", key, rt.Premises[key]))
		}
		for _, qt := range rt.Questions {
			status := "unanswered"
			if qt.Used {
				status = fmt.Sprintf("answered %q", qt.Response.String())
				if qt.Confirmed {
					status += ", confirmed"
				}
			}
			b.WriteString(fmt.Sprintf("       question %-23s %s\n", truncate(qt.Question, 22), status))
		}
	}
	return b.String()
}

// premiseKeysSorted returns the premise keys in a stable order for display.
func premiseKeysSorted(premises map[string]models.Truth) []string {
	keys := make([]string, 0, len(premises))
	for k := range premises {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
