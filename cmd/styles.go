package cmd

import (
	"fmt"
	"strings"

	appvideo "vidtrim/application/video"
	"vidtrim/domain/video"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D33061")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AEA47A")).
			Width(9)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F3DBB2"))

	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3097C6"))
)

// renderPlan formats a dry-run result for the terminal
func renderPlan(result *appvideo.TrimResult) string {
	plan := result.Plan

	rows := []struct {
		label string
		value string
	}{
		{"input", plan.InputPath},
		{"start", fmt.Sprintf("%s (%ss)", video.FormatTimecode(plan.StartSeconds), video.FormatSeconds(plan.StartSeconds))},
		{"end", fmt.Sprintf("%s (%ss)", video.FormatTimecode(plan.EndSeconds), video.FormatSeconds(plan.EndSeconds))},
		{"length", video.FormatTimecode(plan.Duration())},
		{"mode", plan.Mode.String()},
		{"output", plan.OutputPath},
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Dry run, nothing will be written"))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}
	b.WriteString(commandStyle.Render(result.CommandLine()))
	b.WriteString("\n")
	return b.String()
}
