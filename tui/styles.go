package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/lukemcguire/doclinks/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	cellStyle        = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	spinnerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// categoryOrder defines the display order for error categories (most to least actionable).
var categoryOrder = []result.ErrorCategory{
	result.Category4xx,
	result.Category5xx,
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryTLS,
	result.CategoryRedirectLoop,
	result.CategoryCancelled,
	result.CategoryUnknown,
}

// DisableColor renders all TUI output without ANSI styling.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// RenderSummary produces a Lip Gloss styled summary of a report: broken
// links grouped by error category, then questionable links, then totals.
func RenderSummary(rep *result.Report) string {
	if rep == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder
	elapsed := rep.Stats.Duration.Round(time.Millisecond)

	grouped := make(map[result.ErrorCategory][]*result.Link)
	var questionable []*result.Link
	for _, link := range rep.Links {
		o, ok := link.Outcome()
		switch {
		case ok && o.Status == result.StatusReachable:
		case ok && o.Status == result.StatusQuestionable:
			questionable = append(questionable, link)
		default:
			cat := o.Category
			if cat == "" {
				cat = result.CategoryUnknown
			}
			grouped[cat] = append(grouped[cat], link)
		}
	}

	for _, cat := range categoryOrder {
		links := grouped[cat]
		if len(links) == 0 {
			continue
		}
		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", result.FormatCategory(cat), len(links))))
		builder.WriteString("\n")
		builder.WriteString(linkTable(links, statusErrorStyle).Render())
		builder.WriteString("\n\n")
	}

	if len(questionable) > 0 {
		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## Questionable (%d)", len(questionable))))
		builder.WriteString("\n")
		builder.WriteString(linkTable(questionable, statusWarnStyle).Render())
		builder.WriteString("\n\n")
	}

	if rep.Stats.Unreachable == 0 {
		builder.WriteString(successStyle.Render("No broken links found!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Checked %d links in %s (%d questionable)",
			rep.Stats.Total, elapsed, rep.Stats.Questionable,
		)))
		builder.WriteString("\n")
		return builder.String()
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d broken links out of %d links checked (%s)",
		rep.Stats.Unreachable, rep.Stats.Total, elapsed,
	)))
	builder.WriteString("\n")

	return builder.String()
}

func linkTable(links []*result.Link, statusStyle lipgloss.Style) *table.Table {
	rows := make([][]string, 0, len(links))
	for _, link := range links {
		rows = append(rows, []string{link.Target, statusCell(link), fmt.Sprintf("%s:%d", link.Path, link.Line)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Target", "Status", "Found In").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 1 {
				return statusStyle
			}
			return cellStyle
		}).
		Rows(rows...)
}

func statusCell(link *result.Link) string {
	o, ok := link.Outcome()
	switch {
	case !ok:
		return "not checked"
	case o.Reason != "":
		return o.Reason
	case o.StatusCode > 0:
		return strconv.Itoa(o.StatusCode)
	default:
		return o.Status.String()
	}
}
