package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lukemcguire/doclinks/checker"
	"github.com/lukemcguire/doclinks/result"
)

// CheckProgressMsg reports progress for a single verified link, or the end
// of the scan when Scanned is set.
type CheckProgressMsg struct {
	Checked int
	Broken  int
	Total   int
	Scanned bool
	Current string
}

// CheckDoneMsg signals the run has completed. Report is set even when Err
// reports broken links.
type CheckDoneMsg struct {
	Report *result.Report
	Err    error
}

// LogLineMsg carries one log line to be printed above the progress view.
type LogLineMsg struct {
	Line string
}

// waitForProgress returns a tea.Cmd that reads one event from the progress
// channel. A closed channel yields no message; completion comes from
// startCheck.
func waitForProgress(ch <-chan checker.CheckEvent) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return nil
		}
		return CheckProgressMsg{
			Checked: evt.Checked,
			Broken:  evt.Broken,
			Total:   evt.Total,
			Scanned: evt.Scanned,
			Current: evt.Target,
		}
	}
}
