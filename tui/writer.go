package tui

import (
	"bytes"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// LineWriter forwards complete log lines to a running program, which prints
// them above the progress view. Before Attach and after Detach, writes go to
// the fallback writer.
type LineWriter struct {
	mu       sync.Mutex
	send     func(tea.Msg)
	fallback io.Writer
	buf      []byte
}

// NewLineWriter creates a LineWriter that writes to fallback until attached.
func NewLineWriter(fallback io.Writer) *LineWriter {
	return &LineWriter{fallback: fallback}
}

// Attach starts forwarding lines to p.
func (w *LineWriter) Attach(p *tea.Program) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.send = p.Send
}

// Detach stops forwarding and flushes any partial line to the fallback.
func (w *LineWriter) Detach() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.send = nil
	if len(w.buf) > 0 {
		_, _ = w.fallback.Write(append(w.buf, '\n'))
		w.buf = nil
	}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.send == nil {
		return w.fallback.Write(p)
	}

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := string(w.buf[:i])
		w.buf = w.buf[i+1:]
		w.send(LogLineMsg{Line: line})
	}
	return len(p), nil
}
