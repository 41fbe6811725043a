package result

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// linkRecord is the serialized form of a verified link.
type linkRecord struct {
	Path       string        `json:"path"`
	Line       int           `json:"line"`
	Target     string        `json:"target"`
	Status     string        `json:"status"`
	Reason     string        `json:"reason,omitempty"`
	StatusCode int           `json:"status_code,omitempty"`
	ErrorType  ErrorCategory `json:"error_type,omitempty"`
}

func newLinkRecord(l *Link) linkRecord {
	o, _ := l.Outcome()
	rec := linkRecord{
		Path:       l.Path,
		Line:       l.Line,
		Target:     l.Target,
		Status:     o.Status.String(),
		Reason:     o.Reason,
		StatusCode: o.StatusCode,
	}
	if o.Status == StatusUnreachable {
		rec.ErrorType = o.Category
	}
	return rec
}

// WriteJSON writes the links as a formatted JSON array to the writer.
// Uses flat array format (not wrapped with metadata) for simpler CI integration.
func WriteJSON(w io.Writer, links []*Link) error {
	records := make([]linkRecord, 0, len(links))
	for _, l := range links {
		records = append(records, newLinkRecord(l))
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// WriteCSV writes the links as CSV to the writer.
// Always includes a header row, even if there are no links.
// Column order: path, line, target, status, status_code, error_type, reason
func WriteCSV(w io.Writer, links []*Link) error {
	cw := csv.NewWriter(w)

	header := []string{"path", "line", "target", "status", "status_code", "error_type", "reason"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, l := range links {
		rec := newLinkRecord(l)
		record := []string{
			rec.Path,
			strconv.Itoa(rec.Line),
			rec.Target,
			rec.Status,
			statusCodeStr(rec.StatusCode),
			string(rec.ErrorType),
			rec.Reason,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record for %s: %w", l, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	return nil
}

// statusCodeStr converts an HTTP status code to a string.
// Returns empty string for 0 (no HTTP status).
func statusCodeStr(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}
