package result

import (
	"fmt"
	"io"
)

// PrintResults writes broken link details and a summary to w.
func PrintResults(w io.Writer, res *Report) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	broken := res.Broken()
	if len(broken) == 0 {
		writef("No broken links found!\n")
	} else {
		writef("Broken Links:\n")
		for i, l := range broken {
			o, _ := l.Outcome()
			writef("  Target: %s\n", l.Target)
			if o.Reason != "" {
				writef("  Error: %s\n", o.Reason)
			} else {
				writef("  Status: %d\n", o.StatusCode)
			}
			writef("  Found in: %s:%d\n", l.Path, l.Line)
			if i < len(broken)-1 {
				writef("\n")
			}
		}
	}
	writef("Checked %d links, found %d broken (%d questionable)\n",
		res.Stats.Total, res.Stats.Unreachable, res.Stats.Questionable)
}
