// Package logging builds the leveled console logger used by doclinks.
// Lines are colored by level with fatih/color unless color is disabled.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing to w. Verbosity 0 logs info and above,
// 1 adds debug, 2 or more adds trace.
func New(w io.Writer, verbosity int, colored bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(Level(verbosity))
	logger.SetFormatter(NewFormatter(colored))
	return logger
}

// Level maps a -v count to a logrus level.
func Level(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.InfoLevel
	case verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// ColorEnabled reports whether output should be colored: the user has not
// asked for plain output and stdout is a terminal.
func ColorEnabled(noColor bool) bool {
	return !noColor && !color.NoColor
}

// Formatter renders one line per entry: the message colored by level,
// followed by any fields as key=value pairs.
type Formatter struct {
	colored bool
	palette map[logrus.Level]*color.Color
	faint   *color.Color
}

// NewFormatter creates a Formatter. Color objects are enabled or disabled
// explicitly so the result does not depend on color.NoColor.
func NewFormatter(colored bool) *Formatter {
	f := &Formatter{
		colored: colored,
		palette: map[logrus.Level]*color.Color{
			logrus.PanicLevel: color.New(color.FgHiRed, color.Bold),
			logrus.FatalLevel: color.New(color.FgHiRed, color.Bold),
			logrus.ErrorLevel: color.New(color.FgRed),
			logrus.WarnLevel:  color.New(color.FgYellow),
			logrus.InfoLevel:  color.New(color.FgGreen),
			logrus.DebugLevel: color.New(color.FgCyan),
			logrus.TraceLevel: color.New(color.FgHiBlack),
		},
		faint: color.New(color.Faint),
	}
	for _, c := range f.palette {
		f.toggle(c)
	}
	f.toggle(f.faint)
	return f
}

func (f *Formatter) toggle(c *color.Color) {
	if f.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var buf bytes.Buffer

	msg := entry.Message
	if entry.Level >= logrus.DebugLevel {
		msg = entry.Level.String() + ": " + msg
	}
	if c, ok := f.palette[entry.Level]; ok {
		msg = c.Sprint(msg)
	}
	buf.WriteString(msg)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteByte(' ')
			buf.WriteString(f.faint.Sprint(fmt.Sprintf("%s=%v", k, entry.Data[k])))
		}
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
