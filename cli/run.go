package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/lukemcguire/doclinks/checker"
	"github.com/lukemcguire/doclinks/config"
	"github.com/lukemcguire/doclinks/logging"
	"github.com/lukemcguire/doclinks/result"
	"github.com/lukemcguire/doclinks/scanner"
	"github.com/lukemcguire/doclinks/tui"
)

// maxRetryDelay caps the exponential backoff between retries.
const maxRetryDelay = 30 * time.Second

// run scans root, verifies every link and writes the report. The returned
// error wraps checker.ErrBrokenLinks when any link is unreachable.
func run(ctx context.Context, cfg config.Config, root string, stdout, stderr io.Writer) error {
	// Structured reports own stdout unless they go to a file.
	logDest := stdout
	if cfg.Format != config.FormatText && cfg.Output == "" {
		logDest = stderr
	}

	colored := logging.ColorEnabled(cfg.NoColor)
	var lineWriter *tui.LineWriter
	var logger *logrus.Logger
	if cfg.TUI {
		if !colored {
			tui.DisableColor()
		}
		lineWriter = tui.NewLineWriter(logDest)
		logger = logging.New(lineWriter, cfg.Verbose, colored)
	} else {
		logger = logging.New(logDest, cfg.Verbose, colored)
	}

	client, err := checker.NewClient(checker.ClientConfig{ProxyURL: cfg.Proxy})
	if err != nil {
		return fmt.Errorf("create HTTP client: %w", err)
	}

	sc, err := scanner.New(scanner.Options{Include: cfg.Include, Exclude: cfg.Exclude}, logger)
	if err != nil {
		return fmt.Errorf("create scanner: %w", err)
	}

	checkCfg := checker.Config{
		Concurrency:    cfg.Concurrency,
		RequestTimeout: cfg.Timeout,
		RateLimit:      cfg.RateLimit,
		AdaptiveRate:   cfg.AdaptiveRate,
		UserAgent:      cfg.UserAgent,
		RespectRobots:  cfg.RespectRobots,
		RetryPolicy: checker.RetryPolicy{
			MaxRetries: cfg.Retries,
			BaseDelay:  cfg.RetryDelay,
			MaxDelay:   maxRetryDelay,
		},
	}

	var report *result.Report
	var runErr error
	if cfg.TUI {
		report, runErr = runTUI(ctx, checkCfg, client, sc, logger, lineWriter, root, stdout)
	} else {
		report, runErr = checker.New(checkCfg, client, sc, logger, nil).Run(ctx, root)
	}
	if report == nil {
		return runErr
	}

	if err := writeReport(cfg, report, stdout); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// runTUI runs the checker behind the progress view. Log lines are printed
// above the view while it is running.
func runTUI(ctx context.Context, cfg checker.Config, client *http.Client, sc *scanner.Scanner,
	logger *logrus.Logger, lineWriter *tui.LineWriter, root string, stdout io.Writer,
) (*result.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	progress := make(chan checker.CheckEvent, 100)
	chk := checker.New(cfg, client, sc, logger, progress)

	program := tea.NewProgram(tui.NewModel(ctx, cancel, chk, root, progress), tea.WithOutput(stdout))
	lineWriter.Attach(program)
	finalModel, err := program.Run()
	lineWriter.Detach()
	if err != nil {
		return nil, fmt.Errorf("run TUI: %w", err)
	}

	model, ok := finalModel.(tui.Model)
	if !ok {
		return nil, fmt.Errorf("unexpected TUI model %T", finalModel)
	}
	if errors.Is(model.Err(), tui.ErrInterrupted) {
		// The cancelled run may still report progress; nobody is listening.
		go func() {
			for range progress {
			}
		}()
	}
	return model.Report(), model.Err()
}

// writeReport writes the report in the configured format. In TUI mode the
// text summary has already been rendered, so text goes only to a file.
func writeReport(cfg config.Config, report *result.Report, stdout io.Writer) (err error) {
	if cfg.TUI && cfg.Format == config.FormatText && cfg.Output == "" {
		return nil
	}

	out := stdout
	if cfg.Output != "" {
		f, createErr := os.Create(cfg.Output)
		if createErr != nil {
			return fmt.Errorf("create output file: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close output file: %w", closeErr)
			}
		}()
		out = f
	}

	switch cfg.Format {
	case config.FormatJSON:
		return result.WriteJSON(out, report.Links)
	case config.FormatCSV:
		return result.WriteCSV(out, report.Links)
	default:
		result.PrintResults(out, report)
		return nil
	}
}
