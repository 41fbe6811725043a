// Package cli wires the doclinks command line: flags, the optional config
// file, and the run that scans, verifies and reports.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lukemcguire/doclinks/config"
)

// NewRootCommand builds the doclinks command. Output goes to stdout and
// stderr rather than the process streams so the command can be tested.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	flagCfg := config.Default()
	var configPath string

	cmd := &cobra.Command{
		Use:   "doclinks [path]",
		Short: "Check the links in a source tree",
		Long: `Scan a source tree for [label](target) links in Rust and Markdown files
and verify that every target is reachable.

Each link is reported on its own line. Local anchors, relative paths and
non-http schemes are reported as questionable without a network check.
The exit code is 1 if any link is unreachable.

Settings are read from .doclinks.yaml in the scan root when present; flags
given on the command line take precedence.

Examples:
  # Check the current directory
  doclinks

  # Check docs/ with 20 concurrent requests and debug logging
  doclinks -c 20 -v docs

  # Write a JSON report of every link
  doclinks --format json -o links.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg, err := resolveConfig(cmd, root, configPath, flagCfg)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, root, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&flagCfg.Concurrency, "concurrency", "c", flagCfg.Concurrency, "maximum number of links verified at once")
	flags.CountVarP(&flagCfg.Verbose, "verbose", "v", "increase log detail (repeatable)")
	flags.BoolVar(&flagCfg.NoColor, "no-color", false, "disable colored output")
	flags.DurationVar(&flagCfg.Timeout, "timeout", flagCfg.Timeout, "timeout for a single request")
	flags.IntVar(&flagCfg.Retries, "retries", flagCfg.Retries, "retries for transient failures")
	flags.DurationVar(&flagCfg.RetryDelay, "retry-delay", flagCfg.RetryDelay, "base delay between retries")
	flags.IntVar(&flagCfg.RateLimit, "rate-limit", flagCfg.RateLimit, "requests per second across all workers (0 disables)")
	flags.BoolVar(&flagCfg.AdaptiveRate, "adaptive-rate", false, "adjust the rate limit to observed response times")
	flags.StringVar(&flagCfg.UserAgent, "user-agent", flagCfg.UserAgent, "user agent string")
	flags.StringArrayVar(&flagCfg.Include, "include", flagCfg.Include, "glob selecting files to scan (repeatable)")
	flags.StringArrayVar(&flagCfg.Exclude, "exclude", nil, "glob excluding files from the scan (repeatable)")
	flags.BoolVar(&flagCfg.RespectRobots, "respect-robots", false, "skip targets disallowed by robots.txt")
	flags.StringVar(&flagCfg.Proxy, "proxy", "", "proxy URL (http, https or socks5)")
	flags.StringVar(&flagCfg.Format, "format", flagCfg.Format, "report format: text, json or csv")
	flags.StringVarP(&flagCfg.Output, "output", "o", "", "write the report to a file instead of stdout")
	flags.BoolVar(&flagCfg.TUI, "tui", false, "show a live progress view")
	flags.StringVar(&configPath, "config", "", "config file (default "+config.FileName+" in the scan root)")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

// resolveConfig loads the config file and applies the flags that were set
// on the command line over it.
func resolveConfig(cmd *cobra.Command, root, configPath string, flagCfg config.Config) (config.Config, error) {
	var cfg config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, _, err = config.LoadOptional(filepath.Join(configDir(root), config.FileName))
	}
	if err != nil {
		return cfg, err
	}

	overrides := map[string]func(){
		"concurrency":    func() { cfg.Concurrency = flagCfg.Concurrency },
		"verbose":        func() { cfg.Verbose = flagCfg.Verbose },
		"no-color":       func() { cfg.NoColor = flagCfg.NoColor },
		"timeout":        func() { cfg.Timeout = flagCfg.Timeout },
		"retries":        func() { cfg.Retries = flagCfg.Retries },
		"retry-delay":    func() { cfg.RetryDelay = flagCfg.RetryDelay },
		"rate-limit":     func() { cfg.RateLimit = flagCfg.RateLimit },
		"adaptive-rate":  func() { cfg.AdaptiveRate = flagCfg.AdaptiveRate },
		"user-agent":     func() { cfg.UserAgent = flagCfg.UserAgent },
		"include":        func() { cfg.Include = flagCfg.Include },
		"exclude":        func() { cfg.Exclude = flagCfg.Exclude },
		"respect-robots": func() { cfg.RespectRobots = flagCfg.RespectRobots },
		"proxy":          func() { cfg.Proxy = flagCfg.Proxy },
		"format":         func() { cfg.Format = flagCfg.Format },
		"output":         func() { cfg.Output = flagCfg.Output },
		"tui":            func() { cfg.TUI = flagCfg.TUI },
	}
	for name, apply := range overrides {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// configDir is the directory searched for the default config file.
func configDir(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}
