// Package cli implements the weatherlog command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/lox/weatherlog/internal/config"
	"github.com/lox/weatherlog/internal/observability"
	"github.com/lox/weatherlog/internal/simulate"
)

const Version = "1.0.0"

// CLI is the kong model of the command line.
type CLI struct {
	Days        dayCount         `short:"n" name:"days" placeholder:"DAYS" help:"Simulate DAYS days (1 to simulation.max_days)."`
	Output      string           `short:"o" name:"output" placeholder:"FILE" help:"Append the simulated logs to FILE."`
	Config      string           `name:"config" env:"WEATHERLOG_CONFIG" placeholder:"FILE" help:"YAML configuration file."`
	Archive     string           `name:"archive" placeholder:"DB" help:"Archive simulated days into a SQLite database."`
	Chart       string           `name:"chart" placeholder:"PNG" help:"Render an hourly temperature chart."`
	MetricsFile string           `name:"metrics-file" placeholder:"FILE" help:"Write run metrics in Prometheus text format."`
	Seed        *uint64          `name:"seed" placeholder:"N" help:"Fixed random seed."`
	Version     kong.VersionFlag `short:"v" name:"version" help:"Print version and exit."`
}

// dayCount keeps the raw -n value. The valid range depends on the loaded
// configuration, so it is checked after parsing.
type dayCount struct {
	raw string
	set bool
}

func (d *dayCount) Decode(ctx *kong.DecodeContext) error {
	d.set = true
	return ctx.Scan.PopValueInto("days", &d.raw)
}

// parse returns the day count, or false when raw is not an integer in
// [1, limit].
func (d dayCount) parse(limit int) (int, bool) {
	n, err := strconv.Atoi(d.raw)
	if err != nil || n < 1 || n > limit {
		return 0, false
	}
	return n, true
}

// exitCode carries a kong exit request out of Parse.
type exitCode int

// Run parses args and performs one simulation run, returning the process
// exit status. Help and version requests return 0 without simulating.
func Run(args []string, stdout, stderr io.Writer) (code int) {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("weatherlog"),
		kong.Description("Simulate hourly weather readings and log daily summaries."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(c int) { panic(exitCode(c)) }),
		kong.Vars{"version": "weatherlog version: " + Version},
		kong.WithHyphenPrefixedParameters(true),
	)
	if err != nil {
		fmt.Fprintf(stderr, "build command line: %v\n", err)
		return 1
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stdout, "Invalid input: %v\n", err)
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(false)
		}
		return 0
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := options{
		days:        1,
		multi:       cli.Days.set,
		output:      cli.Output,
		archive:     firstNonEmpty(cli.Archive, cfg.ArchivePath),
		chart:       firstNonEmpty(cli.Chart, cfg.ChartPath),
		metricsFile: firstNonEmpty(cli.MetricsFile, cfg.MetricsFile),
	}
	if cli.Days.set {
		n, ok := cli.Days.parse(cfg.MaxDays)
		if !ok {
			fmt.Fprintf(stdout, "Invalid DAYS value. Must be 1-%d\n", cfg.MaxDays)
			return 1
		}
		opts.days = n
	}

	switch {
	case cli.Seed != nil:
		opts.seed = *cli.Seed
	case cfg.HasSeed:
		opts.seed = cfg.Seed
	default:
		opts.seed = simulate.SeedFromClock()
	}

	logger := observability.NewLogger(stderr, cfg.LogLevel)
	defer logger.Sync()

	return execute(stdout, logger, opts)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
