package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lox/weatherlog/internal/imagegen"
	"github.com/lox/weatherlog/internal/logbook"
	"github.com/lox/weatherlog/internal/metrics"
	"github.com/lox/weatherlog/internal/models"
	"github.com/lox/weatherlog/internal/report"
	"github.com/lox/weatherlog/internal/simulate"
	"github.com/lox/weatherlog/internal/store"
)

// options is a validated run request.
type options struct {
	days  int
	multi bool // -n given; report as a system summary even for one day
	seed  uint64

	output      string
	archive     string
	chart       string
	metricsFile string
}

func execute(stdout io.Writer, logger *zap.Logger, opts options) int {
	start := time.Now()
	run := models.Run{ID: uuid.NewString(), StartedAt: start, Days: opts.days, Seed: opts.seed}
	logger = logger.With(zap.String("run_id", run.ID))
	logger.Info("starting run", zap.Int("days", opts.days), zap.Uint64("seed", opts.seed))

	var sys logbook.System
	if err := sys.Init(opts.days); err != nil {
		logger.Error("initialise log collection", zap.Int("days", opts.days), zap.Error(err))
		return 1
	}
	defer sys.Release()

	sim := simulate.NewSimulator(simulate.NewRandomSource(opts.seed))
	simulateDays(logger, sim, &sys, opts.days)

	if opts.multi {
		report.PrintSystemSummary(stdout, &sys)
	} else if log, ok := sys.At(0); ok {
		report.PrintDailyLog(stdout, log)
	}

	if opts.output != "" {
		fmt.Fprintf(stdout, "Saving log to file: %s\n", opts.output)
		saveLogs(logger, &sys, opts)
	}

	if opts.archive != "" {
		err := archiveRun(opts.archive, run, &sys)
		metrics.RecordWrite("archive", err)
		if err != nil {
			logger.Error("archive run", zap.String("path", opts.archive), zap.Error(err))
		} else {
			logger.Info("archived run", zap.String("path", opts.archive), zap.Int("days", sys.Len()))
		}
	}

	if opts.chart != "" {
		err := writeChart(opts.chart, &sys)
		metrics.RecordWrite("chart", err)
		if err != nil {
			logger.Error("render chart", zap.String("path", opts.chart), zap.Error(err))
		}
	}

	metrics.RunDuration.Set(time.Since(start).Seconds())
	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile); err != nil {
			logger.Error("write metrics", zap.String("path", opts.metricsFile), zap.Error(err))
		}
	}

	logger.Info("run complete", zap.Int("days_logged", sys.Len()), zap.Duration("elapsed", time.Since(start)))
	return 0
}

// simulateDays generates days daily logs and appends them to sys.
// Rejected appends are logged and counted; the loop carries on.
func simulateDays(logger *zap.Logger, sim *simulate.Simulator, sys *logbook.System, days int) {
	for i := 0; i < days; i++ {
		log := sim.SimulateDay()
		metrics.DaysSimulated.Inc()
		metrics.ReadingsGenerated.Add(models.HoursPerDay)
		for _, e := range log.Entries {
			metrics.HourlyTemperature.Observe(e.Temperature)
		}

		for hour, flags := range simulate.ValidateDay(log) {
			logger.Warn("reading failed quality checks",
				zap.String("date", log.Date), zap.Int("hour", hour), zap.Strings("flags", flags))
		}

		if err := sys.Append(log); err != nil {
			metrics.LogAppends.WithLabelValues(metrics.StatusRejected).Inc()
			logger.Warn("daily log rejected", zap.String("date", log.Date), zap.Error(err))
			continue
		}
		metrics.LogAppends.WithLabelValues(metrics.StatusStored).Inc()
		logger.Debug("simulated day",
			zap.String("date", log.Date),
			zap.Float64("avg", log.AvgTemperature),
			zap.Float64("min", log.MinTemperature),
			zap.Float64("max", log.MaxTemperature))
	}
}

func saveLogs(logger *zap.Logger, sys *logbook.System, opts options) {
	path := opts.output

	if !opts.multi {
		log, ok := sys.At(0)
		if !ok {
			return
		}
		err := report.SaveDailyLog(path, log)
		metrics.RecordWrite("daily", err)
		if err != nil {
			logger.Error("save daily log", zap.String("path", path), zap.Error(err))
		}
		err = report.AppendSummary(path, log)
		metrics.RecordWrite("summary", err)
		if err != nil {
			logger.Error("append summary", zap.String("path", path), zap.Error(err))
		}
		return
	}

	err := report.SaveSystemLogs(path, sys)
	metrics.RecordWrite("system", err)
	if err != nil {
		logger.Error("save system logs", zap.String("path", path), zap.Error(err))
	}
	for _, log := range sys.Logs() {
		err := report.AppendSummary(path, log)
		metrics.RecordWrite("summary", err)
		if err != nil {
			logger.Error("append summary", zap.String("path", path), zap.String("date", log.Date), zap.Error(err))
		}
	}
}

func archiveRun(path string, run models.Run, sys *logbook.System) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InsertRun(run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	for i, log := range sys.Logs() {
		if err := st.InsertDailyLog(run.ID, i, log); err != nil {
			return err
		}
	}
	return nil
}

func writeChart(path string, sys *logbook.System) error {
	data, err := imagegen.RenderChart(sys.Logs())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
