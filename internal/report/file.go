package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/lox/weatherlog/internal/logbook"
	"github.com/lox/weatherlog/internal/models"
)

// ErrOpenFile is returned when an output file cannot be opened for append.
var ErrOpenFile = errors.New("could not open file")

// SaveDailyLog appends the bordered block for log to path.
func SaveDailyLog(path string, log models.DailyLog) error {
	return appendTo(path, func(w io.Writer) {
		writeDailyBlock(w, log)
	})
}

// SaveSystemLogs appends an export header and a block for every log in sys.
func SaveSystemLogs(path string, sys *logbook.System) error {
	return appendTo(path, func(w io.Writer) {
		fmt.Fprintln(w, "WEATHER SYSTEM LOG EXPORT")
		fmt.Fprintf(w, "Days Recorded: %d\n\n", sys.Len())
		for _, log := range sys.Logs() {
			writeDailyBlock(w, log)
		}
	})
}

// AppendSummary appends the statistics of log to path.
func AppendSummary(path string, log models.DailyLog) error {
	return appendTo(path, func(w io.Writer) {
		fmt.Fprintf(w, "SUMMARY for %s\n", log.Date)
		fmt.Fprintf(w, "Avg Temp: %.2f\n", log.AvgTemperature)
		fmt.Fprintf(w, "Min Temp: %.2f\n", log.MinTemperature)
		fmt.Fprintf(w, "Max Temp: %.2f\n", log.MaxTemperature)
	})
}

func writeDailyBlock(w io.Writer, log models.DailyLog) {
	fmt.Fprintln(w, thickRule)
	fmt.Fprintf(w, "Date: %s\n", log.Date)
	fmt.Fprintln(w, thinRule)
	fmt.Fprintln(w, " Hour\t| Temperature(C)\t| Humidity(%)\t| Wind(m/s)")
	fmt.Fprintln(w, thinRule)
	for _, e := range log.Entries {
		PrintHourEntry(w, e)
	}
	fmt.Fprintln(w, thinRule)
	writeStats(w, log)
	fmt.Fprintln(w, thickRule)
}

// appendTo opens path in append mode, runs write against a buffer and
// flushes and closes the file before returning.
func appendTo(path string, write func(w io.Writer)) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrOpenFile, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", path, cerr))
		}
	}()

	bw := bufio.NewWriter(f)
	write(bw)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
