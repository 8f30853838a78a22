package report

import (
	"fmt"
	"io"

	"github.com/lox/weatherlog/internal/logbook"
	"github.com/lox/weatherlog/internal/models"
)

const (
	thinRule  = "--------------------------------------"
	thickRule = "=============================================="
)

// PrintHourEntry writes one table row for r.
func PrintHourEntry(w io.Writer, r models.HourlyReading) {
	fmt.Fprintf(w, " %02d\t| %.1f C\t| %.1f %%\t| %.1f m/s\n",
		r.Hour, r.Temperature, r.Humidity, r.WindSpeed)
}

// PrintDailyLog writes the hourly table and statistics of log.
func PrintDailyLog(w io.Writer, log models.DailyLog) {
	fmt.Fprintf(w, "Date: %s\n", log.Date)
	fmt.Fprintln(w, thinRule)
	fmt.Fprintln(w, " Hour\t| Temperature\t| Humidity\t| Wind")
	fmt.Fprintln(w, thinRule)
	for _, e := range log.Entries {
		PrintHourEntry(w, e)
	}
	fmt.Fprintln(w, thinRule)
	writeStats(w, log)
	fmt.Fprintln(w, thickRule)
}

// PrintSystemSummary writes a header followed by every stored log.
func PrintSystemSummary(w io.Writer, sys *logbook.System) {
	fmt.Fprintln(w, thickRule)
	fmt.Fprintln(w, "SYSTEM LOGS: ")
	fmt.Fprintf(w, "Days logged: %d / %d\n", sys.Len(), sys.Cap())
	fmt.Fprintln(w, thickRule)
	for _, log := range sys.Logs() {
		PrintDailyLog(w, log)
	}
}

func writeStats(w io.Writer, log models.DailyLog) {
	fmt.Fprintf(w, "Daily Average Temperature: %.1f °C\n", log.AvgTemperature)
	fmt.Fprintf(w, "Min Temperature: %.1f °C\n", log.MinTemperature)
	fmt.Fprintf(w, "Max Temperature: %.1f °C\n", log.MaxTemperature)
}
