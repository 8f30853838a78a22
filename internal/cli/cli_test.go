package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/lox/weatherlog/internal/store"
)

var hourRow = regexp.MustCompile(`(?m)^ \d{2}\t\| (-?\d+\.\d) C\t\| \d+\.\d %\t\| \d+\.\d m/s$`)

// runCLI runs the command line with a clean environment and returns its
// exit code and output streams.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	for _, k := range []string{
		"WEATHERLOG_CONFIG", "WEATHERLOG_MAX_DAYS", "WEATHERLOG_SEED", "WEATHERLOG_ARCHIVE",
		"WEATHERLOG_CHART", "WEATHERLOG_METRICS_FILE", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
	var stdout, stderr bytes.Buffer
	code := Run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Help(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		t.Run(arg, func(t *testing.T) {
			code, out, _ := runCLI(t, arg)
			if code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}
			if !strings.Contains(out, "Usage: weatherlog") {
				t.Errorf("help output missing usage line:\n%s", out)
			}
			if strings.Contains(out, "Date:") {
				t.Error("help simulated a day")
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	for _, arg := range []string{"-v", "--version"} {
		t.Run(arg, func(t *testing.T) {
			code, out, _ := runCLI(t, arg)
			if code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}
			if out != "weatherlog version: 1.0.0\n" {
				t.Errorf("output = %q", out)
			}
		})
	}
}

func TestRun_InvalidInput(t *testing.T) {
	tests := [][]string{
		{"extra"},
		{"--bogus"},
		{"-n", "2", "extra"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, out, _ := runCLI(t, args...)
			if code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}
			if !strings.HasPrefix(out, "Invalid input: ") {
				t.Errorf("output does not start with Invalid input:\n%s", out)
			}
			if !strings.Contains(out, "Usage: weatherlog") {
				t.Errorf("output missing help text:\n%s", out)
			}
		})
	}
}

// Scenario A: one day to the console.
func TestRun_SingleDay(t *testing.T) {
	code, out, _ := runCLI(t, "--seed", "7")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	if n := strings.Count(out, "Date: "); n != 1 {
		t.Errorf("Date lines = %d, want 1", n)
	}
	if n := len(hourRow.FindAllString(out, -1)); n != 24 {
		t.Errorf("hour rows = %d, want 24", n)
	}
	for _, stat := range []string{"Daily Average Temperature: ", "Min Temperature: ", "Max Temperature: "} {
		if !strings.Contains(out, stat) {
			t.Errorf("output missing %q", stat)
		}
	}
	if strings.Contains(out, "SYSTEM LOGS") {
		t.Error("single day run printed a system summary")
	}
}

// Scenario B: -n 3 without a file.
func TestRun_MultipleDays(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	code, out, _ := runCLI(t, "-n", "3", "--seed", "11")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	if !strings.Contains(out, "Days logged: 3 / 3") {
		t.Errorf("output missing day count:\n%s", out)
	}
	if n := strings.Count(out, "Date: "); n != 3 {
		t.Errorf("Date lines = %d, want 3", n)
	}
	rows := hourRow.FindAllStringSubmatch(out, -1)
	if len(rows) != 72 {
		t.Fatalf("hour rows = %d, want 72", len(rows))
	}
	for _, row := range rows {
		temp, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			t.Fatal(err)
		}
		if temp < 10 {
			t.Errorf("temperature %v below the simulated floor", temp)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("console-only run created files: %v", entries)
	}
}

func TestRun_OneDayWithDaysFlagPrintsSummary(t *testing.T) {
	code, out, _ := runCLI(t, "-n", "1")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Days logged: 1 / 1") {
		t.Errorf("output missing system summary:\n%s", out)
	}
}

// Scenario C: out of range day counts fail before any file is touched.
func TestRun_InvalidDays(t *testing.T) {
	for _, days := range []string{"0", "6", "-2", "abc", "2.5"} {
		t.Run(days, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "weather.log")
			code, out, _ := runCLI(t, "-n", days, "-o", path)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(out, "Invalid DAYS value. Must be 1-5") {
				t.Errorf("output = %q", out)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Errorf("output file exists after invalid -n (stat err %v)", err)
			}
		})
	}
}

func TestRun_OutputFile_SingleDay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.log")
	code, out, _ := runCLI(t, "-o", path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Saving log to file: "+path) {
		t.Errorf("output missing save notice:\n%s", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if strings.Count(body, "Date: ") != 1 {
		t.Errorf("file should hold one daily block:\n%s", body)
	}
	if strings.Count(body, "SUMMARY for ") != 1 {
		t.Errorf("file should hold one summary:\n%s", body)
	}
	if strings.Contains(body, "WEATHER SYSTEM LOG EXPORT") {
		t.Error("single day file has a system export header")
	}
}

func TestRun_OutputFile_MultipleDays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.log")
	code, _, _ := runCLI(t, "-n", "2", "-o", path)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	body := string(data)
	if !strings.HasPrefix(body, "WEATHER SYSTEM LOG EXPORT\nDays Recorded: 2\n\n") {
		t.Errorf("unexpected export header:\n%s", body)
	}
	if n := strings.Count(body, "SUMMARY for "); n != 2 {
		t.Errorf("summaries = %d, want 2", n)
	}
	if i, j := strings.LastIndex(body, "Date: "), strings.Index(body, "SUMMARY for "); i > j {
		t.Error("summaries should follow every daily block")
	}
}

func TestRun_OutputFile_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.log")
	for i := 0; i < 2; i++ {
		if code, _, _ := runCLI(t, "-o", path); code != 0 {
			t.Fatalf("run %d exit code = %d", i, code)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "SUMMARY for "); n != 2 {
		t.Errorf("summaries = %d, want 2 after two runs", n)
	}
}

func TestRun_UnopenableOutputContinues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "weather.log")
	code, out, errOut := runCLI(t, "-o", path)
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Max Temperature: ") {
		t.Error("console report missing")
	}
	if !strings.Contains(errOut, "could not open file") {
		t.Errorf("stderr missing open failure:\n%s", errOut)
	}
}

func TestRun_SeedIsReproducible(t *testing.T) {
	_, first, _ := runCLI(t, "-n", "2", "--seed", "42")
	_, second, _ := runCLI(t, "-n", "2", "--seed", "42")
	if first != second {
		t.Error("same seed produced different reports")
	}
}

func TestRun_Outputs(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "runs.db")
	chart := filepath.Join(dir, "temps.png")
	prom := filepath.Join(dir, "weatherlog.prom")

	code, _, errOut := runCLI(t, "-n", "3", "--archive", archive, "--chart", chart, "--metrics-file", prom)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\n%s", code, errOut)
	}

	st, err := store.Open(archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer st.Close()
	if n, err := st.CountRuns(); err != nil || n != 1 {
		t.Errorf("CountRuns = %d, %v; want 1", n, err)
	}

	png, err := os.ReadFile(chart)
	if err != nil {
		t.Fatalf("read chart: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("chart is not a PNG")
	}

	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), "weatherlog_days_simulated_total") {
		t.Error("metrics textfile missing days counter")
	}
}

func TestRun_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weatherlog.yaml")
	if err := os.WriteFile(path, []byte("simulation:\n  max_days: 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, out, _ := runCLI(t, "--config", path, "-n", "8")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "Days logged: 8 / 8") {
		t.Errorf("output missing day count")
	}

	code, out, _ = runCLI(t, "--config", path, "-n", "11")
	if code != 1 || !strings.Contains(out, "Must be 1-10") {
		t.Errorf("exit code = %d, output %q; want 1 with configured maximum", code, out)
	}
}

func TestRun_ConfigError(t *testing.T) {
	code, _, errOut := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "config file not found") {
		t.Errorf("stderr = %q", errOut)
	}
}
