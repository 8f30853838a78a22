package models

import (
	"errors"
	"fmt"
	"time"
)

// HoursPerDay is the number of hourly readings in a daily log.
const HoursPerDay = 24

// Statistic sentinels for a log whose statistics have not been computed yet.
const (
	SentinelMin = 9999.0
	SentinelMax = -9999.0
)

// ErrHourMismatch is returned when an entry is stored at the wrong index.
var ErrHourMismatch = errors.New("entry hour does not match its index")

type HourlyReading struct {
	Hour        int     // 0-23
	Temperature float64 // °C
	Humidity    float64 // %
	WindSpeed   float64 // m/s
}

// DailyLog is one simulated day. It holds no references, so assigning it
// copies the whole record.
type DailyLog struct {
	Date           string // YYYY-MM-DD
	Entries        [HoursPerDay]HourlyReading
	AvgTemperature float64
	MinTemperature float64
	MaxTemperature float64
}

// Run describes one invocation of the simulator.
type Run struct {
	ID        string
	StartedAt time.Time
	Days      int
	Seed      uint64
}

// NewDailyLog returns an empty log for date with hour indices set and
// statistics at their sentinel values.
func NewDailyLog(date string) DailyLog {
	log := DailyLog{
		Date:           date,
		AvgTemperature: 0,
		MinTemperature: SentinelMin,
		MaxTemperature: SentinelMax,
	}
	for i := range log.Entries {
		log.Entries[i].Hour = i
	}
	return log
}

// ComputeStatistics derives avg/min/max temperature from the current entries.
func (d *DailyLog) ComputeStatistics() {
	sum := 0.0
	lo := d.Entries[0].Temperature
	hi := d.Entries[0].Temperature

	for _, e := range d.Entries {
		sum += e.Temperature
		if e.Temperature < lo {
			lo = e.Temperature
		}
		if e.Temperature > hi {
			hi = e.Temperature
		}
	}

	d.AvgTemperature = sum / HoursPerDay
	d.MinTemperature = lo
	d.MaxTemperature = hi
}

// CheckHours verifies that every entry sits at the index of its hour.
func (d DailyLog) CheckHours() error {
	for i, e := range d.Entries {
		if e.Hour != i {
			return fmt.Errorf("entry %d has hour %d: %w", i, e.Hour, ErrHourMismatch)
		}
	}
	return nil
}
