package simulate

import (
	"errors"
	"fmt"

	"github.com/lox/weatherlog/internal/models"
)

// ErrHourOutOfRange is returned for an hour outside 0-23.
var ErrHourOutOfRange = errors.New("hour out of range")

// Band is a time-of-day interval: hours below Until draw from [Min, Max].
type Band struct {
	Until int
	Min   float64
	Max   float64
}

var (
	// Colder overnight, warming through the morning, hottest in the
	// afternoon, easing off in the evening.
	TemperatureBands = []Band{
		{Until: 6, Min: 10.0, Max: 16.0},
		{Until: 12, Min: 15.0, Max: 22.0},
		{Until: 18, Min: 20.0, Max: 28.0},
		{Until: models.HoursPerDay, Min: 14.0, Max: 20.0},
	}

	HumidityBands = []Band{
		{Until: 6, Min: 60.0, Max: 90.0},
		{Until: 18, Min: 30.0, Max: 55.0},
		{Until: models.HoursPerDay, Min: 50.0, Max: 80.0},
	}

	WindSpeedBands = []Band{
		{Until: 6, Min: 0.5, Max: 2.0},
		{Until: 18, Min: 2.0, Max: 7.0},
		{Until: models.HoursPerDay, Min: 1.0, Max: 4.0},
	}
)

// BandFor returns the band covering hour. Hours past the last band fall
// into it.
func BandFor(bands []Band, hour int) Band {
	for _, b := range bands {
		if hour < b.Until {
			return b
		}
	}
	return bands[len(bands)-1]
}

// Simulator produces hourly readings from a RandomSource.
type Simulator struct {
	rng *RandomSource
}

func NewSimulator(rng *RandomSource) *Simulator {
	return &Simulator{rng: rng}
}

func (s *Simulator) sample(bands []Band, hour int) float64 {
	b := BandFor(bands, hour)
	return s.rng.Float(b.Min, b.Max)
}

func (s *Simulator) Temperature(hour int) float64 {
	return s.sample(TemperatureBands, hour)
}

func (s *Simulator) Humidity(hour int) float64 {
	return s.sample(HumidityBands, hour)
}

func (s *Simulator) WindSpeed(hour int) float64 {
	return s.sample(WindSpeedBands, hour)
}

// Hour fills log.Entries[hour] with a fresh reading.
func (s *Simulator) Hour(log *models.DailyLog, hour int) error {
	if hour < 0 || hour >= models.HoursPerDay {
		return fmt.Errorf("simulate hour %d: %w", hour, ErrHourOutOfRange)
	}

	log.Entries[hour] = models.HourlyReading{
		Hour:        hour,
		Temperature: s.Temperature(hour),
		Humidity:    s.Humidity(hour),
		WindSpeed:   s.WindSpeed(hour),
	}
	return nil
}

// Day fills all 24 hours in ascending order and computes the statistics.
func (s *Simulator) Day(log *models.DailyLog) {
	for hour := 0; hour < models.HoursPerDay; hour++ {
		// hour is always in range here
		_ = s.Hour(log, hour)
	}
	log.ComputeStatistics()
}

// NewDailyLog returns an empty log dated with a random calendar date.
func (s *Simulator) NewDailyLog() models.DailyLog {
	return models.NewDailyLog(s.rng.Date())
}

// SimulateDay returns a fully simulated day.
func (s *Simulator) SimulateDay() models.DailyLog {
	log := s.NewDailyLog()
	s.Day(&log)
	return log
}
