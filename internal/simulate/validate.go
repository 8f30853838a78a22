package simulate

import (
	"encoding/json"

	"github.com/lox/weatherlog/internal/models"
)

const (
	FlagHourOutOfRange     = "hour_out_of_range"
	FlagTempOutOfBand      = "temp_out_of_band"
	FlagHumidityOutOfBand  = "humidity_out_of_band"
	FlagWindSpeedOutOfBand = "wind_speed_out_of_band"
)

// ValidateReading reports the quality flags for r. A reading produced by
// the Simulator never carries any.
func ValidateReading(r models.HourlyReading) []string {
	if r.Hour < 0 || r.Hour >= models.HoursPerDay {
		return []string{FlagHourOutOfRange}
	}

	var flags []string

	if !inBand(TemperatureBands, r.Hour, r.Temperature) {
		flags = append(flags, FlagTempOutOfBand)
	}

	if !inBand(HumidityBands, r.Hour, r.Humidity) {
		flags = append(flags, FlagHumidityOutOfBand)
	}

	if !inBand(WindSpeedBands, r.Hour, r.WindSpeed) {
		flags = append(flags, FlagWindSpeedOutOfBand)
	}

	return flags
}

// ValidateDay returns the flags of every reading in log keyed by hour,
// leaving out clean hours.
func ValidateDay(log models.DailyLog) map[int][]string {
	out := make(map[int][]string)
	for _, e := range log.Entries {
		if flags := ValidateReading(e); len(flags) > 0 {
			out[e.Hour] = flags
		}
	}
	return out
}

func inBand(bands []Band, hour int, v float64) bool {
	b := BandFor(bands, hour)
	return v >= b.Min && v <= b.Max
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
