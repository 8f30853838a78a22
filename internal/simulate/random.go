package simulate

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	minYear = 2000
	maxYear = 2030
)

// RandomSource is the single random stream of a run. It is not safe for
// concurrent use.
type RandomSource struct {
	rng *rand.Rand
}

// NewRandomSource returns a deterministic stream for seed.
func NewRandomSource(seed uint64) *RandomSource {
	return &RandomSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// SeedFromClock derives a seed from the wall clock.
func SeedFromClock() uint64 {
	return uint64(time.Now().UnixNano())
}

// Float returns a value uniformly distributed between lo and hi. lo > hi
// is not guarded.
func (r *RandomSource) Float(lo, hi float64) float64 {
	if lo == hi {
		return lo
	}
	return lo + r.rng.Float64()*(hi-lo)
}

// Date returns a random calendar date between 2000-01-01 and 2030-12-31
// formatted as YYYY-MM-DD.
func (r *RandomSource) Date() string {
	year := minYear + r.rng.IntN(maxYear-minYear+1)
	month := 1 + r.rng.IntN(12)
	day := 1 + r.rng.IntN(DaysInMonth(year, month))
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func IsLeapYear(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}

// DaysInMonth returns the number of days in month (1-12) of year.
func DaysInMonth(year, month int) int {
	switch month {
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}
