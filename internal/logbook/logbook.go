package logbook

import (
	"errors"
	"fmt"

	"github.com/lox/weatherlog/internal/models"
)

const (
	// DefaultCapacity is used when Init is given a capacity of zero or less.
	DefaultCapacity = 5

	// MaxCapacity is the largest backing store a System will allocate
	// (ten years of days).
	MaxCapacity = 3660
)

var (
	// ErrAllocation is returned when the backing store cannot be allocated.
	// The System is left unusable.
	ErrAllocation = errors.New("cannot allocate log storage")

	// ErrFull is returned by Append when every slot is taken.
	ErrFull = errors.New("log storage full")

	// ErrUnusable is returned by Append on a System with no storage.
	ErrUnusable = errors.New("log storage not initialised")
)

// System is a bounded, insertion-ordered collection of daily logs. It owns
// copies of the logs appended to it and is not safe for concurrent use.
//
// The zero value is an unusable System with capacity zero; call Init.
type System struct {
	logs     []models.DailyLog
	capacity int
}

// New returns a System initialised with capacity. On error the returned
// System is unusable.
func New(capacity int) (*System, error) {
	s := &System{}
	if err := s.Init(capacity); err != nil {
		return s, err
	}
	return s, nil
}

// Init allocates storage for capacity logs, releasing any previous
// storage first. A capacity of zero or less selects DefaultCapacity.
func (s *System) Init(capacity int) error {
	s.Release()

	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if capacity > MaxCapacity {
		return fmt.Errorf("init system with capacity %d (max %d): %w", capacity, MaxCapacity, ErrAllocation)
	}

	s.logs = make([]models.DailyLog, 0, capacity)
	s.capacity = capacity
	return nil
}

// Append copies log into the next free slot. A full System is left
// unchanged and ErrFull returned.
func (s *System) Append(log models.DailyLog) error {
	if s.capacity == 0 {
		return ErrUnusable
	}
	if len(s.logs) >= s.capacity {
		return fmt.Errorf("append %s (%d/%d stored): %w", log.Date, len(s.logs), s.capacity, ErrFull)
	}
	s.logs = append(s.logs, log)
	return nil
}

// Release drops the backing storage. It is safe to call on a zero System
// and more than once.
func (s *System) Release() {
	s.logs = nil
	s.capacity = 0
}

// Len returns the number of logs stored.
func (s *System) Len() int { return len(s.logs) }

// Cap returns the capacity, zero for an unusable System.
func (s *System) Cap() int { return s.capacity }

func (s *System) Full() bool { return s.capacity > 0 && len(s.logs) >= s.capacity }

// At returns a copy of the i-th oldest log.
func (s *System) At(i int) (models.DailyLog, bool) {
	if i < 0 || i >= len(s.logs) {
		return models.DailyLog{}, false
	}
	return s.logs[i], true
}

// Logs returns copies of the stored logs, oldest first.
func (s *System) Logs() []models.DailyLog {
	out := make([]models.DailyLog, len(s.logs))
	copy(out, s.logs)
	return out
}
