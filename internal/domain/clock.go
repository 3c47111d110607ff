package domain

import (
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ClockTime is a wall-clock time of day, stored as minutes after midnight.
// Arithmetic wraps at midnight; there is no date component.
type ClockTime int

// ParseClock parses an "HH:MM" string in the 00:00-23:59 range.
func ParseClock(s string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("parse clock %q: %w", s, ErrInvalidClock)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("parse clock %q: hour out of range: %w", s, ErrInvalidClock)
	}

	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: minute out of range: %w", s, ErrInvalidClock)
	}

	return ClockTime(h*60 + m), nil
}

// MustParseClock is ParseClock for constants and tests.
func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Add advances the clock, wrapping across midnight in either direction.
func (c ClockTime) Add(minutes int) ClockTime {
	m := (int(c) + minutes) % minutesPerDay
	if m < 0 {
		m += minutesPerDay
	}
	return ClockTime(m)
}

func (c ClockTime) Hour() int   { return int(c.normalized()) / 60 }
func (c ClockTime) Minute() int { return int(c.normalized()) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *ClockTime) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c ClockTime) normalized() ClockTime { return ClockTime(0).Add(int(c)) }
