package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// TimeFormat is the wire and storage format for times of day.
const TimeFormat = "15:04"

var (
	// ErrInvalidTimeString is returned when a value cannot be parsed as HH:MM
	ErrInvalidTimeString = errors.New("types: invalid time string format, expected HH:MM")

	// ErrTimeOutOfRange is returned when arithmetic moves a time outside 00:00-23:59
	ErrTimeOutOfRange = errors.New("types: time out of range")
)

// TimeString represents a time of day as "HH:MM".
// It is an ordinary string underneath, so it serializes to JSON and to
// Postgres TIME columns without adapters.
type TimeString string

// NewTimeString creates a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(TimeFormat))
}

// NewTimeStringFromString parses and validates an "HH:MM" value.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate checks that the value is a well-formed HH:MM time.
func (t TimeString) Validate() error {
	if _, err := time.Parse(TimeFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero returns true for the empty value.
func (t TimeString) IsZero() bool {
	return t == ""
}

// String returns the "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// parsed returns the value anchored to a reference day for arithmetic.
func (t TimeString) parsed() (time.Time, error) {
	parsed, err := time.Parse(TimeFormat, string(t))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed, nil
}

// IsBefore reports whether t is strictly earlier than other.
// Malformed values compare lexically, which matches HH:MM ordering
// for every valid value.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter reports whether t is strictly later than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// AddMinutes returns the time shifted forward by the given number of minutes.
// Crossing midnight is an error: a working day never wraps.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := t.parsed()
	if err != nil {
		return "", err
	}

	shifted := parsed.Add(time.Duration(minutes) * time.Minute)
	if shifted.Day() != parsed.Day() {
		return "", fmt.Errorf("%w: %s + %dm crosses midnight", ErrTimeOutOfRange, t, minutes)
	}

	return NewTimeString(shifted), nil
}

// TotalMinutes returns the minutes elapsed since midnight, or 0 for a
// malformed value.
func (t TimeString) TotalMinutes() int {
	parsed, err := t.parsed()
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// MinutesUntil returns the number of minutes from t to other (negative if
// other is earlier).
func (t TimeString) MinutesUntil(other TimeString) (int, error) {
	from, err := t.parsed()
	if err != nil {
		return 0, err
	}
	to, err := other.parsed()
	if err != nil {
		return 0, err
	}
	return int(to.Sub(from) / time.Minute), nil
}

// Value implements driver.Valuer so the type can be written directly.
func (t TimeString) Value() (driver.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan implements sql.Scanner. Postgres TIME columns arrive as strings or
// time.Time depending on the driver path; both are accepted and seconds are
// truncated.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported source type %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	// "HH:MM:SS" from a TIME column
	if len(s) >= 8 {
		if parsed, err := time.Parse("15:04:05", s[:8]); err == nil {
			*t = NewTimeString(parsed)
			return nil
		}
	}
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}
