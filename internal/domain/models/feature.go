package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimePoint is a civil timestamp plus the observer longitude used for
// true-solar-time correction. The zone is carried by Time's location.
// Immutable once constructed.
type TimePoint struct {
	Time      time.Time
	Longitude float64 // degrees east
}

// NewTimePoint builds a TimePoint from a timestamp and a longitude.
func NewTimePoint(t time.Time, longitude float64) TimePoint {
	return TimePoint{Time: t, Longitude: longitude}
}

// Shift returns a new TimePoint offset by d, keeping the longitude.
func (tp TimePoint) Shift(d time.Duration) TimePoint {
	return TimePoint{Time: tp.Time.Add(d), Longitude: tp.Longitude}
}

// Equal reports whether two TimePoints denote the same instant and longitude.
func (tp TimePoint) Equal(o TimePoint) bool {
	return tp.Time.Equal(o.Time) && tp.Longitude == o.Longitude
}

// Horizon is a signed time offset used to generate shifted feature rows.
type Horizon struct {
	Label  string // e.g. "+0d", "+3d", "-1d"
	Offset time.Duration
}

// HorizonFromDays builds a day-offset horizon with its canonical label.
func HorizonFromDays(days int) Horizon {
	return Horizon{Label: fmt.Sprintf("%+dd", days), Offset: time.Duration(days) * 24 * time.Hour}
}

// ParseHorizon parses labels of the form "+3d", "-1d", "0d", "+4h".
func ParseHorizon(label string) (Horizon, error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return Horizon{}, fmt.Errorf("empty horizon label")
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(strings.TrimPrefix(s[:len(s)-1], "+"))
	if err != nil {
		return Horizon{}, fmt.Errorf("horizon %q: %w", label, err)
	}
	switch unit {
	case 'd':
		return Horizon{Label: fmt.Sprintf("%+dd", n), Offset: time.Duration(n) * 24 * time.Hour}, nil
	case 'h':
		return Horizon{Label: fmt.Sprintf("%+dh", n), Offset: time.Duration(n) * time.Hour}, nil
	default:
		return Horizon{}, fmt.Errorf("horizon %q: unknown unit %q", label, string(unit))
	}
}

// FeatureRow is one calendrical feature vector: the pillars and element
// strengths computed at a (possibly horizon-shifted) TimePoint.
type FeatureRow struct {
	TimePoint TimePoint
	Horizon   string
	Pillars   FourPillars
	Elements  ElementVector
}
