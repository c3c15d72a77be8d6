// Package biztime handles the display timezone for rendered message headers.
// All storage and comparisons use UTC; the display timezone only affects how
// timestamps are formatted in migrated issue bodies.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the timezone used when none is configured.
	DefaultTimezone = "America/New_York"

	// HeaderFormat is the timestamp layout used in rendered message headers.
	HeaderFormat = "2006-01-02 15:04:05 MST"
)

var (
	displayLocation *time.Location
	locationOnce    sync.Once
	initErr         error
)

// Init initializes the display timezone. Should be called once at startup.
// If tz is empty, defaults to America/New_York.
func Init(tz string) error {
	locationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		displayLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the display timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize display timezone %q: %v", tz, err))
	}
}

// Location returns the display timezone location, auto-initializing with the
// default if Init was never called.
func Location() *time.Location {
	if displayLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return displayLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FormatHeader formats a UTC timestamp in the display timezone for use in
// rendered message headers.
func FormatHeader(t time.Time) string {
	return t.In(Location()).Format(HeaderFormat)
}

// FormatDate formats a UTC timestamp as a plain date in the display timezone.
func FormatDate(t time.Time) string {
	return t.In(Location()).Format("2006-01-02")
}
