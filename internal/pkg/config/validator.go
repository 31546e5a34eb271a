package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule checks a five-field cron expression
// ("minute hour day month weekday"), e.g. "0 7 * * *".
func ValidateCronSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("invalid cron schedule: cannot be empty")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// ValidateTimezone checks that timezone is a loadable IANA name such as
// "America/New_York". Binaries embed time/tzdata so this does not depend on
// the host's zoneinfo.
func ValidateTimezone(timezone string) error {
	if timezone == "" {
		return fmt.Errorf("invalid timezone: cannot be empty")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("invalid timezone '%s': %w", timezone, err)
	}
	return nil
}

// ValidateDuration checks min <= duration <= max.
func ValidateDuration(duration, min, max time.Duration) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%v) cannot be greater than max (%v)", min, max)
	}
	if duration < min {
		return fmt.Errorf("duration %v is below minimum %v", duration, min)
	}
	if duration > max {
		return fmt.Errorf("duration %v exceeds maximum %v", duration, max)
	}
	return nil
}

// ValidateIntRange checks min <= value <= max.
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if value < min {
		return fmt.Errorf("value %d is below minimum %d", value, min)
	}
	if value > max {
		return fmt.Errorf("value %d exceeds maximum %d", value, max)
	}
	return nil
}

// ValidatePositiveDuration rejects zero and negative durations.
func ValidatePositiveDuration(duration time.Duration) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}
	return nil
}

// ValidateChannel accepts a "#name" channel or a bare channel ID ("C0123ABC").
// Whitespace is never allowed.
func ValidateChannel(channel string) error {
	if channel == "" {
		return fmt.Errorf("channel cannot be empty")
	}
	if strings.ContainsAny(channel, " \t\r\n") {
		return fmt.Errorf("channel '%s' must not contain whitespace", channel)
	}
	if channel == "#" {
		return fmt.Errorf("channel name cannot be empty")
	}
	return nil
}

// ValidateGroupSize checks that the worst-case payload for groupSize articles
// fits within ceiling blocks. maxUnits computes the worst case.
func ValidateGroupSize(groupSize, ceiling int, maxUnits func(int) int) error {
	if groupSize < 1 {
		return fmt.Errorf("group size must be at least 1, got %d", groupSize)
	}
	if worst := maxUnits(groupSize); worst > ceiling {
		return fmt.Errorf("group size %d yields up to %d blocks, above the ceiling of %d", groupSize, worst, ceiling)
	}
	return nil
}
