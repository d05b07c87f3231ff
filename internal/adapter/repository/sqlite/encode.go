package sqlite

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dayFormat = "2006-01-02"

// Frequency day sets are stored as comma-separated integers; empty sets as
// the empty string.

func intsToCSV(values []int) string {
	if len(values) == 0 {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func csvToInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid day list %q: %w", s, err)
		}
		values[i] = v
	}
	return values, nil
}

func weekdaysToCSV(days []time.Weekday) string {
	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	return intsToCSV(ints)
}

func csvToWeekdays(s string) ([]time.Weekday, error) {
	ints, err := csvToInts(s)
	if err != nil {
		return nil, err
	}
	if len(ints) == 0 {
		return nil, nil
	}
	days := make([]time.Weekday, len(ints))
	for i, v := range ints {
		days[i] = time.Weekday(v)
	}
	return days, nil
}

func dayString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(dayFormat)
}

func parseDay(s string) (time.Time, error) {
	return time.Parse(dayFormat, s)
}
