package postgres

import "time"

// Frequency day sets are stored as INTEGER[] columns via pq.Array, which
// works on int64 slices.

func intsToInt64s(values []int) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

func int64sToInts(values []int64) []int {
	if len(values) == 0 {
		return nil
	}
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(v)
	}
	return out
}

func weekdaysToInt64s(days []time.Weekday) []int64 {
	out := make([]int64, len(days))
	for i, d := range days {
		out[i] = int64(d)
	}
	return out
}

func int64sToWeekdays(values []int64) []time.Weekday {
	if len(values) == 0 {
		return nil
	}
	out := make([]time.Weekday, len(values))
	for i, v := range values {
		out[i] = time.Weekday(v)
	}
	return out
}
