package scoring

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
)

const isoDate = "2006-01-02"

// Streaks computes the current and maximum participation streaks from the
// games' challenge dates. Dates are deduplicated and treated as calendar days
// in UTC; day arithmetic runs on exact UTC midnight timestamps so daylight
// saving and timezone drift cannot skew the result.
//
// The current streak counts consecutive days backward from the most recent
// played date, and is zero unless that date is today or yesterday (UTC).
// The max streak is the longest consecutive-day run anywhere in the history,
// including the current one.
func Streaks(dates []string, clock clockwork.Clock) (current, longest int) {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0, 0
	}
	// Descending: most recent first.
	sort.Sort(sort.Reverse(sort.IntSlice(days)))

	today := int(clock.Now().UTC().Truncate(24*time.Hour).Unix() / 86400)
	if gap := today - days[0]; gap == 0 || gap == 1 {
		current = 1
		for i := 1; i < len(days); i++ {
			if days[i-1]-days[i] != 1 {
				break
			}
			current++
		}
	}

	run := 1
	longest = 1
	for i := 1; i < len(days); i++ {
		if days[i-1]-days[i] == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}
	return current, longest
}

// uniqueDays parses ISO dates into UTC day numbers, dropping malformed dates
// and duplicates.
func uniqueDays(dates []string) []int {
	seen := make(map[int]struct{}, len(dates))
	days := make([]int, 0, len(dates))
	for _, raw := range dates {
		t, err := time.ParseInLocation(isoDate, raw, time.UTC)
		if err != nil {
			continue
		}
		day := int(t.Unix() / 86400)
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days
}
