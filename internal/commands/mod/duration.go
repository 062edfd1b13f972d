package mod

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^(\d+)(초|분|시간|일|주|년)$`)

// unitMillis maps each duration unit to milliseconds. A year is 365 days.
var unitMillis = map[string]int64{
	"초":  1000,
	"분":  60 * 1000,
	"시간": 60 * 60 * 1000,
	"일":  24 * 60 * 60 * 1000,
	"주":  7 * 24 * 60 * 60 * 1000,
	"년":  365 * 24 * 60 * 60 * 1000,
}

// ParseDuration parses "<integer><unit>" such as "30초", "10분" or "1년".
// Zero amounts are rejected.
func ParseDuration(s string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}

	ms := unitMillis[m[2]]
	if n > math.MaxInt64/ms/int64(time.Millisecond) {
		return 0, fmt.Errorf("duration %q is too long", s)
	}
	return time.Duration(n*ms) * time.Millisecond, nil
}

// FormatDuration renders d with the largest unit that divides it exactly
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	for _, unit := range []string{"년", "주", "일", "시간", "분", "초"} {
		if size := unitMillis[unit]; ms >= size && ms%size == 0 {
			return fmt.Sprintf("%d%s", ms/size, unit)
		}
	}
	return d.String()
}
