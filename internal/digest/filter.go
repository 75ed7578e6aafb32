// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// DateLayout is the ISO calendar date format used for flags and labels.
const DateLayout = "2006-01-02"

// DefaultTargetDate returns the UTC calendar day before now.
func DefaultTargetDate(now time.Time) time.Time {
	return TruncateDate(now).AddDate(0, 0, -1)
}

// ParseTargetDate parses an explicit target date. ISO dates are expected;
// other unambiguous layouts accepted by dateparse also work. The result is
// midnight UTC of the named day, with no timezone conversion.
func ParseTargetDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// FilterByDate keeps records whose PublishDate is exactly the target UTC day
// and returns how many were discarded.
func FilterByDate(records []types.PaperRecord, target time.Time) ([]types.PaperRecord, int) {
	day := TruncateDate(target)
	out := make([]types.PaperRecord, 0, len(records))
	for _, r := range records {
		if r.PublishDate.Equal(day) {
			out = append(out, r)
		}
	}
	return out, len(records) - len(out)
}
