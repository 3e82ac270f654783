// Package timeago renders absolute instants into the display strings the
// dashboard uses. All functions are pure: "now" is always a parameter.
package timeago

import (
	"fmt"
	"time"
)

// Relative buckets the distance between t and now:
// under an hour "Just now", under a day "N hour(s) ago", one day "Yesterday",
// under a week "N days ago", under 30 days "N week(s) ago", otherwise an
// absolute date. Singular forms are used exactly at count 1.
func Relative(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = -diff
	}

	days := int(diff.Hours() / 24)
	switch {
	case days == 0:
		hours := int(diff.Hours())
		if hours == 0 {
			return "Just now"
		}
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		return fmt.Sprintf("%d %s ago", weeks, plural(weeks, "week"))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// EventTime renders an upcoming instant for the schedule view:
// "Today, 3:04 PM", "Tomorrow, 3:04 PM", or "Feb 15, 3:04 PM".
func EventTime(t, now time.Time) string {
	clock := t.Format("3:04 PM")
	switch {
	case sameDay(t, now):
		return "Today, " + clock
	case sameDay(t, now.AddDate(0, 0, 1)):
		return "Tomorrow, " + clock
	default:
		return t.Format("Jan 2") + ", " + clock
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
