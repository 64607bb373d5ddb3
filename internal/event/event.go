// Package event holds the route event rules: the activity window, which
// event is current, and slug format.
package event

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"time"
)

// DateLayout is the calendar-date format used for activity windows.
const DateLayout = "2006-01-02"

const maxSlugLen = 50

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ErrInvalidSlug is returned by CheckSlug.
var ErrInvalidSlug = errors.New("slug must be 1-50 characters of lowercase letters, digits and hyphens")

// ActiveDates is an inclusive [Start, End] window of YYYY-MM-DD dates. The
// zero value is an event with no window, which is never active.
type ActiveDates struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Event is a time-boxed voting campaign.
type Event struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	ActiveDates ActiveDates `json:"active_dates"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Today formats t as the calendar date used for activity checks (UTC).
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// Contains compares as strings; YYYY-MM-DD sorts chronologically.
func (d ActiveDates) Contains(day string) bool {
	if d.Start == "" || d.End == "" {
		return false
	}
	return day >= d.Start && day <= d.End
}

// IsZero reports whether no window is set.
func (d ActiveDates) IsZero() bool {
	return d.Start == "" && d.End == ""
}

// UnmarshalJSON accepts {"start":..,"end":..}, ["start","end"], ["day"] and null.
func (d *ActiveDates) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = ActiveDates{}
		return nil
	}

	switch data[0] {
	case '[':
		var days []string
		if err := json.Unmarshal(data, &days); err != nil {
			return fmt.Errorf("active dates: %w", err)
		}
		switch len(days) {
		case 0:
			*d = ActiveDates{}
		case 1:
			*d = ActiveDates{Start: days[0], End: days[0]}
		default:
			*d = ActiveDates{Start: days[0], End: days[1]}
		}
		return nil
	case '{':
		type plain ActiveDates
		var p plain
		if err := json.Unmarshal(data, &p); err != nil {
			return fmt.Errorf("active dates: %w", err)
		}
		*d = ActiveDates(p)
		return nil
	default:
		return fmt.Errorf("active dates: unexpected JSON %q", data)
	}
}

// Value stores the window as a JSON object column.
func (d ActiveDates) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	type plain ActiveDates
	b, err := json.Marshal(plain(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads either JSON form back from the database.
func (d *ActiveDates) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = ActiveDates{}
		return nil
	case []byte:
		return d.UnmarshalJSON(v)
	case string:
		return d.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("active dates: cannot scan %T", src)
	}
}

// Validate checks both ends parse as dates and are ordered.
func (d ActiveDates) Validate() error {
	if d.IsZero() {
		return nil
	}
	start, err := time.Parse(DateLayout, d.Start)
	if err != nil {
		return fmt.Errorf("invalid start date %q: %w", d.Start, err)
	}
	end, err := time.Parse(DateLayout, d.End)
	if err != nil {
		return fmt.Errorf("invalid end date %q: %w", d.End, err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", d.End, d.Start)
	}
	return nil
}

// IsActive reports whether today (YYYY-MM-DD) falls inside the event window.
func IsActive(e Event, today string) bool {
	return e.ActiveDates.Contains(today)
}

// SelectActive returns the most recently created active event, falling back
// to the most recent event overall. Nil when there are no events.
func SelectActive(events []Event, today string) *Event {
	if len(events) == 0 {
		return nil
	}
	sorted := newestFirst(events)
	for i := range sorted {
		if IsActive(sorted[i], today) {
			return &sorted[i]
		}
	}
	return &sorted[0]
}

// Partition splits events into active and inactive, newest first.
func Partition(events []Event, today string) (active, inactive []Event) {
	for _, e := range newestFirst(events) {
		if IsActive(e, today) {
			active = append(active, e)
		} else {
			inactive = append(inactive, e)
		}
	}
	return active, inactive
}

func newestFirst(events []Event) []Event {
	out := make([]Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ValidSlug reports whether s is a usable URL slug.
func ValidSlug(s string) bool {
	return len(s) >= 1 && len(s) <= maxSlugLen && slugPattern.MatchString(s)
}

// CheckSlug is ValidSlug as an error.
func CheckSlug(s string) error {
	if !ValidSlug(s) {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, s)
	}
	return nil
}
