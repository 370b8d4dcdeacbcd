// Package slots derives the bookable times of a doctor's day from a fixed
// template and the set of times already taken.
package slots

import (
	"fmt"
	"time"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
)

const (
	DateLayout  = "2006-01-02"
	labelLayout = "15:04"
)

// Window is a half-open range of slot start times, e.g. 09:00 up to 13:00.
type Window struct {
	From string
	To   string
}

// Template is an immutable ordered list of slot labels ("HH:MM").
type Template struct {
	labels []string
	index  map[string]int
}

// Default is the clinic day: 09:00 to 16:30 every 30 minutes with the lunch
// hour 13:00-14:00 left out.
var Default = MustNew(30*time.Minute,
	Window{From: "09:00", To: "13:00"},
	Window{From: "14:00", To: "17:00"},
)

func New(step time.Duration, windows ...Window) (Template, error) {
	if step <= 0 {
		return Template{}, fmt.Errorf("slots: step must be positive")
	}

	t := Template{index: map[string]int{}}
	for _, w := range windows {
		from, err := time.Parse(labelLayout, w.From)
		if err != nil {
			return Template{}, fmt.Errorf("slots: window start %q: %w", w.From, err)
		}
		to, err := time.Parse(labelLayout, w.To)
		if err != nil {
			return Template{}, fmt.Errorf("slots: window end %q: %w", w.To, err)
		}

		for at := from; at.Before(to); at = at.Add(step) {
			label := at.Format(labelLayout)
			if _, dup := t.index[label]; dup {
				return Template{}, fmt.Errorf("slots: %s appears in more than one window", label)
			}
			t.index[label] = len(t.labels)
			t.labels = append(t.labels, label)
		}
	}
	return t, nil
}

func MustNew(step time.Duration, windows ...Window) Template {
	t, err := New(step, windows...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Template) Labels() []string {
	out := make([]string, len(t.labels))
	copy(out, t.labels)
	return out
}

func (t Template) Len() int {
	return len(t.labels)
}

func (t Template) Contains(label string) bool {
	_, ok := t.index[label]
	return ok
}

// Free returns the template labels missing from booked, in template order.
// Booked values outside the template are ignored.
func (t Template) Free(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b] = struct{}{}
	}

	out := make([]string, 0, len(t.labels))
	for _, label := range t.labels {
		if _, ok := taken[label]; !ok {
			out = append(out, label)
		}
	}
	return out
}

// ParseDate accepts only the canonical YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil || d.Format(DateLayout) != s {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", apperr.ErrInvalidRequest, s)
	}
	return d, nil
}
