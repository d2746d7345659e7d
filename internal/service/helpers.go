package service

import (
	"time"
)

var publishAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parsePublishAt(value string) (time.Time, bool) {
	for _, layout := range publishAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func publishTimePassed(value string) bool {
	t, ok := parsePublishAt(value)
	if !ok {
		return false
	}
	return t.Before(time.Now().UTC())
}
