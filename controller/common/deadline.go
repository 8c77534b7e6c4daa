package common

import (
	"fmt"
	"time"
)

const deadlineLayout = "2006-01-02T15:04"

// ParseDeadline parses the datetime-local form value used by task deadlines.
// Empty input means no deadline.
func ParseDeadline(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(deadlineLayout, s)
	if err != nil {
		// Clients sending full RFC3339 timestamps are accepted too.
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("invalid deadline format: %s", s)
		}
	}
	return &t, nil
}
