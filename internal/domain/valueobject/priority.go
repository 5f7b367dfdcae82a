package valueobject

import (
	"fmt"
	"strings"
)

// Priority is the importance level of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities returns every priority from lowest to highest
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority converts a string to a Priority
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority '%s': must be one of: low, medium, high", s)
	}
	return p, nil
}

// IsValid checks if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Next cycles low -> medium -> high -> low
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

func (p Priority) String() string {
	return string(p)
}

// PriorityFilter selects tasks by priority; "all" disables the filter
type PriorityFilter string

const (
	FilterAll    PriorityFilter = "all"
	FilterLow    PriorityFilter = PriorityFilter(PriorityLow)
	FilterMedium PriorityFilter = PriorityFilter(PriorityMedium)
	FilterHigh   PriorityFilter = PriorityFilter(PriorityHigh)
)

// ParsePriorityFilter converts a string to a PriorityFilter. Empty means all.
func ParsePriorityFilter(s string) (PriorityFilter, error) {
	f := PriorityFilter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FilterAll, nil
	}
	if !f.IsValid() {
		return "", fmt.Errorf("invalid priority filter '%s': must be one of: all, low, medium, high", s)
	}
	return f, nil
}

// IsValid checks if the filter is known
func (f PriorityFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterLow, FilterMedium, FilterHigh:
		return true
	default:
		return false
	}
}

// Matches reports whether a task with priority p passes the filter
func (f PriorityFilter) Matches(p Priority) bool {
	return f == FilterAll || Priority(f) == p
}

// Next cycles all -> low -> medium -> high -> all
func (f PriorityFilter) Next() PriorityFilter {
	switch f {
	case FilterAll:
		return FilterLow
	case FilterLow:
		return FilterMedium
	case FilterMedium:
		return FilterHigh
	default:
		return FilterAll
	}
}

func (f PriorityFilter) String() string {
	return string(f)
}
