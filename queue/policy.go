package queue

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPolicy = errors.New("invalid scheduling policy")

// Policy selects which record leaves the waiting queue next.
type Policy int

const (
	// FCFS removes records in arrival order.
	FCFS Policy = iota
	// SJF removes the record with the smallest file first.
	SJF
)

// ParsePolicy accepts "FCFS" or "SJF" in any case. An empty string means FCFS.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "FCFS":
		return FCFS, nil
	case "SJF":
		return SJF, nil
	}
	return FCFS, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
}

func (p Policy) String() string {
	if p == SJF {
		return "SJF"
	}
	return "FCFS"
}
