package texasholdem

import (
	"errors"
	"time"
)

// Options configures the blinds and raise rules for a table
type Options struct {
	SmallBlind       int `json:"smallBlind" yaml:"smallBlind"`
	BigBlind         int `json:"bigBlind" yaml:"bigBlind"`
	BettingIncrement int `json:"bettingIncrement" yaml:"bettingIncrement"`
}

// DefaultOptions returns the default options for Texas Hold'em
func DefaultOptions() Options {
	return Options{
		SmallBlind:       5,
		BigBlind:         10,
		BettingIncrement: 10,
	}
}

// ValidateOptions ensures the blinds and betting increment are usable
func ValidateOptions(opts Options) error {
	if opts.SmallBlind <= 0 {
		return errors.New("small blind must be greater than zero")
	}

	if opts.BigBlind <= opts.SmallBlind {
		return errors.New("big blind must be greater than the small blind")
	}

	if opts.BettingIncrement <= 0 {
		return errors.New("betting increment must be greater than zero")
	}

	return nil
}

// Timing controls the winner selection timers
type Timing struct {
	// AutoApproval is how long winner selection must be idle before approval starts
	AutoApproval time.Duration
	// ApprovalTimeout is how long approval may take before selection restarts
	ApprovalTimeout time.Duration
}

// DefaultTiming returns the default winner selection timers
func DefaultTiming() Timing {
	return Timing{
		AutoApproval:    time.Second * 5,
		ApprovalTimeout: time.Second * 30,
	}
}
