package simtime

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Config configures a HostStealPolicy.
type Config struct {
	// NumWorkers sizes the worker slot table's backing array up front so
	// the first NumWorkers threads to call AddHost or Pop don't each pay
	// for a slot-table reallocation. It is a capacity hint, not a live
	// registration: a thread index isn't a steal candidate until AddHost
	// or Pop actually touches it, so setting this higher than the thread
	// count a caller actually drives can't leave an undriven phantom
	// victim for other threads to spin against.
	NumWorkers int
	// SpinYieldBudget bounds how many times a thief calls runtime.Gosched()
	// while waiting for a victim to finish its round-start rotation, before
	// giving up on that victim for this steal attempt. Zero means spin
	// without limit, matching the original's unbounded sched_yield loop.
	SpinYieldBudget int
	// Logger receives structured trace/debug events: causality bumps, host
	// migrations on a steal, and next-event-time computations. Defaults to a disabled logger so the policy is
	// silent unless a caller opts in with WithLogger.
	Logger zerolog.Logger
}

// DefaultConfig returns a Config that reserves slot-table capacity for
// GOMAXPROCS workers, an unbounded steal spin, and logging disabled.
func DefaultConfig() Config {
	return Config{
		NumWorkers:      runtime.GOMAXPROCS(0),
		SpinYieldBudget: 0,
		Logger:          zerolog.Nop(),
	}
}

// Option customizes a Config passed to NewHostStealPolicy.
type Option func(*Config)

// WithLogger sets the structured logger used for scheduling diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// WithNumWorkers overrides the worker slot table's reserved capacity at
// construction time.
func WithNumWorkers(n int) Option {
	return func(c *Config) { c.NumWorkers = n }
}

// WithSpinYieldBudget overrides how many times a thief yields while
// waiting for a victim's rotation before giving up on that victim.
func WithSpinYieldBudget(n int) Option {
	return func(c *Config) { c.SpinYieldBudget = n }
}
