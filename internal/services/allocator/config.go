package allocator

import (
	"fmt"
	"strings"
)

const (
	StrategyMax     = "max"
	StrategyCounter = "counter"

	DefaultMaxAttempts = 3
)

// Config selects the allocation strategy and how often a colliding insert is retried.
type Config struct {
	Strategy    string
	MaxAttempts int
}

func DefaultConfig() *Config {
	return &Config{Strategy: StrategyMax, MaxAttempts: DefaultMaxAttempts}
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Strategy) {
	case StrategyMax, StrategyCounter:
	default:
		return fmt.Errorf("unknown id allocator %q (want %q or %q)", c.Strategy, StrategyMax, StrategyCounter)
	}
	if c.MaxAttempts < 2 {
		return fmt.Errorf("id allocator attempts must be at least 2, got %d", c.MaxAttempts)
	}
	return nil
}
