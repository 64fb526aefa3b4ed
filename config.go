package boxtree

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// DefaultLeafCapacity is the default maximum item count of a leaf before
	// it is split into a branch.
	DefaultLeafCapacity = 256
	// DefaultDepthLimit is the default hard cap on tree depth. It guarantees
	// termination when many items collide on near-coincident coordinates.
	DefaultDepthLimit = 32
)

// Environment variables consulted by ConfigFromEnv.
const (
	EnvLeafCapacity = "BOXTREE_LEAF_CAPACITY"
	EnvDepthLimit   = "BOXTREE_DEPTH_LIMIT"
)

// Config configures a box search tree. The zero value selects the package
// defaults for every field.
type Config struct {
	// LeafCapacity is the maximum number of items a leaf holds before it is
	// split, except at the depth limit, where leaves grow without bound.
	LeafCapacity int
	// DepthLimit caps the tree depth; the root is at depth 0.
	DepthLimit int
}

func (cfg Config) normalized() Config {
	if cfg.LeafCapacity == 0 {
		cfg.LeafCapacity = DefaultLeafCapacity
	}
	if cfg.DepthLimit == 0 {
		cfg.DepthLimit = DefaultDepthLimit
	}
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.LeafCapacity < 1 {
		return fmt.Errorf("%w: leaf capacity must be positive, have %d", ErrInvalidConfig,
			cfg.LeafCapacity)
	}
	if cfg.DepthLimit < 1 {
		return fmt.Errorf("%w: depth limit must be positive, have %d", ErrInvalidConfig,
			cfg.DepthLimit)
	}
	return nil
}

// ConfigFromEnv reads tree defaults from the process environment and returns
// them as an explicit Config. Unset or unusable values fall back to the
// package defaults; there is no hidden global state, and callers decide when
// (usually once, at startup) the environment is consulted.
func ConfigFromEnv() Config {
	return Config{
		LeafCapacity: intFromEnv(EnvLeafCapacity, DefaultLeafCapacity),
		DepthLimit:   intFromEnv(EnvDepthLimit, DefaultDepthLimit),
	}
}

func intFromEnv(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		tracer().Infof("boxtree config: ignoring %s=%q, using %d", key, value, fallback)
		return fallback
	}
	return n
}
