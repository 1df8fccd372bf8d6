// Package config loads the tuning knobs of the repair search from a TOML
// file: per-token costs, the trailing-shift success threshold, the search
// deadline, and the frontier-node cap.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/cpctplus/grammar"
)

// Config is the on-disk tuning configuration for one grammar's recoverer.
// Zero values are filled in by FillDefaults to match the spec's documented
// defaults (token cost 1, PARSE_AT_LEAST = 3, no frontier cap); the EOF
// token's prohibitive default cost is applied by TokenCostFunc.
type Config struct {
	// TokenCosts maps token display name to its repair cost. Tokens absent
	// from this map get DefaultTokenCost, except the grammar's EOF token,
	// which gets the prohibitive maximum cost of 255 unless named here.
	TokenCosts map[string]int `toml:"token_costs"`

	// DefaultTokenCost is the cost used for any token not named in
	// TokenCosts. Defaults to 1.
	DefaultTokenCost int `toml:"default_token_cost"`

	// ParseAtLeast is the number of consecutive Shift repairs that counts
	// as a stabilized parse. Defaults to 3.
	ParseAtLeast int `toml:"parse_at_least"`

	// DeadlineMillis bounds how long one recovery search may run. Defaults
	// to 500ms.
	DeadlineMillis int `toml:"deadline_millis"`

	// MaxFrontierNodes caps the number of search nodes created before the
	// search gives up as though the deadline had fired. Zero (the default)
	// means unlimited.
	MaxFrontierNodes int `toml:"max_frontier_nodes"`
}

// Load reads and parses a TOML configuration file at path, then fills in
// defaults for anything left unset.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg.FillDefaults(), nil
}

// FillDefaults returns a copy of cfg with zero-valued fields replaced by
// their documented defaults.
func (cfg Config) FillDefaults() Config {
	out := cfg
	if out.DefaultTokenCost == 0 {
		out.DefaultTokenCost = 1
	}
	if out.ParseAtLeast == 0 {
		out.ParseAtLeast = 3
	}
	if out.DeadlineMillis == 0 {
		out.DeadlineMillis = 500
	}
	return out
}

// Validate returns an error if cfg holds values that could never produce a
// usable recoverer.
func (cfg Config) Validate() error {
	if cfg.DefaultTokenCost < 0 {
		return fmt.Errorf("default_token_cost must be non-negative, got %d", cfg.DefaultTokenCost)
	}
	for name, cost := range cfg.TokenCosts {
		if cost < 0 {
			return fmt.Errorf("token_costs[%q] must be non-negative, got %d", name, cost)
		}
	}
	if cfg.ParseAtLeast < 1 {
		return fmt.Errorf("parse_at_least must be at least 1, got %d", cfg.ParseAtLeast)
	}
	if cfg.DeadlineMillis < 1 {
		return fmt.Errorf("deadline_millis must be positive, got %d", cfg.DeadlineMillis)
	}
	return nil
}

// Deadline returns the configured deadline as an absolute time measured
// from now.
func (cfg Config) Deadline() time.Time {
	return time.Now().Add(time.Duration(cfg.DeadlineMillis) * time.Millisecond)
}

// TokenCostFunc builds a recovery.TokenCostFunc-compatible closure for g,
// resolving each token's configured cost by its declared name. An EOF token
// not named in TokenCosts costs 255.
func (cfg Config) TokenCostFunc(g *grammar.Grammar) func(grammar.TokenIdx) uint8 {
	costs := make([]uint8, g.NumTokens())
	for i := range costs {
		t := grammar.TokenIdx(i)
		if c, ok := cfg.TokenCosts[g.TokenName(t)]; ok {
			costs[i] = clampCost(c)
		} else if t == g.EOF() {
			costs[i] = 255
		} else {
			costs[i] = clampCost(cfg.DefaultTokenCost)
		}
	}
	return func(t grammar.TokenIdx) uint8 { return costs[t] }
}

func clampCost(c int) uint8 {
	if c > 255 {
		return 255
	}
	if c < 0 {
		return 0
	}
	return uint8(c)
}
