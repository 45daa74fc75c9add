// Package config reads wordlebot settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/tiggercwh/go-wordlebot/solver"
)

type Config struct {
	Addr     string `env:"WORDLEBOT_ADDR" envDefault:":8080"`
	WordList string `env:"WORDLEBOT_WORDLIST"`
	LogLevel string `env:"WORDLEBOT_LOG_LEVEL" envDefault:"info"`

	Suggestions    int     `env:"WORDLEBOT_SUGGESTIONS" envDefault:"15"`
	Lookahead      bool    `env:"WORDLEBOT_LOOKAHEAD" envDefault:"false"`
	LookaheadWidth int     `env:"WORDLEBOT_LOOKAHEAD_WIDTH" envDefault:"10"`
	Penalty        float64 `env:"WORDLEBOT_PENALTY" envDefault:"0.1"`
	Workers        int     `env:"WORDLEBOT_WORKERS" envDefault:"0"`
	MaxRounds      int     `env:"WORDLEBOT_MAX_ROUNDS" envDefault:"6"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) SuggestOptions() solver.SuggestOptions {
	return solver.SuggestOptions{
		N:              c.Suggestions,
		Penalty:        c.Penalty,
		Lookahead:      c.Lookahead,
		LookaheadWidth: c.LookaheadWidth,
	}
}

// SolverOptions carries the engine tuning knobs.
func (c Config) SolverOptions() []solver.Option {
	return []solver.Option{
		solver.WithWorkers(c.Workers),
		solver.WithPenalty(c.Penalty),
	}
}
