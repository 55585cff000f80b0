// Package config loads solver tuning parameters the way
// noah-isme-sma-adp-api/pkg/config.Load does: viper over environment
// variables with sane defaults, no required config file.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// SolverConfig carries the knobs the builder hands to the solver, plus the
// IIS extraction timeout.
type SolverConfig struct {
	TimeLimit  time.Duration
	Threads    int
	IISTimeout time.Duration
	SkipIIS    bool

	LogLevel  string
	LogPretty bool
}

// Load reads COURSESCHED_SOLVER_* and COURSESCHED_LOG_* environment
// variables via viper, applying defaults when unset.
func Load() (*SolverConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("COURSESCHED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &SolverConfig{
		TimeLimit:  v.GetDuration("SOLVER_TIME_LIMIT"),
		Threads:    v.GetInt("SOLVER_THREADS"),
		IISTimeout: v.GetDuration("SOLVER_IIS_TIMEOUT"),
		SkipIIS:    v.GetBool("SOLVER_SKIP_IIS"),
		LogLevel:   v.GetString("LOG_LEVEL"),
		LogPretty:  v.GetBool("LOG_PRETTY"),
	}

	if cfg.TimeLimit <= 0 {
		return nil, errors.New("SOLVER_TIME_LIMIT must be > 0")
	}
	if cfg.Threads <= 0 {
		return nil, errors.New("SOLVER_THREADS must be > 0")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SOLVER_TIME_LIMIT", "60s")
	v.SetDefault("SOLVER_THREADS", 4)
	v.SetDefault("SOLVER_IIS_TIMEOUT", "20s")
	v.SetDefault("SOLVER_SKIP_IIS", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", true)
}
