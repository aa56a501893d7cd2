package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // company zones resolve even on hosts without zoneinfo

	"github.com/caarlos0/env/v11"

	"github.com/PreethamGowda-B/SmartERP-FrontEnd-sub000/internal/attendance/policy"
)

type Config struct {
	HTTPAddr string `env:"ATTENDANCE_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr string `env:"ATTENDANCE_GRPC_ADDR" envDefault:":9090"` // "" disables gRPC

	// DB
	Env    string `env:"ATTENDANCE_ENV" envDefault:"dev"`      // "dev" | "prod"
	Store  string `env:"ATTENDANCE_STORE" envDefault:"sqlite"` // "sqlite" | "memory"
	DBPath string `env:"ATTENDANCE_DB_PATH" envDefault:"./data/attendance.db"`

	// Shift policy
	Timezone        string  `env:"ATTENDANCE_TIMEZONE" envDefault:"Asia/Jakarta"`
	ShiftStart      string  `env:"ATTENDANCE_SHIFT_START" envDefault:"09:00"`
	LateCutoff      string  `env:"ATTENDANCE_LATE_CUTOFF" envDefault:"11:00"`
	ShiftEnd        string  `env:"ATTENDANCE_SHIFT_END" envDefault:"19:00"`
	HalfDayRule     string  `env:"ATTENDANCE_HALF_DAY_RULE" envDefault:"min_hours"`
	MinFullDayHours float64 `env:"ATTENDANCE_MIN_FULL_DAY_HOURS" envDefault:"4"`

	SweepInterval time.Duration `env:"ATTENDANCE_SWEEP_INTERVAL" envDefault:"1m"`

	KnownEmployees []string `env:"ATTENDANCE_KNOWN_EMPLOYEES" envSeparator:","`
	Holidays       []string `env:"ATTENDANCE_HOLIDAYS" envSeparator:","`

	// JWTSecret enables bearer-token auth; empty falls back to identity headers.
	JWTSecret   string `env:"ATTENDANCE_JWT_SECRET"`
	RecentLimit int    `env:"ATTENDANCE_RECENT_LIMIT" envDefault:"20"`

	// OTelEndpoint is the OTLP/HTTP collector; empty disables export.
	OTelEndpoint string `env:"ATTENDANCE_OTEL_ENDPOINT"`
	ServiceName  string `env:"ATTENDANCE_SERVICE_NAME" envDefault:"attendance-server"`
}

// FromEnv parses ATTENDANCE_* variables. Unknown env or store values fall
// back to the defaults; malformed numbers and durations are errors.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	if cfg.Store != "memory" {
		cfg.Store = "sqlite"
	}
	cfg.KnownEmployees = trimAll(cfg.KnownEmployees)
	cfg.Holidays = trimAll(cfg.Holidays)
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = 20
	}
	return cfg, nil
}

// Policy builds and validates the shift policy described by cfg.
func (c Config) Policy() (policy.Policy, error) {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return policy.Policy{}, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}

	p := policy.Default(loc)
	if p.ShiftStart, err = policy.ParseTimeOfDay(c.ShiftStart); err != nil {
		return policy.Policy{}, fmt.Errorf("shift start: %w", err)
	}
	if p.LateCutoff, err = policy.ParseTimeOfDay(c.LateCutoff); err != nil {
		return policy.Policy{}, fmt.Errorf("late cutoff: %w", err)
	}
	if p.ShiftEnd, err = policy.ParseTimeOfDay(c.ShiftEnd); err != nil {
		return policy.Policy{}, fmt.Errorf("shift end: %w", err)
	}
	p.HalfDayRule = policy.HalfDayRule(strings.ToLower(strings.TrimSpace(c.HalfDayRule)))
	p.MinFullDayHours = c.MinFullDayHours

	if err := p.Validate(); err != nil {
		return policy.Policy{}, err
	}
	return p, nil
}

func trimAll(vs []string) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
