// Package config loads process configuration the way fsm/server.go's
// LoadServerConfig does: hardcoded defaults, overridden by an optional
// YAML file, overridden by environment variables, with an optional
// .env file loaded first via godotenv so local development doesn't
// need to export variables by hand.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables a running htnplan service needs: where to
// find Redis (store) and NATS (bus), the domain to load, and the
// planner's Verbose/VerifyGoals/MaxDepth knobs.
type Config struct {
	AgentID     string `yaml:"agent_id"`
	DomainName  string `yaml:"domain_name"`
	RedisURL    string `yaml:"redis_url"`
	NatsURL     string `yaml:"nats_url"`
	ListenAddr  string `yaml:"listen_addr"`
	Verbose     int    `yaml:"verbose"`
	VerifyGoals bool   `yaml:"verify_goals"`
	MaxDepth    int    `yaml:"max_depth"`
	MaxTries    int    `yaml:"max_tries"`
	// StandingGoalEvery, when non-empty, makes cmd/htnplan start the
	// scheduler package's cron loop; empty disables it. The value is
	// only logged: no standing goal is scheduled with it.
	StandingGoalEvery string `yaml:"standing_goal_every"`
}

func defaults() *Config {
	return &Config{
		AgentID:           "htnplan_1",
		DomainName:        "rooms",
		RedisURL:          "redis://127.0.0.1:6379",
		NatsURL:           "nats://127.0.0.1:4222",
		ListenAddr:        ":8090",
		Verbose:           0,
		VerifyGoals:       true,
		MaxDepth:          0,
		MaxTries:          10,
		StandingGoalEvery: "",
	}
}

// Load builds a Config from, in increasing priority: built-in
// defaults, configPath (a YAML file, ignored if missing), then
// environment variables. envPath (a .env file, ignored if missing) is
// loaded into the process environment first, without replacing
// variables that are already set, so its values also take precedence
// over the YAML file.
func Load(envPath, configPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}

	cfg := defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if strings.Contains(cfg.RedisURL, "localhost") {
		cfg.RedisURL = strings.ReplaceAll(cfg.RedisURL, "localhost", "127.0.0.1")
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTN_AGENT_ID"); v != "" {
		cfg.AgentID = v
	}
	if v := os.Getenv("HTN_DOMAIN"); v != "" {
		cfg.DomainName = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NatsURL = v
	}
	if v := os.Getenv("HTN_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("HTN_VERBOSE")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Verbose = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("HTN_VERIFY_GOALS")); v != "" {
		cfg.VerifyGoals = strings.ToLower(v) == "true"
	}
	if v := strings.TrimSpace(os.Getenv("HTN_MAX_DEPTH")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxDepth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("HTN_MAX_TRIES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTries = n
		}
	}
	if v := os.Getenv("HTN_STANDING_GOAL_EVERY"); v != "" {
		cfg.StandingGoalEvery = v
	}
}
