package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries the simulator tuning values and the handful of knobs the
// demo exposes. The probability and timing defaults are arbitrary tuning
// values preserved as configuration rather than constants.
type Config struct {
	Seed             int64
	TickPeriod       time.Duration
	TypeProbability  float64
	ReplyProbability float64
	StopDelayMin     time.Duration
	StopDelayMax     time.Duration
	MaxMessages      int
	DatasetPath      string
	AvatarHosts      []string
}

func Load() (*Config, error) {
	tickPeriod, err := time.ParseDuration(getEnv("PARLOR_TICK", "8s"))
	if err != nil {
		return nil, fmt.Errorf("PARLOR_TICK: %w", err)
	}
	stopDelayMin, err := time.ParseDuration(getEnv("PARLOR_STOP_DELAY_MIN", "2s"))
	if err != nil {
		return nil, fmt.Errorf("PARLOR_STOP_DELAY_MIN: %w", err)
	}
	stopDelayMax, err := time.ParseDuration(getEnv("PARLOR_STOP_DELAY_MAX", "5s"))
	if err != nil {
		return nil, fmt.Errorf("PARLOR_STOP_DELAY_MAX: %w", err)
	}
	typeProb, err := strconv.ParseFloat(getEnv("PARLOR_TYPE_PROB", "0.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("PARLOR_TYPE_PROB: %w", err)
	}
	replyProb, err := strconv.ParseFloat(getEnv("PARLOR_REPLY_PROB", "0.8"), 64)
	if err != nil {
		return nil, fmt.Errorf("PARLOR_REPLY_PROB: %w", err)
	}
	seed, err := strconv.ParseInt(getEnv("PARLOR_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("PARLOR_SEED: %w", err)
	}
	maxMessages, err := strconv.Atoi(getEnv("PARLOR_MAX_MESSAGES", "500"))
	if err != nil {
		return nil, fmt.Errorf("PARLOR_MAX_MESSAGES: %w", err)
	}

	cfg := &Config{
		Seed:             seed,
		TickPeriod:       tickPeriod,
		TypeProbability:  typeProb,
		ReplyProbability: replyProb,
		StopDelayMin:     stopDelayMin,
		StopDelayMax:     stopDelayMax,
		MaxMessages:      maxMessages,
		DatasetPath:      os.Getenv("PARLOR_DATASET"),
		AvatarHosts:      splitHosts(os.Getenv("PARLOR_AVATAR_HOSTS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TickPeriod <= 0 {
		return fmt.Errorf("PARLOR_TICK must be greater than 0")
	}
	if c.TypeProbability < 0 || c.TypeProbability > 1 {
		return fmt.Errorf("PARLOR_TYPE_PROB must be in [0, 1]")
	}
	if c.ReplyProbability < 0 || c.ReplyProbability > 1 {
		return fmt.Errorf("PARLOR_REPLY_PROB must be in [0, 1]")
	}
	if c.StopDelayMin <= 0 {
		return fmt.Errorf("PARLOR_STOP_DELAY_MIN must be greater than 0")
	}
	if c.StopDelayMax < c.StopDelayMin {
		return fmt.Errorf("PARLOR_STOP_DELAY_MAX must not be less than PARLOR_STOP_DELAY_MIN")
	}
	if c.MaxMessages <= 0 {
		return fmt.Errorf("PARLOR_MAX_MESSAGES must be greater than 0")
	}
	return nil
}

func splitHosts(value string) []string {
	if value == "" {
		return nil
	}
	var hosts []string
	for _, host := range strings.Split(value, ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
