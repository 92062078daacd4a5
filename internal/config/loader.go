package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the scout
// scheduler service.
type Config struct {
	HTTPPort   int
	SQLiteDSN  string
	SessionTTL time.Duration

	// LeaderEmail and LeaderPassword bootstrap the leader account on first
	// start. The password is hashed before it ever reaches storage.
	LeaderEmail    string
	LeaderPassword string

	// WriterAPIKey enables the optional AI plan summary when non-empty.
	WriterAPIKey  string
	WriterBaseURL string
	WriterModel   string
	SuggestionTTL time.Duration
	SuggestionCap int

	// PlanWindowDays is the default search window length when a plan request
	// does not supply one.
	PlanWindowDays int
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; missing required values and
// unparsable values are each collected so one error reports everything wrong
// at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:scoutscheduler.db?_foreign_keys=on",
		SessionTTL:     24 * time.Hour,
		WriterBaseURL:  "https://api.writer.com",
		WriterModel:    "palmyra-base",
		SuggestionTTL:  10 * time.Minute,
		SuggestionCap:  100,
		PlanWindowDays: 30,
	}

	missing := make([]string, 0, 2)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SCOUT_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SCOUT_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SCOUT_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("SCOUT_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "SCOUT_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if email := strings.TrimSpace(os.Getenv("SCOUT_LEADER_EMAIL")); email == "" {
		missing = append(missing, "SCOUT_LEADER_EMAIL")
	} else {
		cfg.LeaderEmail = email
	}

	if password := os.Getenv("SCOUT_LEADER_PASSWORD"); strings.TrimSpace(password) == "" {
		missing = append(missing, "SCOUT_LEADER_PASSWORD")
	} else {
		cfg.LeaderPassword = password
	}

	cfg.WriterAPIKey = strings.TrimSpace(os.Getenv("SCOUT_WRITER_API_KEY"))
	if base := strings.TrimSpace(os.Getenv("SCOUT_WRITER_BASE_URL")); base != "" {
		cfg.WriterBaseURL = base
	}
	if model := strings.TrimSpace(os.Getenv("SCOUT_WRITER_MODEL")); model != "" {
		cfg.WriterModel = model
	}

	if ttlValue := strings.TrimSpace(os.Getenv("SCOUT_SUGGESTION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "SCOUT_SUGGESTION_TTL")
		} else {
			cfg.SuggestionTTL = ttl
		}
	}

	if capValue := strings.TrimSpace(os.Getenv("SCOUT_SUGGESTION_CAP")); capValue != "" {
		capEntries, err := strconv.Atoi(capValue)
		if err != nil || capEntries <= 0 {
			invalid = append(invalid, "SCOUT_SUGGESTION_CAP")
		} else {
			cfg.SuggestionCap = capEntries
		}
	}

	if daysValue := strings.TrimSpace(os.Getenv("SCOUT_PLAN_WINDOW_DAYS")); daysValue != "" {
		days, err := strconv.Atoi(daysValue)
		if err != nil || days <= 0 {
			invalid = append(invalid, "SCOUT_PLAN_WINDOW_DAYS")
		} else {
			cfg.PlanWindowDays = days
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
