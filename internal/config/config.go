package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the API process.
// All values come from env (plus an optional .env file loaded in main).
// No business logic should depend on raw environment variables.
//
// Twilio, Gemini and Redis are OPTIONAL: a missing credential disables the
// corresponding feature ("test mode") instead of failing startup.
type Config struct {
	App    AppConfig
	Twilio TwilioConfig
	Gemini GeminiConfig
	Redis  RedisConfig
}

type AppConfig struct {
	Env  string
	Port int

	// DataDir holds the three JSON collection files.
	DataDir string

	// ServerURL is the public base URL Twilio calls back into.
	ServerURL string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string

	// FromNumber is the purchased caller-id number, E.164.
	FromNumber string
}

type GeminiConfig struct {
	APIKey string

	// Models overrides the default fallback list, comma separated.
	Models []string
}

type RedisConfig struct {
	Host string
	Port int

	// StatsTTL bounds staleness of the cached call stats.
	StatsTTL time.Duration
}

func Load() (Config, error) {
	c := Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	if c.App.Env == "" {
		c.App.Env = "local"
	}
	{
		n, err := optInt("APP_PORT", 8000)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.App.Port = n
	}
	c.App.DataDir = strings.TrimSpace(os.Getenv("DATA_DIR"))
	if c.App.DataDir == "" {
		c.App.DataDir = "data"
	}
	c.App.ServerURL = strings.TrimRight(strings.TrimSpace(os.Getenv("SERVER_URL")), "/")
	if c.App.ServerURL == "" {
		c.App.ServerURL = fmt.Sprintf("http://localhost:%d", c.App.Port)
	}

	c.Twilio.AccountSID = strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID"))
	c.Twilio.AuthToken = strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN"))
	c.Twilio.FromNumber = strings.TrimSpace(os.Getenv("TWILIO_PHONE_NUMBER"))

	c.Gemini.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODELS")); v != "" {
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				c.Gemini.Models = append(c.Gemini.Models, m)
			}
		}
	}

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	{
		n, err := optInt("REDIS_PORT", 6379)
		n, parseErrs = appendParseErr(parseErrs, n, err)
		c.Redis.Port = n
	}
	c.Redis.StatsTTL = optDuration("STATS_CACHE_TTL", 5*time.Second)

	if err := joinErrors(parseErrs); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	var errs []error

	if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}
	if c.App.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}

	// Twilio is all-or-nothing: a partial credential set is an operator
	// mistake, not test mode.
	set := 0
	for _, v := range []string{c.Twilio.AccountSID, c.Twilio.AuthToken, c.Twilio.FromNumber} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		errs = append(errs, errors.New("TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER must be set together"))
	}

	if c.Redis.Host != "" && (c.Redis.Port <= 0 || c.Redis.Port > 65535) {
		errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
	}

	return joinErrors(errs)
}

func (c Config) IsProduction() bool { return c.App.Env == "production" }

func (c Config) HTTPAddr() string { return fmt.Sprintf(":%d", c.App.Port) }

// TwilioEnabled reports whether the full credential trio is present.
func (c Config) TwilioEnabled() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.FromNumber != ""
}

func (c Config) GeminiEnabled() bool { return c.Gemini.APIKey != "" }

func (c Config) RedisEnabled() bool { return c.Redis.Host != "" }

func (c Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// VoiceURL is the TwiML endpoint registered on every outbound call.
func (c Config) VoiceURL() string { return c.App.ServerURL + "/api/voice" }

// StatusCallbackURL receives Twilio status events.
func (c Config) StatusCallbackURL() string { return c.App.ServerURL + "/api/call_status" }

func optInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func optDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func appendParseErr(errs []error, n int, err error) (int, []error) {
	if err != nil {
		errs = append(errs, err)
	}
	return n, errs
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
