package config

import (
	"testing"
	"time"
)

func TestValidate_DefaultsAreRunnable(t *testing.T) {
	c := Config{App: AppConfig{Env: "local", Port: 8000, DataDir: "data"}}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.TwilioEnabled() || c.GeminiEnabled() || c.RedisEnabled() {
		t.Fatalf("bare config must run in test mode")
	}
}

func TestValidate_RejectsUnknownEnv(t *testing.T) {
	c := Config{App: AppConfig{Env: "prod", Port: 8000, DataDir: "data"}}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for unknown env")
	}
}

func TestValidate_PartialTwilioCredentialsRejected(t *testing.T) {
	c := Config{
		App:    AppConfig{Env: "local", Port: 8000, DataDir: "data"},
		Twilio: TwilioConfig{AccountSID: "AC123", AuthToken: "", FromNumber: ""},
	}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for partial twilio credentials")
	}
}

func TestValidate_FullTwilioCredentialsEnable(t *testing.T) {
	c := Config{
		App:    AppConfig{Env: "local", Port: 8000, DataDir: "data"},
		Twilio: TwilioConfig{AccountSID: "AC123", AuthToken: "tok", FromNumber: "+15550001111"},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !c.TwilioEnabled() {
		t.Fatalf("expected twilio enabled")
	}
}

func TestCallbackURLs(t *testing.T) {
	c := Config{App: AppConfig{ServerURL: "https://dialer.example.com"}}
	if got := c.VoiceURL(); got != "https://dialer.example.com/api/voice" {
		t.Fatalf("unexpected voice url %q", got)
	}
	if got := c.StatusCallbackURL(); got != "https://dialer.example.com/api/call_status" {
		t.Fatalf("unexpected callback url %q", got)
	}
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("DATA_DIR", "")
	t.Setenv("SERVER_URL", "")
	t.Setenv("TWILIO_ACCOUNT_SID", "")
	t.Setenv("TWILIO_AUTH_TOKEN", "")
	t.Setenv("TWILIO_PHONE_NUMBER", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODELS", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("STATS_CACHE_TTL", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.App.Env != "local" || c.App.Port != 8000 || c.App.DataDir != "data" {
		t.Fatalf("unexpected defaults: %+v", c.App)
	}
	if c.App.ServerURL != "http://localhost:8000" {
		t.Fatalf("unexpected server url %q", c.App.ServerURL)
	}
	if c.Redis.StatsTTL != 5*time.Second {
		t.Fatalf("unexpected stats ttl %v", c.Redis.StatsTTL)
	}
}

func TestLoad_ParsesGeminiModels(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("GEMINI_MODELS", " gemini-1.5-flash , gemini-pro ,")

	c, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(c.Gemini.Models) != 2 || c.Gemini.Models[0] != "gemini-1.5-flash" || c.Gemini.Models[1] != "gemini-pro" {
		t.Fatalf("unexpected models: %v", c.Gemini.Models)
	}
}
