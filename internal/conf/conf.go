// Package conf loads service configuration from the environment.
package conf

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/upseller/upseller/internal/biz/domain"
)

const envPrefix = "UPSELLER"

// MasterConfig configures the master orchestrator service
type MasterConfig struct {
	Port             int    `envconfig:"MASTER_PORT" default:"4000"`
	MessengerBaseURL string `envconfig:"MESSENGER_URL" default:"http://localhost:4001"`
	CalendarBaseURL  string `envconfig:"CALENDAR_URL" default:"http://localhost:4002"`
	Mode             string `envconfig:"MODE" default:"mock"`
}

// MessengerConfig configures the messenger service
type MessengerConfig struct {
	Port int `envconfig:"MESSENGER_PORT" default:"4001"`

	// OpenAI configuration. An empty API key disables the generator
	// strategy and the service answers with rule-based replies only.
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL"`

	Mode string `envconfig:"MODE" default:"mock"`
}

// CalendarConfig configures the calendar service
type CalendarConfig struct {
	Port int `envconfig:"CALENDAR_PORT" default:"4002"`

	AppointmentsDBPath string `envconfig:"APPOINTMENTS_DB_PATH" default:"appointments.db"`
	TokensDBPath       string `envconfig:"TOKENS_DB_PATH" default:"tokens.db"`
	ICSDir             string `envconfig:"ICS_DIR" default:"ics"`

	// Google Calendar OAuth configuration
	GoogleCalendarID   string `envconfig:"GOOGLE_CALENDAR_ID" default:"primary"`
	GoogleAPIBaseURL   string `envconfig:"GOOGLE_API_BASE_URL" default:"https://www.googleapis.com/calendar/v3"`
	GoogleTokenURL     string `envconfig:"GOOGLE_TOKEN_URL" default:"https://oauth2.googleapis.com/token"`
	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `envconfig:"GOOGLE_REDIRECT_URI" default:"http://localhost:4002/oauth2/callback"`
}

// LoadMaster loads the master service configuration. A .env file in the
// working directory is read first when present.
func LoadMaster() (*MasterConfig, error) {
	_ = godotenv.Load()

	var cfg MasterConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load master config: %w", err)
	}
	if !domain.ValidMode(cfg.Mode) {
		return nil, fmt.Errorf("invalid mode %q", cfg.Mode)
	}
	return &cfg, nil
}

// LoadMessenger loads the messenger service configuration
func LoadMessenger() (*MessengerConfig, error) {
	_ = godotenv.Load()

	var cfg MessengerConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load messenger config: %w", err)
	}
	if !domain.ValidMode(cfg.Mode) {
		return nil, fmt.Errorf("invalid mode %q", cfg.Mode)
	}
	return &cfg, nil
}

// LoadCalendar loads the calendar service configuration
func LoadCalendar() (*CalendarConfig, error) {
	_ = godotenv.Load()

	var cfg CalendarConfig
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load calendar config: %w", err)
	}
	return &cfg, nil
}
