package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Server holds the hub process configuration.
type Server struct {
	Host          string `env:"HOST" envDefault:"0.0.0.0"`
	Port          string `env:"PORT" envDefault:"3000"`
	DBPath        string `env:"DB_PATH" envDefault:"./data/stagehub.db"`
	TLSEnabled    bool   `env:"TLS_ENABLED" envDefault:"false"`
	TLSCertFile   string `env:"TLS_CERT_FILE"`
	TLSKeyFile    string `env:"TLS_KEY_FILE"`
	TLSMinVersion string `env:"TLS_MIN_VERSION" envDefault:"1.2"`
}

// Display holds the display-client daemon configuration.
type Display struct {
	HubWSURL  string `env:"HUB_WS_URL" envDefault:"ws://127.0.0.1:3000/ws"`
	HubAPIURL string `env:"HUB_API_URL" envDefault:"http://127.0.0.1:3000"`
	ScreenID  string `env:"SCREEN_ID" envDefault:"primary"`

	// KioskMode enables the connectivity watchdog's dim behavior for
	// unattended displays.
	KioskMode        bool `env:"KIOSK_MODE" envDefault:"false"`
	DimGraceSeconds  int  `env:"DIM_GRACE_SECONDS" envDefault:"60"`
	ExitBufferMillis int  `env:"EXIT_ANIM_BUFFER_MS" envDefault:"100"`
}

// LoadServer parses the hub configuration from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse server config: %w", err)
	}
	return cfg, nil
}

// LoadDisplay parses the display daemon configuration from the environment.
func LoadDisplay() (Display, error) {
	var cfg Display
	if err := env.Parse(&cfg); err != nil {
		return Display{}, fmt.Errorf("parse display config: %w", err)
	}
	return cfg, nil
}
