package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is a read-only snapshot of the client configuration, loaded once at startup.
type Config struct {
	Debug    bool
	TestMode bool
	Env      string // DEV (default), TEST, QA, PROD
	AppName  string
	Build    string

	// API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Media uploads
	UploadPreset string

	// Session persistence
	SessionFile     string
	TokenStorageKey string

	// Error reporting
	RollbarToken string
}

// NewConfig loads configuration from the environment (optionally seeded from a
// config/.env.<env> file) with defaults suitable for local use.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Darasa")
	conf.SetDefault("apiUrl", "http://localhost:3000/api")
	conf.SetDefault("requestTimeout", 30*time.Second)
	conf.SetDefault("uploadPreset", "darasa_uploads")
	conf.SetDefault("sessionFile", defaultSessionFile())
	conf.SetDefault("tokenStorageKey", "token")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("build", "dev")

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
		conf.SetDefault("debug", false)
	case "PROD":
		conf.SetDefault("debug", false)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Debug:           conf.GetBool("debug"),
		TestMode:        conf.GetBool("testMode"),
		Env:             env,
		AppName:         conf.GetString("appName"),
		Build:           conf.GetString("build"),
		APIBaseURL:      strings.TrimRight(conf.GetString("apiUrl"), "/"),
		RequestTimeout:  conf.GetDuration("requestTimeout"),
		UploadPreset:    conf.GetString("uploadPreset"),
		SessionFile:     conf.GetString("sessionFile"),
		TokenStorageKey: conf.GetString("tokenStorageKey"),
		RollbarToken:    conf.GetString("rollbarToken"),
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "darasa", "session.json")
}
