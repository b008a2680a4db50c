package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config is the process-wide configuration, loaded once at startup from
// .config.json and threaded into the components that need it.
type Config struct {
	Port                 int            `json:"port"`
	Env                  string         `json:"env"`
	Pepper               string         `json:"pepper"`
	HMACKey              string         `json:"hmac_key"`
	CSRFAuthKey          string         `json:"csrf_auth_key"`
	PageSize             int            `json:"page_size"`
	IndexCacheTTLSeconds int            `json:"index_cache_ttl_seconds"`
	MediaRoot            string         `json:"media_root"`
	Database             PostgresConfig `json:"database"`
}

// IsProd reports whether we're running in production.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ConnectionInfo builds the DSN for the configured postgres database.
func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// DefaultConfig is the development setup used when no .config.json exists.
func DefaultConfig() Config {
	return Config{
		Port:                 8000,
		Env:                  "dev",
		Pepper:               "secret-random-string",
		HMACKey:              "secret-hmac-key",
		CSRFAuthKey:          "32-byte-long-auth-key-for-dev-00",
		PageSize:             10,
		IndexCacheTTLSeconds: 20,
		MediaRoot:            "media",
		Database:             DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "yatube",
	}
}

// LoadConfig loads configuration from a .config.json file if present,
// otherwise falls back to the dev defaults. When prodRequired is set the
// file is mandatory and the app refuses to start without it.
func LoadConfig(prodRequired bool) Config {
	f, err := os.Open(".config.json")
	if err != nil {
		if prodRequired {
			panic("a .config.json file is required in production")
		}
		fmt.Println("Using the default dev config.")
		return DefaultConfig()
	}
	defer f.Close()

	c := DefaultConfig()
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		panic(err)
	}
	fmt.Println("Successfully loaded .config.json")
	return c
}
