// Package config defines the typed application configuration loaded
// by the go-config container in cmd/taskforge.
package config

import (
	"fmt"
	"time"
)

// AppConfig is the root configuration document.
type AppConfig struct {
	Server      Server      `json:"server" koanf:"server"`
	Auth        Auth        `json:"auth" koanf:"auth"`
	Persistence Persistence `json:"persistence" koanf:"persistence"`
}

type Server struct {
	Address string `json:"address" koanf:"address"`
}

type Auth struct {
	SigningKey              string `json:"signing_key" koanf:"signing_key"`
	SigningMethod           string `json:"signing_method" koanf:"signing_method"`
	ContextKey              string `json:"context_key" koanf:"context_key"`
	AuthScheme              string `json:"auth_scheme" koanf:"auth_scheme"`
	Issuer                  string `json:"issuer" koanf:"issuer"`
	TokenExpirationMinutes  int    `json:"token_expiration_minutes" koanf:"token_expiration_minutes"`
}

type Persistence struct {
	DSN   string `json:"dsn" koanf:"dsn"`
	Debug bool   `json:"debug" koanf:"debug"`
	Seed  bool   `json:"seed" koanf:"seed"`
}

// Validate fills defaults and rejects unusable values. The defaults
// give a runnable dev setup with an in-memory sqlite database.
func (a *AppConfig) Validate() error {
	if a.Server.Address == "" {
		a.Server.Address = ":8787"
	}

	if a.Auth.SigningKey == "" {
		a.Auth.SigningKey = "insecure-dev-signing-key"
	}

	if a.Auth.SigningMethod == "" {
		a.Auth.SigningMethod = "HS256"
	}

	if a.Auth.SigningMethod != "HS256" {
		return fmt.Errorf("unsupported signing method: %s", a.Auth.SigningMethod)
	}

	if a.Auth.ContextKey == "" {
		a.Auth.ContextKey = "current_user"
	}

	if a.Auth.AuthScheme == "" {
		a.Auth.AuthScheme = "Bearer"
	}

	if a.Auth.TokenExpirationMinutes <= 0 {
		a.Auth.TokenExpirationMinutes = 30
	}

	if a.Persistence.DSN == "" {
		a.Persistence.DSN = "file:taskforge?mode=memory&cache=shared"
	}

	return nil
}

func (a AppConfig) GetServer() Server           { return a.Server }
func (a AppConfig) GetAuth() Auth               { return a.Auth }
func (a AppConfig) GetPersistence() Persistence { return a.Persistence }

func (s Server) GetAddress() string { return s.Address }

func (a Auth) GetSigningKey() string    { return a.SigningKey }
func (a Auth) GetSigningMethod() string { return a.SigningMethod }
func (a Auth) GetContextKey() string    { return a.ContextKey }
func (a Auth) GetAuthScheme() string    { return a.AuthScheme }
func (a Auth) GetIssuer() string        { return a.Issuer }

// GetTokenExpiration converts the configured minutes to a duration.
func (a Auth) GetTokenExpiration() time.Duration {
	return time.Duration(a.TokenExpirationMinutes) * time.Minute
}

func (p Persistence) GetDSN() string { return p.DSN }
func (p Persistence) GetDebug() bool { return p.Debug }
func (p Persistence) GetSeed() bool  { return p.Seed }
