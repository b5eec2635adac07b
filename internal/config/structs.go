package config

import (
	"time"

	"github.com/mushya-portal/mushya-portal/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Store     Store
	Auth      Auth
	Webserver Webserver
}

// Store holds settings for the key-value persistence substrate.
type Store struct {
	// Namespace prefixes every key written to the substrate.
	Namespace string
}

// Auth holds authentication settings.
type Auth struct {
	// SeedPassword is the password accepted for built-in seed accounts.
	SeedPassword string
	// Code is the static one-time code accepted during the verify step.
	// Ignored when TOTPSecret is set.
	Code string
	// TOTPSecret switches the verify step to TOTP validation instead of
	// the static demo code.
	TOTPSecret string
	// LoginDelay is the simulated latency of the credential check.
	LoginDelay time.Duration
	// VerifyDelay is the simulated latency of the code verification.
	VerifyDelay time.Duration
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool    // use clean path middleware to allow multi slash requests
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
}
