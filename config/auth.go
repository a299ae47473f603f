package config

import "time"

// Minimum iteration count accepted for credential hashing. The verify path
// must be able to reproduce whatever the stored records were hashed with, so
// this is a floor, not a tuning knob; raise HASH_ITERATIONS over time instead.
const minHashIterations = 500_000

// AuthConfig groups credential-verification and session configuration.
type AuthConfig struct {
	// LoginURL is the path unauthenticated requests to protected paths are
	// redirected to.
	LoginURL string `env:"AUTH_LOGIN_URL" envDefault:"/login"`

	// HashIterations is the PBKDF2 iteration count used when hashing and
	// verifying credentials. Values below 500000 are raised to 500000.
	HashIterations int `env:"AUTH_HASH_ITERATIONS" envDefault:"500000"`

	// PrivateSalt is system-wide secret hashing material, held only in
	// service configuration and never persisted with credential records.
	PrivateSalt string `env:"AUTH_PRIVATE_SALT,required"`

	// IdleTimeout is how long a session may go untouched before it expires.
	IdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	// AbsoluteTimeout is the maximum total session lifetime regardless of
	// activity.
	AbsoluteTimeout time.Duration `env:"SESSION_ABSOLUTE_TIMEOUT" envDefault:"8h"`

	// RememberTTL is the lifetime of remember-me tokens.
	RememberTTL time.Duration `env:"AUTH_REMEMBER_TTL" envDefault:"720h"` // 30 days

	// RegistryCap bounds the per-username session registry list. The list is
	// an append-only audit trail; older entries past the cap are trimmed.
	RegistryCap int `env:"AUTH_SESSION_REGISTRY_CAP" envDefault:"100"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.HashIterations < minHashIterations {
		a.HashIterations = minHashIterations
	}
	if a.IdleTimeout < time.Minute {
		a.IdleTimeout = time.Minute
	}
	if a.AbsoluteTimeout < a.IdleTimeout {
		a.AbsoluteTimeout = a.IdleTimeout
	}
	if a.RememberTTL <= 0 {
		a.RememberTTL = 720 * time.Hour
	}
	if a.RegistryCap < 1 {
		a.RegistryCap = 1
	}
	if a.LoginURL == "" {
		a.LoginURL = "/login"
	}
}
