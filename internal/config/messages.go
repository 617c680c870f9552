package config

import "fmt"

const (
	errRequiredEnvNotSetFmt  = "required environment variable %s is not set"
	errMustBePositiveFmt     = "%s must be positive"
	errPortRequired          = "PORT must be set"
	errJWTSecretMinLengthFmt = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropy   = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errDBPoolSizeFmt         = "DB_MIN_CONNS (%d) must not exceed DB_MAX_CONNS (%d)"
	errRateLimitNotPositive  = "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"
)

// messageBuilders keeps Validate's failure text in one place so tests and
// operators see the env var names exactly as they are spelled in .env.
type messageBuilders struct {
	requiredEnvNotSet  func(key string) string
	mustBePositive     func(key string) string
	jwtSecretTooShort  func(min int) string
	poolSizeOutOfOrder func(minConns, maxConns int) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		requiredEnvNotSet: func(key string) string {
			return fmt.Sprintf(errRequiredEnvNotSetFmt, key)
		},
		mustBePositive: func(key string) string {
			return fmt.Sprintf(errMustBePositiveFmt, key)
		},
		jwtSecretTooShort: func(min int) string {
			return fmt.Sprintf(errJWTSecretMinLengthFmt, min)
		},
		poolSizeOutOfOrder: func(minConns, maxConns int) string {
			return fmt.Sprintf(errDBPoolSizeFmt, minConns, maxConns)
		},
	}
}

var messages = newMessageBuilders()
