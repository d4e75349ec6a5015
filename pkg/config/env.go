// Package config provides helpers for reading typed values from environment variables.
// Every helper falls back to the supplied default and logs a warning when a value
// is present but unusable, so a typo never prevents the service from starting.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnvString returns the value of an environment variable or the default value if not set.
//
// Example:
//
//	addr := GetEnvString("HTTP_ADDR", ":8080")
func GetEnvString(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable as an integer.
//
// Example:
//
//	limit := GetEnvInt("POLLS_INDEX_LIMIT", 5)
func GetEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		warnInvalid(key, valueStr, strconv.Itoa(defaultValue), err.Error())
		return defaultValue
	}
	return value
}

// GetEnvPositiveInt is GetEnvInt that also rejects zero and negative values.
func GetEnvPositiveInt(key string, defaultValue int) int {
	value := GetEnvInt(key, defaultValue)
	if value <= 0 {
		warnInvalid(key, os.Getenv(key), strconv.Itoa(defaultValue), "must be positive")
		return defaultValue
	}
	return value
}

// GetEnvFloat returns the value of an environment variable as a float64.
func GetEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
	if err != nil {
		warnInvalid(key, valueStr, strconv.FormatFloat(defaultValue, 'g', -1, 64), err.Error())
		return defaultValue
	}
	return value
}

// GetEnvBool returns the value of an environment variable as a boolean.
// Accepted values are those understood by strconv.ParseBool.
//
// Example:
//
//	reportOnly := GetEnvBool("CSP_REPORT_ONLY", false)
func GetEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		warnInvalid(key, valueStr, strconv.FormatBool(defaultValue), err.Error())
		return defaultValue
	}
	return value
}

// GetEnvDuration returns the value of an environment variable as a time.Duration.
// The value must be parseable by time.ParseDuration (e.g., "1m", "30s", "1h30m").
//
// Example:
//
//	timeout := GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		warnInvalid(key, valueStr, defaultValue.String(), err.Error())
		return defaultValue
	}
	return value
}

// GetEnvPositiveDuration is GetEnvDuration that also rejects zero and negative values.
func GetEnvPositiveDuration(key string, defaultValue time.Duration) time.Duration {
	value := GetEnvDuration(key, defaultValue)
	if value <= 0 {
		warnInvalid(key, os.Getenv(key), defaultValue.String(), "must be positive")
		return defaultValue
	}
	return value
}

// GetEnvStringList splits a comma-separated variable, trimming whitespace and
// dropping empty entries.
//
// Example:
//
//	proxies := GetEnvStringList("RATE_LIMIT_TRUSTED_PROXIES", nil)
//	// RATE_LIMIT_TRUSTED_PROXIES="10.0.0.0/8, 192.168.1.1"
//	// Result: ["10.0.0.0/8", "192.168.1.1"]
func GetEnvStringList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

func warnInvalid(key, value, defaultValue, reason string) {
	slog.Warn("invalid value for environment variable, using default",
		slog.String("key", key),
		slog.String("value", value),
		slog.String("default", defaultValue),
		slog.String("error", reason))
}
