// Package config loads validated settings from environment variables.
// Invalid values never abort startup: the default is used instead and the
// fallback is reported to the caller, which logs it and updates metrics.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadResult is the outcome of loading one setting.
// Warning is set only when FallbackApplied is true.
type LoadResult[T any] struct {
	Value           T
	Warning         string
	FallbackApplied bool
}

// load reads envKey, parses and validates it, and falls back to
// defaultValue on any failure. An unset variable is not a fallback.
func load[T any](envKey string, defaultValue T, parse func(string) (T, error), validator func(T) error) LoadResult[T] {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return LoadResult[T]{Value: defaultValue}
	}

	v, err := parse(raw)
	if err == nil && validator != nil {
		err = validator(v)
	}
	if err != nil {
		return LoadResult[T]{
			Value:           defaultValue,
			Warning:         fmt.Sprintf("invalid %s=%q: %v, falling back to default '%v'", envKey, raw, err, defaultValue),
			FallbackApplied: true,
		}
	}
	return LoadResult[T]{Value: v}
}

// LoadEnvWithFallback loads a string setting. validator may be nil.
//
//	result := LoadEnvWithFallback("WORKER_CRON_SCHEDULE", "*/5 * * * *", ValidateCronSchedule)
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult[string] {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a time.ParseDuration setting such as "30s".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult[time.Duration] {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer setting.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult[int] {
	return load(envKey, defaultValue, strconv.Atoi, validator)
}
