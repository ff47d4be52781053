// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
)

// GetEnv returns the value of key or "".
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvString returns the value of key, or def when unset.
func GetEnvString(key, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	return value
}

// GetEnvNumeric returns key parsed as a float, or def when unset or malformed.
func GetEnvNumeric(key string, def float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}

	return v
}

// GetEnvInt returns key parsed as an int, or def when unset or malformed.
func GetEnvInt(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return def
	}

	return v
}

// GetEnvBool accepts "true" and "false"; anything else yields def.
func GetEnvBool(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	if value == "true" || value == "false" {
		return value == "true"
	}

	return def
}
