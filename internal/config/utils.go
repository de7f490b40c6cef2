package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvAs parses key with parse, returning fallback when the key is unset or unparsable.
func getEnvAs[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := parse(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func getEnv(key, fallback string) string {
	return getEnvAs(key, fallback, func(s string) (string, error) { return s, nil })
}

func getEnvAsInt(key string, fallback int) int {
	return getEnvAs(key, fallback, strconv.Atoi)
}

func getEnvAsBool(key string, fallback bool) bool {
	return getEnvAs(key, fallback, strconv.ParseBool)
}

func getEnvAsFloat(key string, fallback float64) float64 {
	return getEnvAs(key, fallback, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	return getEnvAs(key, fallback, time.ParseDuration)
}

// getEnvAsStringSlice splits a comma separated value, dropping blanks.
func getEnvAsStringSlice(key string, fallback []string) []string {
	values := getEnvAs(key, nil, func(s string) ([]string, error) {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	})
	if len(values) == 0 {
		return fallback
	}
	return values
}
