package env

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	PrimaryModelKey      = "PRIMARY_MODEL"
	FallbackModelPrefix  = "FALLBACK_MODEL_"
	maxFallbackModelKeys = 64
)

func GetEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func GetEnvBoolOrDefault(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func GetEnvIntOrDefault(key string, defaultValue int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ModelChain is the primary/fallback configuration read from PRIMARY_MODEL and
// FALLBACK_MODEL_1..N
type ModelChain struct {
	Primary   string
	Fallbacks []string
}

// IsSet reports whether any of the chain keys were present
func (c ModelChain) IsSet() bool {
	return c.Primary != "" || len(c.Fallbacks) > 0
}

// ModelChainFromEnviron parses KEY=VALUE pairs as returned by os.Environ.
// Fallbacks are ordered by their numeric suffix (FALLBACK_MODEL_10 comes after
// FALLBACK_MODEL_9), blank values are skipped.
func ModelChainFromEnviron(environ []string) ModelChain {
	type indexed struct {
		value string
		index int
	}

	var chain ModelChain
	var fallbacks []indexed

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch {
		case key == PrimaryModelKey:
			chain.Primary = value

		case strings.HasPrefix(key, FallbackModelPrefix):
			n, err := strconv.Atoi(strings.TrimPrefix(key, FallbackModelPrefix))
			if err != nil || n < 1 || n > maxFallbackModelKeys || value == "" {
				continue
			}
			fallbacks = append(fallbacks, indexed{index: n, value: value})
		}
	}

	sort.Slice(fallbacks, func(i, j int) bool {
		return fallbacks[i].index < fallbacks[j].index
	})
	for _, f := range fallbacks {
		chain.Fallbacks = append(chain.Fallbacks, f.value)
	}
	return chain
}
