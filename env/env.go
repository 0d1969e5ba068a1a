// Package env reads typed configuration values from environment variables, falling back to defaults for missing or malformed values.
package env

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/saylorsolutions/contents/slogx"
)

// Source reads variables with an optional key prefix.
// The zero value reads the process environment with no prefix.
type Source struct {
	Prefix string
	// Lookup overrides how variables are read, and defaults to [os.LookupEnv].
	// Keys passed to Lookup have already had the prefix applied.
	Lookup func(key string) (string, bool)
}

// Prefixed creates a [Source] reading the process environment with the given key prefix.
func Prefixed(prefix string) Source {
	return Source{Prefix: prefix}
}

// Map creates a [Source] that reads from vals instead of the process environment, which is helpful in tests.
func Map(prefix string, vals map[string]string) Source {
	return Source{
		Prefix: prefix,
		Lookup: func(key string) (string, bool) {
			val, ok := vals[key]
			return val, ok
		},
	}
}

func (s Source) lookup(key string) (string, bool) {
	key = s.Prefix + key
	if s.Lookup != nil {
		return s.Lookup(key)
	}
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	// Fall back to a case-insensitive scan of the environment.
	for _, kv := range os.Environ() {
		k, v, found := strings.Cut(kv, "=")
		if found && strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// Val will attempt to get a variable value using the given key.
// If the variable isn't set, or is empty, then the defaultVal will be returned.
func (s Source) Val(key string, defaultVal string) string {
	val, ok := s.lookup(key)
	if !ok {
		return defaultVal
	}
	trimmed := strings.TrimSpace(val)
	if len(trimmed) == 0 {
		return defaultVal
	}
	return trimmed
}

var (
	DefaultTrue  = []string{"1", "yes", "true", "on"}  // DefaultTrue are the values considered "true" when using [Source.Bool], and can be changed.
	DefaultFalse = []string{"0", "no", "false", "off"} // DefaultFalse are the values considered "false" when using [Source.Bool], and can be changed.
)

// Bool interprets a variable as a boolean, using [DefaultTrue] and [DefaultFalse] compared case-insensitively.
// The defaultVal will be returned if the variable isn't set, is empty, or can't be a boolean value.
func (s Source) Bool(key string, defaultVal bool) bool {
	sval := s.Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	for _, v := range DefaultTrue {
		if strings.EqualFold(sval, v) {
			return true
		}
	}
	for _, v := range DefaultFalse {
		if strings.EqualFold(sval, v) {
			return false
		}
	}
	return defaultVal
}

// Int interprets a variable as an integer, returning the defaultVal if it isn't found or can't be a valid integer.
func (s Source) Int(key string, defaultVal int) int {
	sval := s.Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	ival, err := strconv.Atoi(sval)
	if err != nil {
		return defaultVal
	}
	return ival
}

// Duration interprets a variable as a [time.Duration], returning the defaultVal if it isn't found or can't be a valid [time.Duration].
func (s Source) Duration(key string, defaultVal time.Duration) time.Duration {
	sval := s.Val(key, "")
	if len(sval) == 0 {
		return defaultVal
	}
	dval, err := time.ParseDuration(sval)
	if err != nil {
		return defaultVal
	}
	return dval
}

// Level interprets a variable as a log level name with [slogx.ParseLevel].
func (s Source) Level(key string, defaultVal slog.Level) slog.Level {
	return slogx.ParseLevel(s.Val(key, ""), defaultVal)
}
