package contents

import (
	"log/slog"
	"time"

	"github.com/saylorsolutions/contents/env"
)

// EnvPrefix is the prefix of environment variables read by [ConfigFromEnv] when used with [env.Prefixed].
const EnvPrefix = "CONTENTS_"

// Config holds the tunables of a [Controller].
type Config struct {
	// ParallelBoot boots the contents of a [BootParam] concurrently even if the BootParam doesn't ask for it.
	ParallelBoot bool
	// LockTimeout bounds how long a transition waits for another transition of the same kind on the same unit.
	// Zero means waiting until the operation's context is done.
	LockTimeout time.Duration
	// ReleaseConcurrency limits how many async resources of a unit are released at once.
	// Zero means no limit.
	ReleaseConcurrency int
	// LogLevel is the minimum level applications should log at.
	LogLevel slog.Level
}

// DefaultConfig returns the Config used when none is given.
func DefaultConfig() Config {
	return Config{
		LogLevel: slog.LevelInfo,
	}
}

// ConfigFromEnv reads a Config from src, using defaults for anything missing or malformed.
//
//	cfg := contents.ConfigFromEnv(env.Prefixed(contents.EnvPrefix))
func ConfigFromEnv(src env.Source) Config {
	def := DefaultConfig()
	return Config{
		ParallelBoot:       src.Bool("PARALLEL_BOOT", def.ParallelBoot),
		LockTimeout:        src.Duration("LOCK_TIMEOUT", def.LockTimeout),
		ReleaseConcurrency: src.Int("RELEASE_CONCURRENCY", def.ReleaseConcurrency),
		LogLevel:           src.Level("LOG_LEVEL", def.LogLevel),
	}
}
