// This file contains environment variable overrides for configuration.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/agbru/parsum/internal/errors"
)

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Aliased flags (short and long form) are checked together.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the PARSUM_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string) error
}

// envOverrides is the declarative table of all environment variable overrides.
var envOverrides = []envOverride{
	{"DATA", []string{"data"}, func(c *AppConfig, v string) error {
		c.DatasetPath = v
		return nil
	}},
	{"SIZE", []string{"size"}, func(c *AppConfig, v string) error {
		return setInt(&c.DatasetSize, "SIZE", v)
	}},
	{"MAX_VALUE", []string{"max-value"}, func(c *AppConfig, v string) error {
		return setInt(&c.MaxValue, "MAX_VALUE", v)
	}},
	{"SEED", []string{"seed"}, func(c *AppConfig, v string) error {
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return apperrors.NewConfigError("invalid %sSEED=%q", EnvPrefix, v)
		}
		c.Seed = parsed
		return nil
	}},
	{"WORKERS", []string{"workers"}, func(c *AppConfig, v string) error {
		counts, err := ParseWorkerCounts(v)
		if err != nil {
			return apperrors.WrapError(err, "%sWORKERS", EnvPrefix)
		}
		c.WorkerCounts = counts
		return nil
	}},
	{"GC", []string{"gc"}, func(c *AppConfig, v string) error {
		c.GCMode = v
		return nil
	}},
	{"METRICS_FILE", []string{"metrics-file"}, func(c *AppConfig, v string) error {
		c.MetricsFile = v
		return nil
	}},
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) error {
		c.Verbose = parseBoolEnv(v, c.Verbose)
		return nil
	}},
	{"QUIET", []string{"q", "quiet"}, func(c *AppConfig, v string) error {
		c.Quiet = parseBoolEnv(v, c.Quiet)
		return nil
	}},
	{"THEME", []string{"theme"}, func(c *AppConfig, v string) error {
		c.Theme = v
		return nil
	}},
	{"NO_COLOR", []string{"no-color"}, func(c *AppConfig, v string) error {
		c.NoColor = parseBoolEnv(v, c.NoColor)
		return nil
	}},
}

func setInt(dst *int, key, v string) error {
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return apperrors.NewConfigError("invalid %s%s=%q", EnvPrefix, key, v)
	}
	*dst = parsed
	return nil
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Unlike boolean values, a malformed numeric value is an error rather than
// silently ignored, since it would otherwise change the benchmark unnoticed.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) error {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			if err := o.apply(config, val); err != nil {
				return err
			}
		}
	}
	return nil
}
