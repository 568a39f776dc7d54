package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadEnv optionally loads a .env file into the process environment, where
// EnvDefaults reads it. A missing .env is not an error; it simply means no
// overrides apply.
func LoadEnv(path string) {
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)
}

// EnvDefaults reads XLCONSOLIDATE_* environment variables populated by
// LoadEnv (or set directly in the process environment) and returns a
// partial Request carrying whichever of them are set. Callers merge this
// in below CLI flags and file config, so an unset variable leaves the
// corresponding field untouched.
func EnvDefaults() Request {
	var req Request
	req.TemplatePath = os.Getenv("XLCONSOLIDATE_TEMPLATE")
	req.SourceFolder = os.Getenv("XLCONSOLIDATE_SOURCE_FOLDER")
	req.OutputFolder = os.Getenv("XLCONSOLIDATE_OUTPUT_FOLDER")
	return req
}

// LoadFile reads and parses an optional YAML config file. The run command
// layers its three paths under CLI flags and above XLCONSOLIDATE_*
// environment values; the file's options and logging settings are not
// applied.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &f, nil
}

// ApplyDefaults fills any unset Options field with its documented default.
func ApplyDefaults(opts Options) Options {
	if opts.Workers == 0 {
		opts.Workers = 4
	}
	if opts.OverwriteOutputFormulas == nil {
		overwrite := true
		opts.OverwriteOutputFormulas = &overwrite
	}
	return opts
}

// OverwriteEnabled reads the resolved bool default, since the field
// is a pointer only so ApplyDefaults can distinguish "unset" from "false".
func (o Options) OverwriteEnabled() bool {
	return o.OverwriteOutputFormulas == nil || *o.OverwriteOutputFormulas
}
