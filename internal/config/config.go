// Package config holds the request/options struct tree the engine is
// invoked with, loadable from CLI flags, an optional YAML file, optional
// environment variables, or struct defaults, layered in that precedence.
// The run command takes only the template, source and output paths from the
// YAML file and the environment; options come from CLI flags and struct
// defaults.
package config

// Options holds the tuning knobs for a single consolidation run.
type Options struct {
	ExcludeZeroPercent      bool  `json:"excludeZeroPercent" yaml:"excludeZeroPercent"`
	StrictStructure         bool  `json:"strictStructure" yaml:"strictStructure"`
	OverwriteOutputFormulas *bool `json:"overwriteOutputFormulas" yaml:"overwriteOutputFormulas"`
	Workers                 int   `json:"workers" yaml:"workers"`
	IncludeXLS              bool  `json:"includeXLS" yaml:"includeXLS"`
}

// Request is the full invocation contract: where the template and sources
// live, where to write the output, and the tuning options above.
type Request struct {
	TemplatePath string  `json:"templatePath" yaml:"templatePath"`
	SourceFolder string  `json:"sourceFolder" yaml:"sourceFolder"`
	OutputFolder string  `json:"outputFolder" yaml:"outputFolder"`
	Options      Options `json:"options" yaml:"options"`
}

// LoggingConfig holds a config file's logging settings, with the fields of
// internal/logging.Config. The run command does not apply them; its logger
// is built from the --log-* flags.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	File   string `json:"file" yaml:"file"`
}

// File is the shape of an optional on-disk YAML config file: a Request
// plus logging settings. The run command reads only the Request's three
// paths from it, each one only where the matching flag is empty.
type File struct {
	Request Request       `yaml:",inline"`
	Logging LoggingConfig `yaml:"logging"`
}
