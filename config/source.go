package config

// Source names the layer a configuration value was resolved from.
// Later layers win: default < global < local < env < flag.
type Source string

const (
	// SourceDefault is a built-in default.
	SourceDefault Source = "default"

	// SourceGlobal is ~/.config/issueflow/config.yaml.
	SourceGlobal Source = "global"

	// SourceLocal is .issueflow.yaml at the git root.
	SourceLocal Source = "local"

	// SourceEnv is an ISSUEFLOW_* environment variable.
	SourceEnv Source = "env"

	// SourceFlag is a command-line flag.
	SourceFlag Source = "flag"
)
