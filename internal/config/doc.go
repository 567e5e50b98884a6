// Package config loads server settings, including the initial container
// presets and the per-request unit limit, from defaults, environment
// variables, a YAML file and CLI flags. Later sources win, so CLI flags
// override YAML, which overrides the environment.
package config
