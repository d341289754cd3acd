// Package config defines the YAML configuration for the typedict tooling.
//
// Loading is a three step pipeline: parse the file, apply defaults, apply
// TYPEDICT_* environment overrides, with validation after each mutating
// step. An empty file is valid; every section has working defaults.
//
//	cfg, err := config.LoadConfigWithEnvOverrides("typedict.yaml")
package config
