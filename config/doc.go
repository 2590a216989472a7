// Package config provides suitekit configuration management.
//
// Configuration is loaded from defaults, an optional YAML file and
// environment variables, in that order, and validated as a whole.
package config
