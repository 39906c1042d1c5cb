// Package config handles configuration loading for httprun.
//
// It provides functionality for:
//   - Loading configuration from httprun.config.json or .yaml files
//   - Default configuration values
//   - Merging configs with CLI-flag precedence
package config
