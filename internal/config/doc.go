// Package config loads CLI settings with viper.
//
// Sources, lowest precedence first: built-in defaults, a YAML file
// (--config, BOUNDARY_CONFIG, or ~/.config/boundary/config.yaml), and
// BOUNDARY_* environment variables with dots replaced by underscores:
//
//	log:
//	  level: debug
//	classify:
//	  any_fallback: true
//	output:
//	  format: base64
package config
