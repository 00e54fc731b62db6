// Package config provides application configuration loaded from environment
// variables (ASSESS_ prefix) with an optional YAML file overlay. Environment
// values take precedence over file values; struct tag defaults apply when
// neither is set.
package config
