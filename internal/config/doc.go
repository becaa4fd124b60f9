// Package config loads the optional per-project settings file.
//
// The file is named .rhiz.hcl and lives next to the Rhizfile. It is plain
// HCL; expressions may read the process environment through the `env`
// object and call a handful of string functions:
//
//	log_level  = "debug"
//	log_format = "json"
//	workers    = 4
//	env = {
//	  GREETING = upper("hello")
//	  PATH     = "${env.PATH}:/opt/tools/bin"
//	}
//
// Every attribute is optional. Command-line flags take precedence over the
// file, which takes precedence over the built-in defaults.
package config
