// Package config defines the directory layout settings used by the packager
// and provides helpers to load, validate and save them in YAML format.
//
// Every setting has a default, so the packager runs with no settings file at
// all; tests and unusual layouts override individual fields.
package config
