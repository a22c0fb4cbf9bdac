package config

import (
	"github.com/lambda-feedback/docpreview/internal/server"
	"github.com/lambda-feedback/docpreview/preview"
	"github.com/lambda-feedback/docpreview/preview/files"
	"github.com/lambda-feedback/docpreview/staging"
	"github.com/lambda-feedback/docpreview/util/conf"
)

type Config struct {
	// LogLevel is the log level for the application
	LogLevel string `conf:"log_level"`

	// LogFormat is the log format for the application
	LogFormat string `conf:"log_format"`

	// Http is the preview server configuration
	Http server.HttpConfig `conf:"http"`

	// Docs is the page adapter configuration
	Docs preview.Config `conf:"docs"`

	// Files is the configuration of the file-backed page handler
	Files files.Config `conf:"files"`

	// Staging lists the files copied before the server starts
	Staging staging.Config `conf:"staging"`
}

// DefaultConfig returns the defaults for a server launched as argv0. The
// documentation root is resolved relative to the running executable; the
// staging directory defaults to a fresh temporary directory.
func DefaultConfig(argv0 string) conf.DefaultConfig {
	defaults := conf.DefaultConfig{
		"log_level":   "info",
		"log_format":  "production",
		"docs.root":   preview.LocalPath(preview.Executable(argv0)),
		"staging.dir": "",
	}

	for ns, m := range map[string]map[string]any{
		"http":  server.DefaultConfig,
		"docs":  preview.DefaultConfig,
		"files": files.DefaultConfig,
	} {
		for key, val := range conf.MergeDefaults(ns, m) {
			defaults[key] = val
		}
	}

	return defaults
}
