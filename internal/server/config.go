package server

import "time"

type HttpConfig struct {
	Host string `conf:"host"`
	Port int    `conf:"port"`
	H2c  bool   `conf:"h2c"`
	Gzip bool   `conf:"gzip"`

	ReadHeaderTimeout time.Duration `conf:"read_header_timeout"`
}

var DefaultConfig = map[string]any{
	"host":                "",
	"port":                8000,
	"h2c":                 false,
	"gzip":                false,
	"read_header_timeout": "10s",
}
