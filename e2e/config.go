package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// CHAT_E2E_ADDR - address of a running chat server, an in-process server is started when empty
	Addr string `envconfig:"CHAT_E2E_ADDR"`
	// CHAT_E2E_COLOURS enables colorized step headers
	Colours bool `envconfig:"CHAT_E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
