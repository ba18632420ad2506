// Package config loads chat server and client settings from flags and the environment.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

var validate = validator.New()

// Bind - listen or dial address.
type Bind struct {
	Host string
	Port int
}

func (b Bind) String() string {
	return net.JoinHostPort(b.Host, strconv.Itoa(b.Port))
}

type bindAddress struct {
	Address string `validate:"required,hostname_port"`
}

// ParseBind - parses address in host:port form.
func ParseBind(address string) (Bind, error) {
	if err := validate.Struct(bindAddress{Address: address}); err != nil {
		return Bind{}, fmt.Errorf("%w: bind address %q must be in host:port form", ErrConfiguration, address)
	}
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return Bind{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 1 || p > 65535 {
		return Bind{}, fmt.Errorf("%w: invalid port %q", ErrConfiguration, port)
	}
	return Bind{Host: host, Port: p}, nil
}

// Server - server tunables.
type Server struct {
	LogLevel      string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	Tick          time.Duration `env:"CHAT_TICK,default=100ms" validate:"gt=0"`
	ShutdownDelay time.Duration `env:"CHAT_SHUTDOWN_DELAY,default=5s" validate:"gte=0"`
	ReadSize      int           `env:"CHAT_READ_SIZE,default=1024" validate:"gt=0"`
	WriteTimeout  time.Duration `env:"CHAT_WRITE_TIMEOUT,default=30s" validate:"gte=0"`
	NameTimeout   time.Duration `env:"CHAT_NAME_TIMEOUT,default=0s" validate:"gte=0"`
	HistoryGreets int           `env:"CHAT_HISTORY_GREETS,default=0" validate:"gte=0,lte=1000"`
	CensoredWords string        `env:"CHAT_CENSORED_WORDS"`
	CensorChar    string        `env:"CHAT_CENSOR_CHAR,default=*" validate:"len=1"`
}

// Words - censored words, comma-separated in the environment.
func (s Server) Words() []string {
	return lo.FilterMap(strings.Split(s.CensoredWords, ","), func(w string, _ int) (string, bool) {
		w = strings.TrimSpace(w)
		return w, w != ""
	})
}

// Mask - rune replacing censored words.
func (s Server) Mask() rune {
	return []rune(s.CensorChar)[0]
}

// Client - client tunables.
type Client struct {
	LogLevel       string        `env:"LOG_LEVEL,default=WARN" validate:"oneof=DEBUG INFO WARN ERROR"`
	Name           string        `env:"CHAT_NAME"`
	ConnectRetries int           `env:"CHAT_CONNECT_RETRIES,default=10" validate:"gte=1"`
	ConnectBackoff time.Duration `env:"CHAT_CONNECT_BACKOFF,default=1s" validate:"gte=0"`
	Colours        bool          `env:"CHAT_COLOURS,default=true"`
}

// LoadDotEnv - loads optional .env file from working directory, missing file is fine.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// LoadServer - reads server settings from the environment.
func LoadServer() (Server, error) {
	cfg := Server{}
	if err := load(&cfg); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// LoadClient - reads client settings from the environment.
func LoadClient() (Client, error) {
	cfg := Client{}
	if err := load(&cfg); err != nil {
		return Client{}, err
	}
	return cfg, nil
}

func load(cfg any) error {
	if _, err := env.UnmarshalFromEnviron(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}
