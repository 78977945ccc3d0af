// Package config assembles the server configuration from defaults, an
// optional TOML file, MOUSE_* environment variables and command-line flags,
// in that order of precedence (flags win).
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

var (
	ErrEmptyPIN = errors.New("config: pin must not be empty")
	ErrBadPort  = errors.New("config: port out of range")
)

type Config struct {
	PIN         string   `toml:"pin"`
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	RealInput   bool     `toml:"real_input"`
	StaticPage  string   `toml:"static_page"`
	Advertise   bool     `toml:"advertise"`
	ServiceName string   `toml:"service_name"`
	STUNServers []string `toml:"stun_servers"`
	LogLevel    string   `toml:"log_level"`
}

func Default() Config {
	return Config{
		PIN:         "8900",
		Host:        "0.0.0.0",
		Port:        5000,
		RealInput:   true,
		Advertise:   true,
		ServiceName: "_phonemouse._tcp",
		LogLevel:    "info",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.PIN) == "" {
		return ErrEmptyPIN
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrBadPort, c.Port)
	}
	return nil
}

// LoadFile overlays the keys present in the TOML file at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	return nil
}

// ApplyEnv overlays MOUSE_* variables read through getenv. Unparseable
// numeric values are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	getEnv := func(k string) (string, bool) {
		v := strings.TrimSpace(getenv(k))
		return v, v != ""
	}
	getEnvBool := func(k string) (bool, bool) {
		v, ok := getEnv(k)
		if !ok {
			return false, false
		}
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes", true
	}

	if v, ok := getEnv("MOUSE_PIN"); ok {
		cfg.PIN = v
	}
	if v, ok := getEnv("MOUSE_HOST"); ok {
		cfg.Host = v
	}
	if v, ok := getEnv("MOUSE_PORT"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v, ok := getEnvBool("MOUSE_REAL_INPUT"); ok {
		cfg.RealInput = v
	}
	if v, ok := getEnv("MOUSE_STATIC_PAGE"); ok {
		cfg.StaticPage = v
	}
	if v, ok := getEnvBool("MOUSE_ADVERTISE"); ok {
		cfg.Advertise = v
	}
	if v, ok := getEnv("MOUSE_STUN"); ok {
		cfg.STUNServers = splitList(v)
	}
	if v, ok := getEnv("MOUSE_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load parses args (without the program name) and builds the effective
// configuration. It returns pflag.ErrHelp when -h/--help was given.
func Load(args []string, getenv func(string) string) (Config, error) {
	var (
		path  string
		flags Config
	)
	fs := pflag.NewFlagSet("phonemouse", pflag.ContinueOnError)
	fs.StringVarP(&path, "config", "c", "", "path to a TOML config file")
	fs.StringVar(&flags.PIN, "pin", "", "pairing PIN clients must present")
	fs.StringVar(&flags.Host, "host", "", "address to bind")
	fs.IntVarP(&flags.Port, "port", "p", 0, "preferred port (an ephemeral port is used if taken)")
	fs.BoolVar(&flags.RealInput, "real-input", false, "inject real input events when a driver is available")
	fs.StringVar(&flags.StaticPage, "static-page", "", "client page served on /")
	fs.BoolVar(&flags.Advertise, "advertise", false, "announce the server over mDNS")
	fs.StringSliceVar(&flags.STUNServers, "stun", nil, "STUN server URLs for WebRTC clients")
	fs.StringVar(&flags.LogLevel, "log-level", "", "trace, debug, info, warn, error or disabled")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	ApplyEnv(&cfg, getenv)

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "pin":
			cfg.PIN = flags.PIN
		case "host":
			cfg.Host = flags.Host
		case "port":
			cfg.Port = flags.Port
		case "real-input":
			cfg.RealInput = flags.RealInput
		case "static-page":
			cfg.StaticPage = flags.StaticPage
		case "advertise":
			cfg.Advertise = flags.Advertise
		case "stun":
			cfg.STUNServers = flags.STUNServers
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
