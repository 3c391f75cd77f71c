// Package routerconfig is the minimal flag/YAML configuration layer for
// cmd/routerd, grounded on config/config.go's NewConfig/Parse shape: flags
// seed defaults, an optional YAML file overrides them, flags win a second
// time so a command-line override always beats the file.
package routerconfig

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds cmd/routerd's startup parameters.
type Config struct {
	ConfigFile string

	Address        string `yaml:"address"`
	ApplicationLog string `yaml:"application-log-level"`
	FixedBody      string `yaml:"fixed-body"`
}

const (
	defaultAddress = ":9090"
	defaultLogLevel = "info"
)

// NewConfig registers flags against the default flag.CommandLine and
// returns a Config seeded with their defaults.
func NewConfig() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.ConfigFile, "config-file", "", "path to a YAML config file")
	flag.StringVar(&cfg.Address, "address", defaultAddress, "network address to listen on")
	flag.StringVar(&cfg.ApplicationLog, "application-log-level", defaultLogLevel, "log level: debug, info, warning, error")
	flag.StringVar(&cfg.FixedBody, "fixed-body", "", "fixed response body served by the demo handler")

	return cfg
}

// Parse parses the command line, then applies an optional YAML config
// file over the flag defaults, and reapplies the command line so an
// explicit flag always wins over the file.
func (c *Config) Parse() error {
	flag.Parse()

	if len(flag.Args()) != 0 {
		return fmt.Errorf("routerconfig: invalid arguments: %v", flag.Args())
	}

	if c.ConfigFile != "" {
		data, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("routerconfig: invalid config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("routerconfig: unmarshalling config file: %w", err)
		}
		flag.Parse()
	}

	return nil
}
