/*
Package config holds network descriptions used to reach Galaxy RPC
servers. Well-known networks are available as predefined values; custom
deployments load from a YAML file.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Network describes one reachable network.
type Network struct {
	// Name identifies the network in configs and logs.
	Name string `yaml:"name"`
	// RPCEndpoint is the URL of the network's RPC server.
	RPCEndpoint string `yaml:"rpc_endpoint"`
	// Passphrase is the network passphrase transaction hashes bind to.
	Passphrase string `yaml:"passphrase"`
	// PollInterval overrides the default event poll interval.
	PollInterval time.Duration `yaml:"poll_interval"`
	// RequestTimeout overrides the default per-request RPC timeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// Well-known networks.
var (
	Testnet = Network{
		Name:        "testnet",
		RPCEndpoint: "https://soroban-testnet.stellar.org",
		Passphrase:  "Test SDF Network ; September 2015",
	}
	Mainnet = Network{
		Name:        "mainnet",
		RPCEndpoint: "https://mainnet.sorobanrpc.com",
		Passphrase:  "Public Global Stellar Network ; September 2015",
	}
	Local = Network{
		Name:        "local",
		RPCEndpoint: "http://localhost:8000/soroban/rpc",
		Passphrase:  "Standalone Network ; February 2017",
	}
)

// Config is the top-level configuration file layout.
type Config struct {
	// Default is the name of the network used when none is asked for.
	Default string `yaml:"default"`
	// Networks lists the known networks.
	Networks []Network `yaml:"networks"`
}

// Validate checks a network description for completeness.
func (n Network) Validate() error {
	if n.Name == "" {
		return errors.New("network name is missing")
	}
	if n.RPCEndpoint == "" {
		return fmt.Errorf("network %s: RPC endpoint is missing", n.Name)
	}
	if n.Passphrase == "" {
		return fmt.Errorf("network %s: passphrase is missing", n.Name)
	}
	return nil
}

// Network returns the named network, falling back to the configured
// default for an empty name.
func (c Config) Network(name string) (Network, error) {
	if name == "" {
		name = c.Default
	}
	for _, n := range c.Networks {
		if n.Name == name {
			return n, nil
		}
	}
	return Network{}, fmt.Errorf("unknown network %s", name)
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}
	return Unmarshal(data)
}

// Unmarshal parses and validates raw YAML configuration.
func Unmarshal(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("unable to parse config: %w", err)
	}
	if len(cfg.Networks) == 0 {
		return Config{}, errors.New("no networks configured")
	}
	for _, n := range cfg.Networks {
		if err := n.Validate(); err != nil {
			return Config{}, err
		}
	}
	if cfg.Default != "" {
		if _, err := cfg.Network(cfg.Default); err != nil {
			return Config{}, fmt.Errorf("default: %w", err)
		}
	}
	return cfg, nil
}
