package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

const (
	NetworkLocalhost = "localhost"
	NetworkSepolia   = "sepolia"

	LocalhostURL = "http://127.0.0.1:8545"
	// ${VAR} references are expanded when the network is resolved
	sepoliaURL     = "https://sepolia.infura.io/v3/${INFURA_PROJECT_ID}"
	sepoliaAccount = "0x${PRIVATE_KEY}"
)

// ErrUnknownNetwork is returned for a network name that is not declared
var ErrUnknownNetwork = errors.New("unknown network")

// Network is a named RPC endpoint the deployer can target.
// Accounts holds hex private keys; empty means "use the node's unlocked accounts".
type Network struct {
	Name     string   `mapstructure:"-"`
	URL      string   `mapstructure:"url"`
	Accounts []string `mapstructure:"accounts"`
	ChainID  int64    `mapstructure:"chain_id"`
}

// DefaultNetworks returns the built-in local development and public test networks
func DefaultNetworks() map[string]Network {
	return map[string]Network{
		NetworkLocalhost: {
			Name:    NetworkLocalhost,
			URL:     LocalhostURL,
			ChainID: 31337,
		},
		NetworkSepolia: {
			Name:     NetworkSepolia,
			URL:      sepoliaURL,
			Accounts: []string{sepoliaAccount},
			ChainID:  11155111,
		},
	}
}

// LoadNetworks returns the default networks overlaid with the networks declared
// in the YAML (or any viper supported format) file at path. An empty path skips the file.
func LoadNetworks(path string) (map[string]Network, error) {
	networks := DefaultNetworks()
	if path == "" {
		return networks, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read networks file: %w", err)
	}

	var file struct {
		Networks map[string]Network `mapstructure:"networks"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse networks file: %w", err)
	}

	for name, n := range file.Networks {
		n.Name = strings.ToLower(name)
		networks[n.Name] = n
	}
	return networks, nil
}

// ResolveNetwork looks up name and expands its ${VAR} references.
// Variables known to Config come from it, everything else from the process environment.
// A URL referencing an unset variable is an error; an account referencing one is dropped.
func ResolveNetwork(networks map[string]Network, name string, c *Config) (Network, error) {
	n, ok := networks[strings.ToLower(name)]
	if !ok {
		return Network{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownNetwork, name, strings.Join(networkNames(networks), ", "))
	}

	resolvedURL, missing := expand(n.URL, c)
	if len(missing) > 0 {
		return Network{}, fmt.Errorf("network %s: %s is not set", n.Name, strings.Join(missing, ", "))
	}
	parsed, err := url.Parse(resolvedURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Network{}, fmt.Errorf("network %s: invalid url %q", n.Name, resolvedURL)
	}

	accounts := make([]string, 0, len(n.Accounts))
	for _, account := range n.Accounts {
		resolved, missing := expand(account, c)
		if len(missing) > 0 {
			continue
		}
		accounts = append(accounts, resolved)
	}

	return Network{
		Name:     n.Name,
		URL:      resolvedURL,
		Accounts: accounts,
		ChainID:  n.ChainID,
	}, nil
}

func expand(s string, c *Config) (string, []string) {
	var missing []string
	out := os.Expand(s, func(name string) string {
		value := lookupVar(name, c)
		if value == "" {
			missing = append(missing, name)
		}
		return value
	})
	return out, missing
}

func lookupVar(name string, c *Config) string {
	if c != nil {
		switch name {
		case "INFURA_PROJECT_ID":
			return c.InfuraProjectID
		case "PRIVATE_KEY":
			return strings.TrimPrefix(c.PrivateKey, "0x")
		}
	}
	return os.Getenv(name)
}

func networkNames(networks map[string]Network) []string {
	names := make([]string, 0, len(networks))
	for name := range networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
