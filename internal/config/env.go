package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Config contains all configuration parameters for the application.
// Note: the key file password is prompted at runtime and stored in memory - use GetKeyPasswordBytes()
type Config struct {
	Port            string        `envconfig:"PORT" default:"3001"`
	StaticDir       string        `envconfig:"STATIC_DIR" default:"public"`
	RPCURL          string        `envconfig:"ETH_RPC_URL" default:"http://127.0.0.1:8545"`
	PollInterval    time.Duration `envconfig:"WALLET_POLL_INTERVAL" default:"4s"`
	FetchTimeout    time.Duration `envconfig:"WALLET_FETCH_TIMEOUT" default:"15s"`
	FiatCurrency    string        `envconfig:"FIAT_CURRENCY"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	InfuraProjectID string        `envconfig:"INFURA_PROJECT_ID"`
	PrivateKey      string        `envconfig:"PRIVATE_KEY"`
	KeyFilePath     string        `envconfig:"DEPLOY_KEY_FILE"`
	NetworksFile    string        `envconfig:"NETWORKS_FILE"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetStaticDir returns the directory of pre-built frontend assets
func GetStaticDir() string {
	return Get().StaticDir
}

// GetRPCURL returns the wallet provider RPC URL, empty when disabled
func GetRPCURL() string {
	return Get().RPCURL
}

// GetPollInterval returns how often the provider is polled for account and chain changes
func GetPollInterval() time.Duration {
	return Get().PollInterval
}

// GetFetchTimeout returns the timeout of a single provider call
func GetFetchTimeout() time.Duration {
	return Get().FetchTimeout
}

// GetFiatCurrency returns the currency balances are priced in, empty when disabled
func GetFiatCurrency() string {
	return strings.ToLower(Get().FiatCurrency)
}

// GetKeyFilePath returns path to the encrypted deployer key file
func GetKeyFilePath() string {
	return Get().KeyFilePath
}

// GetNetworksFile returns path to the optional networks overlay file
func GetNetworksFile() string {
	return Get().NetworksFile
}

// GetLogLevel parses LOG_LEVEL, falling back to info
func GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(Get().LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

var passwordBytes []byte

// PromptForPassword prompts the user for the key file password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
func PromptForPassword(prompt string) error {
	raw, err := ReadSecret(prompt)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	clear(passwordBytes)
	passwordBytes = raw
	return nil
}

// ReadSecret reads one line from the terminal without echoing it.
// Caller must zero the returned slice after use.
func ReadSecret(prompt string) ([]byte, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, errors.New("stdin is not a terminal: run interactively to enter password")
	}
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	clear(raw)
	return out, nil
}

// GetKeyPasswordBytes returns the password stored in memory (from PromptForPassword).
// Caller must zero the returned slice after use.
func GetKeyPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword first")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}

// ClearPassword wipes the stored password
func ClearPassword() {
	clear(passwordBytes)
	passwordBytes = nil
}
