package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STATIC_DIR", "ETH_RPC_URL", "WALLET_POLL_INTERVAL", "LOG_LEVEL", "FIAT_CURRENCY"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	require.NoError(t, Init())

	assert.Equal(t, "3001", GetPort())
	assert.Equal(t, "public", GetStaticDir())
	assert.Equal(t, "http://127.0.0.1:8545", GetRPCURL())
	assert.Equal(t, 4*time.Second, GetPollInterval())
	assert.Equal(t, 15*time.Second, GetFetchTimeout())
	assert.Equal(t, slog.LevelInfo, GetLogLevel())
	assert.Empty(t, GetFiatCurrency())
}

func TestInit_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WALLET_POLL_INTERVAL", "250ms")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("FIAT_CURRENCY", "EUR")

	require.NoError(t, Init())

	assert.Equal(t, "8080", GetPort())
	assert.Equal(t, 250*time.Millisecond, GetPollInterval())
	assert.Equal(t, slog.LevelDebug, GetLogLevel())
	assert.Equal(t, "eur", GetFiatCurrency())
}

func TestInit_InvalidDuration(t *testing.T) {
	t.Setenv("WALLET_POLL_INTERVAL", "often")
	assert.Error(t, Init())
}

func TestGetLogLevel_Fallback(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")
	require.NoError(t, Init())
	assert.Equal(t, slog.LevelInfo, GetLogLevel())
}

func TestGetKeyPasswordBytes_NotSet(t *testing.T) {
	ClearPassword()
	_, err := GetKeyPasswordBytes()
	assert.Error(t, err)
}

func TestResolveNetwork_Localhost(t *testing.T) {
	n, err := ResolveNetwork(DefaultNetworks(), "localhost", &Config{})
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8545", n.URL)
	assert.Empty(t, n.Accounts)
	assert.Equal(t, int64(31337), n.ChainID)
}

func TestResolveNetwork_Sepolia(t *testing.T) {
	c := &Config{InfuraProjectID: "abc123", PrivateKey: "0xdeadbeef"}

	n, err := ResolveNetwork(DefaultNetworks(), "Sepolia", c)
	require.NoError(t, err)

	assert.Equal(t, "https://sepolia.infura.io/v3/abc123", n.URL)
	assert.Equal(t, []string{"0xdeadbeef"}, n.Accounts)
}

func TestResolveNetwork_SepoliaRequiresProjectID(t *testing.T) {
	t.Setenv("INFURA_PROJECT_ID", "")

	_, err := ResolveNetwork(DefaultNetworks(), "sepolia", &Config{PrivateKey: "00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INFURA_PROJECT_ID")
}

func TestResolveNetwork_SepoliaWithoutKeyDropsAccount(t *testing.T) {
	t.Setenv("PRIVATE_KEY", "")

	n, err := ResolveNetwork(DefaultNetworks(), "sepolia", &Config{InfuraProjectID: "id"})
	require.NoError(t, err)
	assert.Empty(t, n.Accounts)
}

func TestResolveNetwork_Unknown(t *testing.T) {
	_, err := ResolveNetwork(DefaultNetworks(), "mainnet", &Config{})
	assert.ErrorIs(t, err, ErrUnknownNetwork)
	assert.Contains(t, err.Error(), "localhost, sepolia")
}

func TestLoadNetworks_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	content := `networks:
  anvil:
    url: http://127.0.0.1:${ANVIL_PORT}
    chain_id: 31337
  localhost:
    url: http://localhost:9545
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("ANVIL_PORT", "8546")

	networks, err := LoadNetworks(path)
	require.NoError(t, err)
	assert.Contains(t, networks, "sepolia")

	anvil, err := ResolveNetwork(networks, "anvil", &Config{})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8546", anvil.URL)
	assert.Equal(t, int64(31337), anvil.ChainID)

	local, err := ResolveNetwork(networks, "localhost", &Config{})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9545", local.URL)
}

func TestLoadNetworks_MissingFile(t *testing.T) {
	_, err := LoadNetworks(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadNetworks_NoPath(t *testing.T) {
	networks, err := LoadNetworks("")
	require.NoError(t, err)
	assert.Len(t, networks, 2)
}
