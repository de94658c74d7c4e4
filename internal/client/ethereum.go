package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"time"

	"github.com/AlexZinkM/webthree/wallet"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// JSON-RPC "method not found"
const rpcMethodNotFound = -32601

// EthereumClient is a wallet provider backed by an Ethereum JSON-RPC endpoint.
// Account and chain changes are detected by polling, see Watch.
type EthereumClient struct {
	wallet.Emitter

	rpcClient *rpc.Client
	ethClient *ethclient.Client
	logger    *slog.Logger
}

var _ wallet.Provider = (*EthereumClient)(nil)

// NewEthereumClient dials rpcURL
func NewEthereumClient(ctx context.Context, rpcURL string, logger *slog.Logger) (*EthereumClient, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	return NewEthereumClientFromRPC(rpcClient, logger), nil
}

// NewEthereumClientFromRPC wraps an already connected RPC client
func NewEthereumClientFromRPC(rpcClient *rpc.Client, logger *slog.Logger) *EthereumClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &EthereumClient{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		logger:    logger,
	}
}

// EthClient exposes the underlying ethclient, e.g. for deployments
func (c *EthereumClient) EthClient() *ethclient.Client {
	return c.ethClient
}

// Close closes the RPC connection
func (c *EthereumClient) Close() {
	c.rpcClient.Close()
}

// RequestAccounts asks for account access with eth_requestAccounts.
// Nodes that do not implement it (local development nodes) are asked for their
// unlocked accounts instead.
func (c *EthereumClient) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []common.Address
	err := c.rpcClient.CallContext(ctx, &accounts, "eth_requestAccounts")
	if isMethodNotFound(err) {
		c.logger.Debug("eth_requestAccounts not supported, falling back to eth_accounts")
		return c.Accounts(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to request accounts: %w", err)
	}
	return addressStrings(accounts), nil
}

// Accounts returns the accounts the endpoint exposes without prompting
func (c *EthereumClient) Accounts(ctx context.Context) ([]string, error) {
	var accounts []common.Address
	if err := c.rpcClient.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return addressStrings(accounts), nil
}

// GetBalance returns the latest balance of address in wei
func (c *EthereumClient) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("invalid Ethereum address: %q", address)
	}
	balance, err := c.ethClient.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// GetChainID returns the chain identifier of the endpoint
func (c *EthereumClient) GetChainID(ctx context.Context) (int64, error) {
	chainID, err := c.ethClient.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get chain id: %w", err)
	}
	return chainID.Int64(), nil
}

// watchState holds the last observed values; the first observation only primes it
type watchState struct {
	accountsKnown bool
	accounts      []string
	chainKnown    bool
	chainID       int64
}

// Watch polls the endpoint every interval and emits accountsChanged and
// chainChanged when the observed value differs from the previous one.
// It returns when ctx is done.
func (c *EthereumClient) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var st watchState
	c.poll(ctx, &st)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.poll(ctx, &st)
		}
	}
}

func (c *EthereumClient) poll(ctx context.Context, st *watchState) {
	accounts, err := c.Accounts(ctx)
	if err != nil {
		c.logger.Debug("poll accounts failed", slog.String("error", err.Error()))
	} else {
		if st.accountsKnown && !slices.Equal(accounts, st.accounts) {
			c.logger.Info("accounts changed", slog.Int("count", len(accounts)))
			c.Emit(wallet.Event{Type: wallet.EventAccountsChanged, Accounts: accounts})
		}
		st.accounts, st.accountsKnown = accounts, true
	}

	chainID, err := c.GetChainID(ctx)
	if err != nil {
		c.logger.Debug("poll chain id failed", slog.String("error", err.Error()))
		return
	}
	if st.chainKnown && chainID != st.chainID {
		c.logger.Info("chain changed", slog.Int64("from", st.chainID), slog.Int64("to", chainID))
		c.Emit(wallet.Event{Type: wallet.EventChainChanged, ChainID: chainID})
	}
	st.chainID, st.chainKnown = chainID, true
}

func isMethodNotFound(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == rpcMethodNotFound
}

func addressStrings(addresses []common.Address) []string {
	out := make([]string, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, a.Hex())
	}
	return out
}
